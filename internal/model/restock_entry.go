package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// expirationAlertLead is how far ahead of expiry the derived alert date sits.
// Expiry alerting belongs to a separate subsystem; the date is only derived
// here so the row is complete at creation time.
const expirationAlertLead = 30 * 24 * time.Hour

// RestockEntry records one purchase receipt against an item. References an
// inward (goods-received) record validated at creation.
type RestockEntry struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ItemID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	InwardID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	QuantityPurchased int             `gorm:"not null"`
	UnitPrice         decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	ExpirationDate    *time.Time
	// ExpirationAlertDate is derived from ExpirationDate at write time.
	ExpirationAlertDate *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time

	Item *Item `gorm:"foreignKey:ItemID"`
}

func (RestockEntry) TableName() string { return "restock_entries" }

// DeriveExpirationAlertDate refreshes the alert date from the expiry date.
// Call after any change to ExpirationDate.
func (r *RestockEntry) DeriveExpirationAlertDate() {
	if r.ExpirationDate == nil {
		r.ExpirationAlertDate = nil
		return
	}
	d := r.ExpirationDate.Add(-expirationAlertLead)
	r.ExpirationAlertDate = &d
}
