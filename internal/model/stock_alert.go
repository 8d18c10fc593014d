package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AlertType classifies a threshold alert. NearExpiry/Expired alerts belong to
// the expiry subsystem and are not represented here.
type AlertType string

const (
	AlertLowStock       AlertType = "low_stock"
	AlertOutOfStock     AlertType = "out_of_stock"
	AlertStockRecovered AlertType = "stock_recovered"
)

// StockAlert is an active threshold condition on an item. The composite
// unique index on (item_id, type) is the idempotence guarantee: inserting an
// alert that already exists is a conflict, treated as success.
type StockAlert struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ItemID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_item_alert_type"`
	Type   AlertType `gorm:"type:varchar(20);not null;uniqueIndex:idx_item_alert_type"`
	// SendTo is the set of role names the alert is addressed to, stored as a
	// JSON array of strings.
	SendTo    datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time

	Item *Item `gorm:"foreignKey:ItemID"`
}

func (StockAlert) TableName() string { return "stock_alerts" }
