package model

import (
	"time"

	"github.com/google/uuid"
)

// Inward is a goods-received record created by the procurement flow. Restocks
// must reference an existing inward; this module only reads them.
type Inward struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	InwardCode string    `gorm:"uniqueIndex;not null"`
	Vendor     string
	ReceivedAt time.Time `gorm:"not null"`
	CreatedAt  time.Time
}

func (Inward) TableName() string { return "inwards" }
