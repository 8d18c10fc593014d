package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ItemClass identifies which inventory screen an item belongs to.
type ItemClass string

const (
	ClassChemical   ItemClass = "chemical"
	ClassConsumable ItemClass = "consumable"
	ClassEquipment  ItemClass = "equipment"
	ClassGlassware  ItemClass = "glassware"
	ClassBook       ItemClass = "book"
	ClassOther      ItemClass = "other"
)

// StockStatus is derived from current_quantity vs min_stock_level. It is
// persisted for read efficiency but never trusted as source of truth: every
// quantity mutation recomputes and rewrites it in the same statement.
type StockStatus string

const (
	StatusInStock    StockStatus = "in_stock"
	StatusLowStock   StockStatus = "low_stock"
	StatusOutOfStock StockStatus = "out_of_stock"
)

// ComputeStatus is the single definition of the status state machine.
func ComputeStatus(currentQuantity, minStockLevel int) StockStatus {
	switch {
	case currentQuantity == 0:
		return StatusOutOfStock
	case currentQuantity <= minStockLevel:
		return StatusLowStock
	default:
		return StatusInStock
	}
}

// Item is the common shape shared by all six item classes. Class-specific
// fields (author, casNo, model_number, ...) live in Details as an opaque JSON
// blob owned by the calling service; the ledger never reads it.
type Item struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ItemCode string    `gorm:"uniqueIndex;not null"` // "<PREFIX>-<sequence>", immutable after creation
	Class    ItemClass `gorm:"type:varchar(20);not null;index"`
	Name     string    `gorm:"index;not null"`
	Unit     string    `gorm:"not null;default:'unit'"`
	// TotalQuantity is the cumulative quantity ever received: initial stock
	// plus restocks, minus reversed restocks.
	TotalQuantity   int            `gorm:"not null;default:0"`
	CurrentQuantity int            `gorm:"not null;default:0"` // invariant: never negative
	MinStockLevel   int            `gorm:"not null;default:0"`
	Status          StockStatus    `gorm:"type:varchar(20);not null;index"`
	Details         datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (Item) TableName() string { return "items" }
