package model

import (
	"time"

	"github.com/google/uuid"
)

// RequestKind tags the approval document an issuance fulfills. Replaces the
// legacy free-form request_model string so callers cannot invent kinds.
type RequestKind string

const (
	KindRequisition  RequestKind = "requisition"
	KindOrderRequest RequestKind = "order_request"
	KindNewIndent    RequestKind = "new_indent"
)

func (k RequestKind) Valid() bool {
	switch k {
	case KindRequisition, KindOrderRequest, KindNewIndent:
		return true
	}
	return false
}

// RequestRef is a tagged reference to an external approval document.
// Zero value means the issuance is not tied to any request (allowed for some
// item classes).
type RequestRef struct {
	Kind RequestKind `gorm:"column:request_kind;type:varchar(20)"`
	ID   *uuid.UUID  `gorm:"column:request_id;type:uuid;index"`
}

func (r RequestRef) IsZero() bool { return r.ID == nil }

// IssuanceLog records one removal of stock against an item. Quantity effects
// flow exclusively through the stock ledger; the row itself is bookkeeping.
type IssuanceLog struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ItemID         uuid.UUID  `gorm:"type:uuid;not null;index"`
	Request        RequestRef `gorm:"embedded"`
	IssuedQuantity int        `gorm:"not null"`
	DateIssued     time.Time  `gorm:"not null"`
	UserEmail      string     `gorm:"not null"`

	// Equipment-only return tracking. Returned units re-enter available stock
	// only through the explicit RecordReturn operation, never implicitly.
	ReturnedQuantity      int `gorm:"not null;default:0"`
	LostOrDamagedQuantity int `gorm:"not null;default:0"`
	DateReturned          *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	Item *Item `gorm:"foreignKey:ItemID"`
}

func (IssuanceLog) TableName() string { return "issuance_logs" }
