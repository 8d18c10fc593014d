package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Asma2528/LabStockEase-sub001/internal/model"
)

// ── Issuance ────────────────────────────────────────────────────────────────

type IssueRequest struct {
	ItemID      string            `json:"item_id" validate:"required,uuid"`
	RequestKind model.RequestKind `json:"request_kind" validate:"omitempty,oneof=requisition order_request new_indent"`
	RequestID   string            `json:"request_id" validate:"omitempty,uuid,required_with=RequestKind"`
	Quantity    int               `json:"quantity" validate:"min=0"`
	DateIssued  time.Time         `json:"date_issued" validate:"required"`
	UserEmail   string            `json:"user_email" validate:"required,email"`
}

type EditIssuanceRequest struct {
	Quantity   int       `json:"quantity" validate:"min=0"`
	DateIssued time.Time `json:"date_issued" validate:"required"`
	UserEmail  string    `json:"user_email" validate:"required,email"`
}

// ReturnRequest records an equipment return against an issuance log.
// Quantities are the increments for this return event, not running totals.
type ReturnRequest struct {
	ReturnedQuantity      int       `json:"returned_quantity" validate:"min=0"`
	LostOrDamagedQuantity int       `json:"lost_or_damaged_quantity" validate:"min=0"`
	DateReturned          time.Time `json:"date_returned" validate:"required"`
}

type IssuanceResponse struct {
	ID             string            `json:"id"`
	ItemID         string            `json:"item_id"`
	ItemCode       string            `json:"item_code,omitempty"`
	RequestKind    model.RequestKind `json:"request_kind,omitempty"`
	RequestID      string            `json:"request_id,omitempty"`
	IssuedQuantity int               `json:"issued_quantity"`
	DateIssued     time.Time         `json:"date_issued"`
	UserEmail      string            `json:"user_email"`
	// StockRecovered is true when this mutation brought the item back above
	// its minimum level and a recovery alert was newly raised.
	StockRecovered bool `json:"stock_recovered"`
}

type IssuanceFilter struct {
	ItemID    string
	UserEmail string
	Page      int
	Limit     int
}

// ── Restock ─────────────────────────────────────────────────────────────────

type RestockRequest struct {
	ItemID         string          `json:"item_id" validate:"required,uuid"`
	InwardID       string          `json:"inward_id" validate:"required,uuid"`
	Quantity       int             `json:"quantity" validate:"gt=0"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	ExpirationDate *time.Time      `json:"expiration_date,omitempty"`
}

type EditRestockRequest struct {
	Quantity       int             `json:"quantity" validate:"gt=0"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	ExpirationDate *time.Time      `json:"expiration_date,omitempty"`
}

type RestockResponse struct {
	ID                string          `json:"id"`
	ItemID            string          `json:"item_id"`
	InwardID          string          `json:"inward_id"`
	QuantityPurchased int             `json:"quantity_purchased"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	ExpirationDate    *time.Time      `json:"expiration_date,omitempty"`
	StockRecovered    bool            `json:"stock_recovered"`
}

type RestockFilter struct {
	ItemID   string
	InwardID string
	Page     int
	Limit    int
}
