package dto

import (
	"encoding/json"

	"github.com/Asma2528/LabStockEase-sub001/internal/model"
)

type RegisterItemRequest struct {
	ItemCode      string          `json:"item_code" validate:"required"`
	Class         model.ItemClass `json:"class" validate:"required,oneof=chemical consumable equipment glassware book other"`
	Name          string          `json:"name" validate:"required"`
	Unit          string          `json:"unit"`
	TotalQuantity int             `json:"total_quantity" validate:"min=0"`
	MinStockLevel int             `json:"min_stock_level" validate:"min=0"`
	// Details carries class-specific fields (author, casNo, model_number, ...)
	// as an opaque blob; the ledger never inspects it.
	Details json.RawMessage `json:"details,omitempty"`
}

type ItemResponse struct {
	ID              string            `json:"id"`
	ItemCode        string            `json:"item_code"`
	Class           model.ItemClass   `json:"class"`
	Name            string            `json:"name"`
	Unit            string            `json:"unit"`
	TotalQuantity   int               `json:"total_quantity"`
	CurrentQuantity int               `json:"current_quantity"`
	MinStockLevel   int               `json:"min_stock_level"`
	Status          model.StockStatus `json:"status"`
	Details         json.RawMessage   `json:"details,omitempty"`
}

type ItemFilter struct {
	Class  model.ItemClass
	Status model.StockStatus
	Name   string
	Page   int
	Limit  int
}

type ItemListResponse struct {
	Data  []ItemResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

type AlertResponse struct {
	ID        string          `json:"id"`
	ItemID    string          `json:"item_id"`
	ItemCode  string          `json:"item_code,omitempty"`
	Type      model.AlertType `json:"type"`
	SendTo    []string        `json:"send_to"`
	CreatedAt string          `json:"created_at"`
}
