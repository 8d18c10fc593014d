package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Asma2528/LabStockEase-sub001/internal/dto"
	"github.com/Asma2528/LabStockEase-sub001/internal/model"
	"github.com/Asma2528/LabStockEase-sub001/internal/repository"
)

// ItemService registers items and exposes the read accessors the class
// screens use. All quantity mutations after registration go through the
// journals, never through this service.
type ItemService interface {
	Register(ctx context.Context, req dto.RegisterItemRequest) (*dto.ItemResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ItemResponse, error)
	GetByCode(ctx context.Context, code string) (*dto.ItemResponse, error)
	List(ctx context.Context, filter dto.ItemFilter) (*dto.ItemListResponse, error)
	ActiveAlerts(ctx context.Context, filter repository.AlertFilter) ([]dto.AlertResponse, int64, error)
}

type itemService struct {
	items  repository.ItemRepository
	alerts repository.AlertRepository
	ledger *StockLedger
}

func NewItemService(items repository.ItemRepository, alerts repository.AlertRepository, ledger *StockLedger) ItemService {
	return &itemService{items: items, alerts: alerts, ledger: ledger}
}

func (s *itemService) Register(ctx context.Context, req dto.RegisterItemRequest) (*dto.ItemResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid item registration: %w", err)
	}
	if req.TotalQuantity < 0 || req.MinStockLevel < 0 {
		return nil, ErrInvalidQuantity
	}

	unit := req.Unit
	if unit == "" {
		unit = "unit"
	}
	item := model.Item{
		ItemCode:        req.ItemCode,
		Class:           req.Class,
		Name:            req.Name,
		Unit:            unit,
		TotalQuantity:   req.TotalQuantity,
		CurrentQuantity: req.TotalQuantity,
		MinStockLevel:   req.MinStockLevel,
		Status:          model.ComputeStatus(req.TotalQuantity, req.MinStockLevel),
		Details:         datatypes.JSON(req.Details),
	}
	if err := s.items.Create(ctx, &item); err != nil {
		return nil, err
	}

	// Reconcile from a clean slate so an item registered at or below its
	// threshold is alerted immediately. Forcing oldStatus to InStock keeps a
	// healthy registration from raising a spurious recovery.
	s.ledger.ReconcileAlerts(ctx, &item, &LedgerResult{
		ItemID:          item.ID,
		OldStatus:       model.StatusInStock,
		NewStatus:       item.Status,
		CurrentQuantity: item.CurrentQuantity,
		TotalQuantity:   item.TotalQuantity,
	})

	return itemToResponse(&item), nil
}

func (s *itemService) Get(ctx context.Context, id uuid.UUID) (*dto.ItemResponse, error) {
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return itemToResponse(item), nil
}

func (s *itemService) GetByCode(ctx context.Context, code string) (*dto.ItemResponse, error) {
	item, err := s.items.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return itemToResponse(item), nil
}

func (s *itemService) List(ctx context.Context, filter dto.ItemFilter) (*dto.ItemListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	items, total, err := s.items.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ItemResponse, 0, len(items))
	for i := range items {
		data = append(data, *itemToResponse(&items[i]))
	}
	return &dto.ItemListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *itemService) ActiveAlerts(ctx context.Context, filter repository.AlertFilter) ([]dto.AlertResponse, int64, error) {
	alerts, total, err := s.alerts.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.AlertResponse, 0, len(alerts))
	for i := range alerts {
		a := &alerts[i]
		var roles []string
		if len(a.SendTo) > 0 {
			_ = json.Unmarshal(a.SendTo, &roles)
		}
		resp := dto.AlertResponse{
			ID:        a.ID.String(),
			ItemID:    a.ItemID.String(),
			Type:      a.Type,
			SendTo:    roles,
			CreatedAt: a.CreatedAt.Format("2006-01-02T15:04:05Z"),
		}
		if a.Item != nil {
			resp.ItemCode = a.Item.ItemCode
		}
		out = append(out, resp)
	}
	return out, total, nil
}

func itemToResponse(item *model.Item) *dto.ItemResponse {
	return &dto.ItemResponse{
		ID:              item.ID.String(),
		ItemCode:        item.ItemCode,
		Class:           item.Class,
		Name:            item.Name,
		Unit:            item.Unit,
		TotalQuantity:   item.TotalQuantity,
		CurrentQuantity: item.CurrentQuantity,
		MinStockLevel:   item.MinStockLevel,
		Status:          item.Status,
		Details:         json.RawMessage(item.Details),
	}
}
