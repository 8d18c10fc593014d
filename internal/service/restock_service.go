package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Asma2528/LabStockEase-sub001/internal/dto"
	"github.com/Asma2528/LabStockEase-sub001/internal/model"
	"github.com/Asma2528/LabStockEase-sub001/internal/repository"
)

// RestockJournal mirrors IssuanceJournal for purchase receipts; deltas are
// additive by default.
type RestockJournal interface {
	Restock(ctx context.Context, req dto.RestockRequest) (*dto.RestockResponse, error)
	Edit(ctx context.Context, restockID uuid.UUID, req dto.EditRestockRequest) (*dto.RestockResponse, error)
	Delete(ctx context.Context, restockID uuid.UUID) (bool, error)
	List(ctx context.Context, filter dto.RestockFilter) ([]dto.RestockResponse, int64, error)
}

type restockJournal struct {
	restocks repository.RestockRepository
	items    repository.ItemRepository
	inwards  repository.InwardRepository
	ledger   *StockLedger
}

func NewRestockJournal(
	restocks repository.RestockRepository,
	items repository.ItemRepository,
	inwards repository.InwardRepository,
	ledger *StockLedger,
) RestockJournal {
	return &restockJournal{restocks: restocks, items: items, inwards: inwards, ledger: ledger}
}

func (s *restockJournal) Restock(ctx context.Context, req dto.RestockRequest) (*dto.RestockResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid restock request: %w", err)
	}
	if req.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		return nil, fmt.Errorf("item_id: %w", err)
	}
	inwardID, err := uuid.Parse(req.InwardID)
	if err != nil {
		return nil, fmt.Errorf("inward_id: %w", err)
	}

	item, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	ok, err := s.inwards.Exists(ctx, inwardID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInwardNotFound
	}

	var entry model.RestockEntry
	var res *LedgerResult
	err = withRetry(func() error {
		entry = model.RestockEntry{
			ItemID:            itemID,
			InwardID:          inwardID,
			QuantityPurchased: req.Quantity,
			UnitPrice:         req.UnitPrice,
			ExpirationDate:    req.ExpirationDate,
		}
		entry.DeriveExpirationAlertDate()
		return runTx(ctx, s.items.DB(), func(tx *gorm.DB) error {
			if err := s.restocks.CreateTx(tx, &entry); err != nil {
				return err
			}
			res, err = s.ledger.ApplyRestockDelta(tx, itemID, req.Quantity)
			return err
		})
	})
	if err != nil {
		return nil, err
	}

	recovered := s.ledger.ReconcileAlerts(ctx, item, res)
	return restockToResponse(&entry, recovered), nil
}

func (s *restockJournal) Edit(ctx context.Context, restockID uuid.UUID, req dto.EditRestockRequest) (*dto.RestockResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid restock edit: %w", err)
	}
	if req.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	entry, err := s.restocks.FindByID(ctx, restockID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRestockNotFound
		}
		return nil, err
	}
	item, err := s.items.FindByID(ctx, entry.ItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	// Shrinking the receipt may drive quantities negative; the ledger guard
	// rejects that with InvalidQuantity.
	delta := req.Quantity - entry.QuantityPurchased

	var res *LedgerResult
	err = withRetry(func() error {
		return runTx(ctx, s.items.DB(), func(tx *gorm.DB) error {
			var err error
			res, err = s.ledger.ApplyRestockDelta(tx, entry.ItemID, delta)
			if err != nil {
				return err
			}
			entry.QuantityPurchased = req.Quantity
			entry.UnitPrice = req.UnitPrice
			entry.ExpirationDate = req.ExpirationDate
			entry.DeriveExpirationAlertDate()
			return s.restocks.UpdateTx(tx, entry)
		})
	})
	if err != nil {
		return nil, err
	}

	recovered := s.ledger.ReconcileAlerts(ctx, item, res)
	return restockToResponse(entry, recovered), nil
}

func (s *restockJournal) Delete(ctx context.Context, restockID uuid.UUID) (bool, error) {
	entry, err := s.restocks.FindByID(ctx, restockID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrRestockNotFound
		}
		return false, err
	}
	item, err := s.items.FindByID(ctx, entry.ItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrItemNotFound
		}
		return false, err
	}

	var res *LedgerResult
	err = withRetry(func() error {
		return runTx(ctx, s.items.DB(), func(tx *gorm.DB) error {
			var err error
			// Reversal removes the received units from both quantities.
			res, err = s.ledger.ApplyRestockDelta(tx, entry.ItemID, -entry.QuantityPurchased)
			if err != nil {
				return err
			}
			return s.restocks.DeleteTx(tx, entry.ID)
		})
	})
	if err != nil {
		return false, err
	}

	return s.ledger.ReconcileAlerts(ctx, item, res), nil
}

func (s *restockJournal) List(ctx context.Context, filter dto.RestockFilter) ([]dto.RestockResponse, int64, error) {
	entries, total, err := s.restocks.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.RestockResponse, 0, len(entries))
	for i := range entries {
		out = append(out, *restockToResponse(&entries[i], false))
	}
	return out, total, nil
}

func restockToResponse(entry *model.RestockEntry, recovered bool) *dto.RestockResponse {
	return &dto.RestockResponse{
		ID:                entry.ID.String(),
		ItemID:            entry.ItemID.String(),
		InwardID:          entry.InwardID.String(),
		QuantityPurchased: entry.QuantityPurchased,
		UnitPrice:         entry.UnitPrice,
		ExpirationDate:    entry.ExpirationDate,
		StockRecovered:    recovered,
	}
}
