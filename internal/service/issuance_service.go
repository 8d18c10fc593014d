package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Asma2528/LabStockEase-sub001/internal/dto"
	"github.com/Asma2528/LabStockEase-sub001/internal/model"
	"github.com/Asma2528/LabStockEase-sub001/internal/repository"
)

var validate = validator.New()

// RequestDirectory resolves tagged request references (requisition /
// order_request / new_indent) owned by the approval workflows. nil disables
// reference validation.
type RequestDirectory interface {
	Exists(ctx context.Context, kind model.RequestKind, id uuid.UUID) (bool, error)
}

// IssuanceJournal orchestrates issue / edit / delete / return of issuance log
// entries. Each operation is one transaction touching the log row and the
// item quantities; alert reconciliation runs after commit.
type IssuanceJournal interface {
	Issue(ctx context.Context, req dto.IssueRequest) (*dto.IssuanceResponse, error)
	Edit(ctx context.Context, logID uuid.UUID, req dto.EditIssuanceRequest) (*dto.IssuanceResponse, error)
	Delete(ctx context.Context, logID uuid.UUID) (bool, error)
	RecordReturn(ctx context.Context, logID uuid.UUID, req dto.ReturnRequest) (*dto.IssuanceResponse, error)
	List(ctx context.Context, filter dto.IssuanceFilter) ([]dto.IssuanceResponse, int64, error)
}

type issuanceJournal struct {
	logs     repository.IssuanceLogRepository
	items    repository.ItemRepository
	ledger   *StockLedger
	requests RequestDirectory
}

func NewIssuanceJournal(
	logs repository.IssuanceLogRepository,
	items repository.ItemRepository,
	ledger *StockLedger,
	requests RequestDirectory,
) IssuanceJournal {
	return &issuanceJournal{logs: logs, items: items, ledger: ledger, requests: requests}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

func (s *issuanceJournal) Issue(ctx context.Context, req dto.IssueRequest) (*dto.IssuanceResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid issue request: %w", err)
	}
	if req.Quantity < 0 {
		return nil, ErrInvalidQuantity
	}
	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		return nil, fmt.Errorf("item_id: %w", err)
	}

	item, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	// Pre-flight guard so the caller sees the precise shortfall; the ledger's
	// own guard still decides under concurrency.
	if req.Quantity > item.CurrentQuantity {
		return nil, &InsufficientStockError{Available: item.CurrentQuantity, Requested: req.Quantity}
	}

	ref, err := s.resolveRequestRef(ctx, req.RequestKind, req.RequestID)
	if err != nil {
		return nil, err
	}

	var entry model.IssuanceLog
	var res *LedgerResult
	err = withRetry(func() error {
		entry = model.IssuanceLog{
			ItemID:         itemID,
			Request:        ref,
			IssuedQuantity: req.Quantity,
			DateIssued:     req.DateIssued,
			UserEmail:      req.UserEmail,
		}
		return runTx(ctx, s.items.DB(), func(tx *gorm.DB) error {
			if err := s.logs.CreateTx(tx, &entry); err != nil {
				return err
			}
			res, err = s.ledger.ApplyIssuanceDelta(tx, itemID, req.Quantity)
			return err
		})
	})
	if err != nil {
		return nil, err
	}

	recovered := s.ledger.ReconcileAlerts(ctx, item, res)
	return issuanceToResponse(&entry, item, recovered), nil
}

func (s *issuanceJournal) Edit(ctx context.Context, logID uuid.UUID, req dto.EditIssuanceRequest) (*dto.IssuanceResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid issuance edit: %w", err)
	}
	if req.Quantity < 0 {
		return nil, ErrInvalidQuantity
	}

	entry, err := s.logs.FindByID(ctx, logID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLogNotFound
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

	// A negative delta returns stock to the item.
	delta := req.Quantity - entry.IssuedQuantity

	var res *LedgerResult
	err = withRetry(func() error {
		return runTx(ctx, s.items.DB(), func(tx *gorm.DB) error {
			var err error
			res, err = s.ledger.ApplyIssuanceDelta(tx, entry.ItemID, delta)
			if err != nil {
				return err
			}
			// Log fields change only once the ledger accepted the delta.
			entry.IssuedQuantity = req.Quantity
			entry.DateIssued = req.DateIssued
			entry.UserEmail = req.UserEmail
			return s.logs.UpdateTx(tx, entry)
		})
	})
	if err != nil {
		return nil, err
	}

	recovered := s.ledger.ReconcileAlerts(ctx, item, res)
	return issuanceToResponse(entry, item, recovered), nil
}

func (s *issuanceJournal) Delete(ctx context.Context, logID uuid.UUID) (bool, error) {
	entry, err := s.logs.FindByID(ctx, logID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrLogNotFound
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
			// Full reversal of the issuance.
			res, err = s.ledger.ApplyIssuanceDelta(tx, entry.ItemID, -entry.IssuedQuantity)
			if err != nil {
				return err
			}
			return s.logs.DeleteTx(tx, entry.ID)
		})
	})
	if err != nil {
		return false, err
	}

	return s.ledger.ReconcileAlerts(ctx, item, res), nil
}

// RecordReturn credits returned-but-undamaged equipment units back into
// available stock. Lost or damaged units are recorded on the log but never
// re-enter stock. Quantities in req are increments for this return event.
func (s *issuanceJournal) RecordReturn(ctx context.Context, logID uuid.UUID, req dto.ReturnRequest) (*dto.IssuanceResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid return request: %w", err)
	}
	if req.ReturnedQuantity < 0 || req.LostOrDamagedQuantity < 0 {
		return nil, ErrInvalidQuantity
	}
	if req.ReturnedQuantity == 0 && req.LostOrDamagedQuantity == 0 {
		return nil, ErrInvalidQuantity
	}

	entry, err := s.logs.FindByID(ctx, logID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLogNotFound
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
	if item.Class != model.ClassEquipment {
		return nil, ErrReturnNotSupported
	}

	accounted := entry.ReturnedQuantity + entry.LostOrDamagedQuantity +
		req.ReturnedQuantity + req.LostOrDamagedQuantity
	if accounted > entry.IssuedQuantity {
		return nil, ErrInvalidQuantity
	}

	var res *LedgerResult
	err = withRetry(func() error {
		return runTx(ctx, s.items.DB(), func(tx *gorm.DB) error {
			if req.ReturnedQuantity > 0 {
				var err error
				res, err = s.ledger.ApplyIssuanceDelta(tx, entry.ItemID, -req.ReturnedQuantity)
				if err != nil {
					return err
				}
			}
			entry.ReturnedQuantity += req.ReturnedQuantity
			entry.LostOrDamagedQuantity += req.LostOrDamagedQuantity
			ret := req.DateReturned
			entry.DateReturned = &ret
			return s.logs.UpdateTx(tx, entry)
		})
	})
	if err != nil {
		return nil, err
	}

	recovered := false
	if res != nil {
		recovered = s.ledger.ReconcileAlerts(ctx, item, res)
	}
	return issuanceToResponse(entry, item, recovered), nil
}

func (s *issuanceJournal) List(ctx context.Context, filter dto.IssuanceFilter) ([]dto.IssuanceResponse, int64, error) {
	entries, total, err := s.logs.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.IssuanceResponse, 0, len(entries))
	for i := range entries {
		out = append(out, *issuanceToResponse(&entries[i], entries[i].Item, false))
	}
	return out, total, nil
}

func (s *issuanceJournal) resolveRequestRef(ctx context.Context, kind model.RequestKind, rawID string) (model.RequestRef, error) {
	if kind == "" && rawID == "" {
		return model.RequestRef{}, nil
	}
	if !kind.Valid() {
		return model.RequestRef{}, fmt.Errorf("request_kind %q: %w", kind, ErrRequestNotFound)
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return model.RequestRef{}, fmt.Errorf("request_id: %w", err)
	}
	if s.requests != nil {
		ok, err := s.requests.Exists(ctx, kind, id)
		if err != nil {
			return model.RequestRef{}, err
		}
		if !ok {
			return model.RequestRef{}, ErrRequestNotFound
		}
	}
	return model.RequestRef{Kind: kind, ID: &id}, nil
}

func issuanceToResponse(entry *model.IssuanceLog, item *model.Item, recovered bool) *dto.IssuanceResponse {
	resp := &dto.IssuanceResponse{
		ID:             entry.ID.String(),
		ItemID:         entry.ItemID.String(),
		RequestKind:    entry.Request.Kind,
		IssuedQuantity: entry.IssuedQuantity,
		DateIssued:     entry.DateIssued,
		UserEmail:      entry.UserEmail,
		StockRecovered: recovered,
	}
	if entry.Request.ID != nil {
		resp.RequestID = entry.Request.ID.String()
	}
	if item != nil {
		resp.ItemCode = item.ItemCode
	}
	return resp
}
