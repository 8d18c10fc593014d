package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/Asma2528/LabStockEase-sub001/internal/model"
	"github.com/Asma2528/LabStockEase-sub001/internal/repository"
)

// ledgerMaxRetries bounds the internal retry loop on transient write
// conflicts before ErrWriteConflict surfaces to the caller.
const ledgerMaxRetries = 3

// LedgerResult describes one applied delta: the status transition and the
// quantities after the update.
type LedgerResult struct {
	ItemID          uuid.UUID
	OldStatus       model.StockStatus
	NewStatus       model.StockStatus
	CurrentQuantity int
	TotalQuantity   int
}

// StockLedger is the single writer of current_quantity, total_quantity and
// status, and the sole authority on whether a delta is admissible. Journals
// call Apply*Delta inside their transaction and ReconcileAlerts after commit.
type StockLedger struct {
	items    repository.ItemRepository
	notifier *StockNotifier
}

func NewStockLedger(items repository.ItemRepository, notifier *StockNotifier) *StockLedger {
	return &StockLedger{items: items, notifier: notifier}
}

// ApplyIssuanceDelta subtracts delta from current_quantity. A positive delta
// is stock leaving; a negative delta is a correction returning stock. The
// guarded UPDATE refuses a negative result with InsufficientStockError.
func (l *StockLedger) ApplyIssuanceDelta(tx *gorm.DB, itemID uuid.UUID, delta int) (*LedgerResult, error) {
	return l.applyDelta(tx, itemID, -delta, 0)
}

// ApplyRestockDelta adds delta to both current_quantity and total_quantity.
// Reversing or shrinking a restock may pass a negative delta; driving either
// quantity below zero fails with ErrInvalidQuantity.
func (l *StockLedger) ApplyRestockDelta(tx *gorm.DB, itemID uuid.UUID, delta int) (*LedgerResult, error) {
	return l.applyDelta(tx, itemID, delta, delta)
}

func (l *StockLedger) applyDelta(tx *gorm.DB, itemID uuid.UUID, currentDelta, totalDelta int) (*LedgerResult, error) {
	before, err := l.items.FindByIDTx(tx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	rows, err := l.items.ApplyDeltaTx(tx, itemID, currentDelta, totalDelta)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, l.classifyRefusal(tx, itemID, currentDelta, totalDelta)
	}

	after, err := l.items.FindByIDTx(tx, itemID)
	if err != nil {
		return nil, err
	}
	return &LedgerResult{
		ItemID:          itemID,
		OldStatus:       before.Status,
		NewStatus:       after.Status,
		CurrentQuantity: after.CurrentQuantity,
		TotalQuantity:   after.TotalQuantity,
	}, nil
}

// classifyRefusal turns a zero-row guarded update into a precise error:
// missing item, inadmissible delta, or a lost race worth retrying.
func (l *StockLedger) classifyRefusal(tx *gorm.DB, itemID uuid.UUID, currentDelta, totalDelta int) error {
	item, err := l.items.FindByIDTx(tx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrItemNotFound
		}
		return err
	}
	if item.CurrentQuantity+currentDelta < 0 {
		if currentDelta < 0 {
			return &InsufficientStockError{Available: item.CurrentQuantity, Requested: -currentDelta}
		}
		return ErrInvalidQuantity
	}
	if item.TotalQuantity+totalDelta < 0 {
		return ErrInvalidQuantity
	}
	// The row changed between the UPDATE and this read; transient.
	return ErrWriteConflict
}

// ReconcileAlerts aligns the active alert set with the transition recorded in
// res. Runs after the ledger transaction commits; failures are logged and
// never fail the business operation, since the next status-changing mutation
// (or the sweep) self-heals. Returns whether a recovery alert was newly
// raised.
func (l *StockLedger) ReconcileAlerts(ctx context.Context, item *model.Item, res *LedgerResult) bool {
	recovered, err := l.notifier.Reconcile(ctx, item, res.OldStatus, res.NewStatus)
	if err != nil {
		log.Error().Err(err).
			Str("item_id", res.ItemID.String()).
			Str("old_status", string(res.OldStatus)).
			Str("new_status", string(res.NewStatus)).
			Msg("ledger: alert reconciliation failed")
		return false
	}
	return recovered
}

// withRetry re-runs fn while it fails with ErrWriteConflict, up to
// ledgerMaxRetries attempts.
func withRetry(fn func() error) error {
	var err error
	for attempt := 0; attempt < ledgerMaxRetries; attempt++ {
		err = fn()
		if !errors.Is(err, ErrWriteConflict) {
			return err
		}
	}
	return err
}
