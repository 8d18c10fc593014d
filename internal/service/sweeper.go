package service

// sweeper.go
// Background goroutine that periodically re-reconciles every item's alerts
// against its quantities. A crash between a ledger commit and the notifier
// call leaves a stale or missing alert; the sweep heals it on the next pass.

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Asma2528/LabStockEase-sub001/internal/model"
	"github.com/Asma2528/LabStockEase-sub001/internal/repository"
)

const (
	defaultSweepInterval  = 5 * time.Minute
	defaultSweepBatchSize = 200
)

// SweepConfig holds all dependencies for the sweep goroutine.
type SweepConfig struct {
	Items    repository.ItemRepository
	Notifier *StockNotifier
	Interval time.Duration
	// BatchSize is how many items one page of the scan reads.
	BatchSize int
}

// StartAlertSweep launches a background goroutine that ticks on the
// configured interval and walks the whole item table. It respects the context
// for graceful shutdown.
func StartAlertSweep(ctx context.Context, cfg SweepConfig) {
	if cfg.Interval <= 0 {
		cfg.Interval = defaultSweepInterval
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultSweepBatchSize
	}
	go func() {
		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()

		log.Info().Dur("interval", cfg.Interval).Msg("alert_sweep: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("alert_sweep: shutting down")
				return
			case <-ticker.C:
				SweepOnce(ctx, cfg)
			}
		}
	}()
}

// SweepOnce scans all items once. Exposed for one-shot invocation and tests.
func SweepOnce(ctx context.Context, cfg SweepConfig) {
	var after uuid.UUID
	healed := 0
	for {
		items, err := cfg.Items.ListPage(ctx, after, cfg.BatchSize)
		if err != nil {
			log.Error().Err(err).Msg("alert_sweep: listing items failed")
			return
		}
		if len(items) == 0 {
			break
		}
		for i := range items {
			if sweepItem(ctx, cfg, &items[i]) {
				healed++
			}
		}
		after = items[len(items)-1].ID
		if len(items) < cfg.BatchSize {
			break
		}
	}
	if healed > 0 {
		log.Info().Int("healed", healed).Msg("alert_sweep: pass complete")
	} else {
		log.Debug().Msg("alert_sweep: pass complete, nothing to heal")
	}
}

func sweepItem(ctx context.Context, cfg SweepConfig, item *model.Item) bool {
	expected := model.ComputeStatus(item.CurrentQuantity, item.MinStockLevel)
	drifted := item.Status != expected
	if drifted {
		if err := cfg.Items.UpdateStatus(ctx, item.ID, expected); err != nil {
			log.Error().Err(err).Str("item_code", item.ItemCode).
				Msg("alert_sweep: status repair failed")
			return false
		}
	}

	// Resync even when the status agrees: raise is idempotent and clear is
	// repeatable, so this recreates a missing alert and drops a stale one
	// without re-raising recovery alerts.
	if err := cfg.Notifier.Resync(ctx, item, expected); err != nil {
		log.Error().Err(err).Str("item_code", item.ItemCode).
			Msg("alert_sweep: reconcile failed")
		return false
	}
	return drifted
}
