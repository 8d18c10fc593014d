package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Asma2528/LabStockEase-sub001/internal/config"
	"github.com/Asma2528/LabStockEase-sub001/internal/infra"
	"github.com/Asma2528/LabStockEase-sub001/internal/repository"
	"github.com/Asma2528/LabStockEase-sub001/internal/service"
	"github.com/Asma2528/LabStockEase-sub001/internal/worker"
)

// stockd runs the async side of the stock ledger: the alert email worker
// pool and the periodic alert sweep. The journals themselves are a library
// consumed in-process by the class-specific services.
func main() {
	// Structured logger: console in dev, JSON in prod
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mailer := infra.NewMailer(cfg)
	handlers := &worker.Handlers{
		AlertEmail: worker.NewAlertEmailWorker(mailer),
	}
	worker.StartWorkerPool(ctx, rdb, handlers, cfg.WorkerPoolSize)

	itemRepo := repository.NewItemRepository(db)
	alertRepo := repository.NewAlertRepository(db)
	userRepo := repository.NewUserRepository(db)
	dispatcher := worker.NewDispatcher(rdb)
	notifier := service.NewStockNotifier(alertRepo, userRepo, dispatcher, cfg.AlertRoleNames())

	service.StartAlertSweep(ctx, service.SweepConfig{
		Items:    itemRepo,
		Notifier: notifier,
		Interval: time.Duration(cfg.SweepIntervalSeconds) * time.Second,
	})

	log.Info().Msg("stockd running")

	// Graceful shutdown on SIGINT / SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down…")
	cancel()
	// Give workers a moment to finish their current job.
	time.Sleep(2 * time.Second)
	log.Info().Msg("stockd exited")
}
