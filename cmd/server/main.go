package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/pratik-mahalle/mxcloud/internal/api/handlers"
	"github.com/pratik-mahalle/mxcloud/internal/api/router"
	"github.com/pratik-mahalle/mxcloud/internal/cache"
	"github.com/pratik-mahalle/mxcloud/internal/config"
	"github.com/pratik-mahalle/mxcloud/internal/pkg/logger"
	"github.com/pratik-mahalle/mxcloud/internal/pkg/validator"
	"github.com/pratik-mahalle/mxcloud/internal/providers"
	"github.com/pratik-mahalle/mxcloud/internal/providers/ucloud"
	"github.com/pratik-mahalle/mxcloud/internal/repository/postgres"
	"github.com/pratik-mahalle/mxcloud/internal/services"
	"github.com/pratik-mahalle/mxcloud/internal/worker"
	"github.com/pratik-mahalle/mxcloud/migrations"
)

// @title mxcloud API
// @version 1.0
// @description Multi-account cloud balance and resource dashboard.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	if err := run(cfg, log); err != nil {
		log.ErrorWithErr(err, "Server exited with error")
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.New(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	applied, err := postgres.RunMigrations(ctx, db, migrations.FS())
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if len(applied) > 0 {
		log.With("applied", applied).Info("Database migrated")
	}

	partitions, err := cache.NewPartitionCache(cfg.Refresh.PartitionCacheSize)
	if err != nil {
		return err
	}
	snapshots := cache.NewSnapshotStore()

	adapter := ucloud.NewAdapter(ucloud.Config{
		Endpoint: cfg.UCloud.Endpoint,
		Timeout:  cfg.UCloud.Timeout,
		ProxyURL: cfg.UCloud.ProxyURL,
	}, log)
	defer adapter.Close()
	registry := providers.NewRegistry(adapter)

	accountRepo := postgres.NewAccountRepository(db)
	ruleRepo := postgres.NewAlertRuleRepository(db)

	sessions := services.NewSessionService(postgres.NewSettingsRepository(db), cfg.Auth.JWTSecret, cfg.Auth.SessionTTL, cfg.Auth.BCryptCost, log)
	accounts := services.NewAccountService(accountRepo, ruleRepo, registry, sessions, snapshots, partitions, log)
	data := services.NewDataService(accountRepo, accounts, registry, snapshots, partitions, log)
	alerts := services.NewAlertService(ruleRepo, postgres.NewNotificationRepository(db), accountRepo, snapshots, cfg.Refresh.NotificationLimit, log)

	if cfg.Refresh.Schedule != "" {
		scheduler := worker.NewRefreshScheduler(data, alerts, cfg.Refresh.Schedule, cfg.Refresh.AlertCheckOnRefresh, log)
		if err := scheduler.Start(ctx); err != nil {
			return err
		}
		defer scheduler.Stop()
	}

	val := validator.New()
	h := &router.Handlers{
		Health:  handlers.NewHealthHandler(db, data.LastUpdated, log),
		Session: handlers.NewSessionHandler(sessions, log, val),
		Account: handlers.NewAccountHandler(accounts, log, val),
		Data:    handlers.NewDataHandler(data, alerts, cfg.Refresh.AlertCheckOnRefresh, log),
		Alert:   handlers.NewAlertHandler(alerts, log, val),
		Proxy:   handlers.NewProxyHandler([]string{cfg.UCloud.Endpoint}, cfg.UCloud.Timeout, log),
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.New(ctx, cfg, log, h, sessions),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(map[string]interface{}{
			"addr":        srv.Addr,
			"environment": cfg.Server.Environment,
			"db_driver":   cfg.Database.Driver,
		}).Info("Server starting")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("Server stopped")
	return nil
}
