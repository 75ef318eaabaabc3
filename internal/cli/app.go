package cli

import (
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"sales_ledger/internal/config"
	"sales_ledger/internal/db"
	"sales_ledger/internal/notify"
	"sales_ledger/internal/sales"
)

// app is the wired object graph shared by every command.
type app struct {
	cfg     config.Config
	logger  *zap.Logger
	service *sales.Service
	syncer  *notify.Syncer
	closers []func() error
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	zc := zap.NewDevelopmentConfig()
	if cfg.IsProduction() {
		zc = zap.NewProductionConfig()
	}
	if cfg.LogLevel != "" {
		lvl, err := zap.ParseAtomicLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("LOG_LEVEL: %w", err)
		}
		zc.Level = lvl
	}
	return zc.Build()
}

func newApp(cfg config.Config) (*app, error) {
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logger: logger}

	var (
		storage sales.Storage
		state   notify.StateStore
	)
	if cfg.DatabaseDSN == "memory" {
		storage = sales.NewLocalStorage()
		if cfg.StateBackend == "db" {
			a.Close()
			return nil, errors.New("NOTIFY_STATE_BACKEND=db needs a DATABASE_DSN other than memory")
		}
	} else {
		conn, err := db.Open(cfg.DatabaseDSN, logger)
		if err != nil {
			a.Close()
			return nil, err
		}
		if sqlDB, err := conn.DB(); err == nil {
			a.closers = append(a.closers, sqlDB.Close)
		}
		storage = sales.NewDBStorage(conn)
		if cfg.StateBackend == "db" {
			state = notify.NewDBStateStore(conn)
		}
	}

	switch cfg.StateBackend {
	case "file":
		state = notify.NewFileStateStore(cfg.StateFile)
	case "redis":
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPass})
		a.closers = append(a.closers, rdb.Close)
		state = notify.NewRedisStateStore(rdb, notify.DefaultRedisKey)
	}

	webhook := notify.NewDiscordWebhook(cfg.WebhookURL, cfg.HTTPTimeout)
	a.closers = append(a.closers, webhook.Close)
	if !webhook.Configured() {
		logger.Warn("DISCORD_WEBHOOK_URL is not defined, summary publishing disabled")
	}

	publisher := notify.NewPublisher(webhook, logger.Named("notify"))
	a.syncer = notify.NewSyncer(storage, cfg.Catalog, state, publisher, logger.Named("sync"), cfg.Location)
	a.service = sales.NewService(storage, logger.Named("sales"), a.syncer)

	logger.Info("ledger configured",
		zap.String("env", cfg.Env),
		zap.String("state_backend", cfg.StateBackend),
		zap.Int("catalog_products", len(cfg.Catalog)))
	return a, nil
}

// Close releases connections in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("close failed", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}
