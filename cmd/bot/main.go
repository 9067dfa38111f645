package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/freshmart/gateway"
	"github.com/example/freshmart/pkg/bot"
	"github.com/example/freshmart/pkg/catalog"
	"github.com/example/freshmart/pkg/config"
	"github.com/example/freshmart/pkg/discovery"
	"github.com/example/freshmart/pkg/ledger"
	"github.com/example/freshmart/pkg/order"
	"github.com/example/freshmart/pkg/repository"
	"github.com/example/freshmart/pkg/store"
	"github.com/example/freshmart/pkg/telegram"
	"go.uber.org/zap"
)

func main() {
	configPath := os.Getenv("BOT_CONFIG")
	if configPath == "" {
		configPath = "config/bot-config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Setup logger
	logger, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Sprintf("Failed to create logger: %v", err))
	}
	defer logger.Sync()

	logger.Info("Starting FreshMart grocery bot")
	if cfg.Telegram.AdminChatID == 0 {
		logger.Warn("ADMIN_CHAT_ID not set, admin features disabled")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Order ledger (Google Sheets), best-effort collaborator
	var sink ledger.Sink = ledger.Disabled{}
	ledgerEnabled := false
	if cfg.Sheets.URL != "" && cfg.Sheets.ServiceAccountJSON != "" {
		s, err := ledger.NewSheetsSink(ctx, cfg.Sheets.URL, cfg.Sheets.ServiceAccountJSON, logger.Named("ledger"))
		if err != nil {
			logger.Warn("Google Sheets unavailable, order ledger disabled", zap.Error(err))
		} else {
			sink = s
			ledgerEnabled = true
			logger.Info("Google Sheets connected")
		}
	} else {
		logger.Warn("SHEET_URL not set, order ledger disabled")
	}

	cat := catalog.Default()

	// Cart/session store: Redis when configured and reachable, in-memory
	// otherwise
	var carts store.CartStore
	var sessions store.SessionStore
	mem := store.NewMemoryStore(cat)
	carts, sessions = mem, mem
	if cfg.Redis.Addr != "" {
		r := repository.NewRedis(&cfg.Redis)
		if err := r.Ping(ctx); err != nil {
			logger.Warn("Redis unavailable, using in-memory cart/session store", zap.Error(err))
		} else {
			rs := store.NewRedisStore(r, cat)
			carts, sessions = rs, rs
			logger.Info("Redis connected")
			defer r.Close()
		}
	}

	// Telegram transport; without it there is nothing to run
	tg, err := telegram.NewClient(cfg.Telegram.Token, logger.Named("telegram"))
	if err != nil {
		logger.Fatal("Failed to connect to Telegram", zap.Error(err))
	}

	tracker := order.NewTracker(tg, sink, logger.Named("tracker"))

	if cfg.MySQL.Host != "" {
		archive, err := repository.NewMySQL(&cfg.MySQL)
		if err != nil {
			logger.Warn("MySQL unavailable, order archive disabled", zap.Error(err))
		} else {
			tracker.SetArchive(archive)
			logger.Info("MySQL order archive connected")
		}
	}

	if cfg.MongoDB.URI != "" {
		audit, err := repository.NewMongo(&cfg.MongoDB)
		if err != nil {
			logger.Warn("MongoDB unavailable, order audit log disabled", zap.Error(err))
		} else {
			tracker.SetAudit(audit)
			logger.Info("MongoDB order audit log connected")
			defer audit.Close(context.Background())
		}
	}

	// Single-instance guard: two pollers on one bot token consume each
	// other's updates
	if len(cfg.Etcd.Endpoints) > 0 {
		guard, err := discovery.NewInstanceGuard(&cfg.Etcd)
		if err != nil {
			logger.Warn("etcd unavailable, running without instance guard", zap.Error(err))
		} else {
			hostname, _ := os.Hostname()
			if err := guard.Acquire(ctx, hostname); err != nil {
				logger.Fatal("Another bot instance is already running", zap.Error(err))
			}
			logger.Info("Instance guard acquired")
			defer guard.Close()
			defer guard.Release(context.Background())
		}
	}

	engine := bot.NewEngine(bot.Deps{
		Catalog:       cat,
		Carts:         carts,
		Sessions:      sessions,
		Tracker:       tracker,
		Notifier:      tg,
		Ledger:        sink,
		LedgerEnabled: ledgerEnabled,
		AdminChatID:   cfg.Telegram.AdminChatID,
		Logger:        logger.Named("engine"),
	})

	if cfg.Gateway.Port > 0 {
		gw := gateway.New(&cfg.Gateway, tracker, logger.Named("gateway"))
		go func() {
			if err := gw.Start(); err != nil {
				logger.Error("Ops server stopped", zap.Error(err))
			}
		}()
	}

	pollDone := make(chan struct{})
	go func() {
		tg.Poll(ctx, engine.Handle)
		close(pollDone)
	}()

	logger.Info("FreshMart bot started",
		zap.Bool("ledger", ledgerEnabled),
		zap.Bool("admin", cfg.Telegram.AdminChatID != 0))

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	logger.Info("Received shutdown signal")

	cancel()
	<-pollDone

	logger.Info("Bot stopped")
}
