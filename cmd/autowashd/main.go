package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Anand1513/wash-while-you-shop/internal/loyalty/app"
	loyaltykv "github.com/Anand1513/wash-while-you-shop/internal/loyalty/repository/kv"
	"github.com/Anand1513/wash-while-you-shop/internal/platform/config"
	"github.com/Anand1513/wash-while-you-shop/internal/platform/logger"
	"github.com/Anand1513/wash-while-you-shop/internal/platform/notifier"
	"github.com/Anand1513/wash-while-you-shop/internal/platform/storage"
	sessionapp "github.com/Anand1513/wash-while-you-shop/internal/session/app"
	sessionkv "github.com/Anand1513/wash-while-you-shop/internal/session/repository/kv"
	httptransport "github.com/Anand1513/wash-while-you-shop/internal/transport/http"
	walletapp "github.com/Anand1513/wash-while-you-shop/internal/wallet/app"
)

const serviceName = "autowashd"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "service", serviceName, "error", err)
		os.Exit(1)
	}

	appLogger := logger.New(cfg.LogLevel, cfg.LogFormat)
	appLogger.Info("Autowash state service starting...", "port", cfg.ServerPort, "data_path", cfg.DataPath)

	store, err := storage.OpenBolt(cfg.DataPath)
	if err != nil {
		appLogger.Error("Failed to open state store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	notify := notifier.NewSlogNotifier(appLogger)

	userRepo := sessionkv.NewUserRepositoryKV(store, appLogger)
	session := sessionapp.NewService(userRepo, notify, sessionapp.Config{
		Latency: time.Duration(cfg.LoginLatencyMs) * time.Millisecond,
	}, appLogger)
	if err := session.Restore(context.Background()); err != nil {
		appLogger.Error("Failed to restore persisted session", "error", err)
		os.Exit(1)
	}

	ledgerRepo := loyaltykv.NewLedgerRepositoryKV(store, appLogger)
	ledger := app.NewService(session, ledgerRepo, notify, appLogger)
	wallet := walletapp.NewService(session, notify, appLogger)

	jwtCfg := httptransport.JWTConfig{Secret: cfg.JWTSecret, ExpiryHours: cfg.JWTExpiryHours}
	router := httptransport.NewRouter(session, ledger, wallet, jwtCfg, appLogger)

	httpServer := &http.Server{Addr: fmt.Sprintf(":%d", cfg.ServerPort), Handler: router}
	go func() {
		appLogger.Info(fmt.Sprintf("HTTP server listening on port %d", cfg.ServerPort))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("HTTP server failed to serve", "error", err)
		}
	}()

	quitChan := make(chan os.Signal, 1)
	signal.Notify(quitChan, syscall.SIGINT, syscall.SIGTERM)
	<-quitChan

	appLogger.Info("Shutdown signal received, shutting down HTTP server...")
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()
	if err := httpServer.Shutdown(ctxShutdown); err != nil {
		appLogger.Error("HTTP server shutdown failed", "error", err)
	} else {
		appLogger.Info("HTTP server shut down gracefully.")
	}
	appLogger.Info("Autowash state service shut down.")
}
