package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"voice-warden/internal/bot"
	"voice-warden/internal/config"
	"voice-warden/internal/logbook"
	"voice-warden/internal/storage"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := config.BuildLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	settings, err := storage.OpenSettings(cfg.SettingsPath)
	if err != nil {
		logger.Fatal("settings store init failed", zap.Error(err))
	}

	retention := storage.Retention{
		MaxEntries: cfg.Retention.MaxEntries,
		MaxAge:     time.Duration(cfg.Retention.MaxAgeHours) * time.Hour,
	}
	logs, err := storage.OpenLogs(cfg.LogsPath, retention)
	if err != nil {
		logger.Fatal("log store init failed", zap.Error(err))
	}

	recorder := logbook.NewRecorder(logs, logger)

	botSvc, err := bot.New(cfg, logger, settings, recorder)
	if err != nil {
		logger.Fatal("bot init failed", zap.Error(err))
	}

	if err := botSvc.Start(); err != nil {
		logger.Fatal("bot start failed", zap.Error(err))
	}
	logger.Info("bot started")

	var server *http.Server
	if cfg.Health.Enabled {
		server = &http.Server{Addr: cfg.Health.Addr}
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		})
		go func() {
			logger.Info("health endpoint enabled", zap.String("addr", cfg.Health.Addr))
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("health server error", zap.Error(err))
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	logger.Info("shutdown requested")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if server != nil {
		_ = server.Shutdown(ctx)
	}
	botSvc.Close(ctx)
}
