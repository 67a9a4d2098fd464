package main

import (
	"context"
	"log"
	"log/slog"

	"github.com/vbonduro/retrocam/internal/caption"
	claudecaption "github.com/vbonduro/retrocam/internal/caption/claude"
	openaicaption "github.com/vbonduro/retrocam/internal/caption/openai"
	"github.com/vbonduro/retrocam/internal/config"
	"github.com/vbonduro/retrocam/internal/db"
	"github.com/vbonduro/retrocam/internal/domain"
	"github.com/vbonduro/retrocam/internal/framestore/local"
	"github.com/vbonduro/retrocam/internal/logging"
	"github.com/vbonduro/retrocam/internal/registry"
	"github.com/vbonduro/retrocam/internal/service"
	"github.com/vbonduro/retrocam/internal/store"
	"github.com/vbonduro/retrocam/internal/web"
)

func main() {
	cfg := config.Load()

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	settingsStore := store.NewSettingsStore(database, logger)
	settings := settingsStore.Load(context.Background())
	logger.Info("settings loaded", "base_url", settings.BaseURL, "model", settings.Model, "ai_enabled", settings.APIKey != "")
	settingsStore.Subscribe(func(s domain.AISettings) {
		logger.Info("settings updated", "base_url", s.BaseURL, "model", s.Model, "ai_enabled", s.APIKey != "")
	})

	frames, err := local.NewLocalFrameStore(cfg.FramePath)
	if err != nil {
		logger.Error("failed to initialize frame store", "error", err)
		return
	}

	captions := caption.NewService(newCaptionBackend(cfg, logger), logger)
	booth := service.NewBoothService(registry.New(), settingsStore, captions, frames, cfg.DevelopDelay, logger)
	server := web.NewServer(booth, settingsStore, logger)

	if err := server.ListenAndServe(cfg.ListenAddr); err != nil {
		logger.Error("server error", "error", err)
	}
}

func newCaptionBackend(cfg *config.Config, logger *slog.Logger) caption.Generator {
	switch cfg.CaptionBackend {
	case "claude":
		logger.Info("using Claude caption backend")
		return claudecaption.NewGenerator()
	default:
		logger.Info("using OpenAI-compatible caption backend")
		return openaicaption.NewGenerator()
	}
}
