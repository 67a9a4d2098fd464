package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	cfg := Load()

	assert.NotNil(t, cfg)
	assert.NotEmpty(t, cfg.ListenAddr)
	assert.NotEmpty(t, cfg.DBPath)
	assert.NotEmpty(t, cfg.CaptionBackend)
	assert.Equal(t, 4*time.Second, cfg.DevelopDelay)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestLoadCustomValues(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9000")
	t.Setenv("DB_PATH", "/custom/db.sqlite")
	t.Setenv("CAPTION_BACKEND", "claude")
	t.Setenv("DEVELOP_DELAY", "250ms")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()

	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, "/custom/db.sqlite", cfg.DBPath)
	assert.Equal(t, "claude", cfg.CaptionBackend)
	assert.Equal(t, 250*time.Millisecond, cfg.DevelopDelay)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestLoadUnknownLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "loud")

	cfg := Load()

	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestLoadInvalidDuration(t *testing.T) {
	t.Setenv("DEVELOP_DELAY", "soon")

	cfg := Load()

	assert.Equal(t, 4*time.Second, cfg.DevelopDelay)
}
