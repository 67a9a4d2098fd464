package logging

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMirrorsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "retrocam.log")

	logger, cleanup, err := New(slog.LevelInfo, path)
	require.NoError(t, err)

	logger.Info("frame developed", "photo_id", "p1")
	logger.Debug("below the configured level")
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var record map[string]any
	require.NoError(t, json.Unmarshal(data, &record))
	assert.Equal(t, "frame developed", record["msg"])
	assert.Equal(t, "p1", record["photo_id"])
}

func TestNewUnwritableLogFile(t *testing.T) {
	_, _, err := New(slog.LevelInfo, filepath.Join(t.TempDir(), "missing", "out.log"))
	assert.Error(t, err)
}
