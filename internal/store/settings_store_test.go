package store

import (
	"context"
	"database/sql"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/vbonduro/retrocam/internal/domain"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	d, err := sql.Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	// Create the settings table manually for test
	_, err = d.Exec(`
		CREATE TABLE settings (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
		);
	`)
	require.NoError(t, err)

	return d
}

func TestSettingsStoreLoadDefaults(t *testing.T) {
	d := openTestDB(t)
	s := NewSettingsStore(d, slog.Default())

	loaded := s.Load(context.Background())

	assert.Equal(t, DefaultBaseURL, loaded.BaseURL)
	assert.Equal(t, DefaultModel, loaded.Model)
	assert.Empty(t, loaded.APIKey)
	assert.Equal(t, loaded, s.Current())
}

func TestSettingsStoreSaveAndLoad(t *testing.T) {
	d := openTestDB(t)
	s := NewSettingsStore(d, slog.Default())
	ctx := context.Background()

	saved := domain.AISettings{BaseURL: "http://localhost:1234/v1", APIKey: "sk-test", Model: "llava"}
	require.NoError(t, s.Save(ctx, saved))
	assert.Equal(t, saved, s.Current())

	// A fresh store over the same database sees the persisted value.
	fresh := NewSettingsStore(d, slog.Default())
	assert.Equal(t, saved, fresh.Load(ctx))
}

func TestSettingsStoreSaveReplacesWholesale(t *testing.T) {
	d := openTestDB(t)
	s := NewSettingsStore(d, slog.Default())
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, domain.AISettings{BaseURL: "http://a/v1", APIKey: "k1", Model: "m1"}))
	require.NoError(t, s.Save(ctx, domain.AISettings{BaseURL: "http://b/v1", APIKey: "k2", Model: "m2"}))

	fresh := NewSettingsStore(d, slog.Default())
	loaded := fresh.Load(ctx)
	assert.Equal(t, "http://b/v1", loaded.BaseURL)
	assert.Equal(t, "k2", loaded.APIKey)
	assert.Equal(t, "m2", loaded.Model)
}

func TestSettingsStoreLoadMalformed(t *testing.T) {
	d := openTestDB(t)
	_, err := d.Exec(`INSERT INTO settings (key, value) VALUES (?, ?)`, settingsKey, `{not json`)
	require.NoError(t, err)

	s := NewSettingsStore(d, slog.Default())
	loaded := s.Load(context.Background())

	assert.Equal(t, DefaultBaseURL, loaded.BaseURL)
	assert.Equal(t, DefaultModel, loaded.Model)
}

func TestSettingsStoreLoadFillsMissingFields(t *testing.T) {
	d := openTestDB(t)
	_, err := d.Exec(`INSERT INTO settings (key, value) VALUES (?, ?)`, settingsKey, `{"apiKey":"sk-only"}`)
	require.NoError(t, err)

	s := NewSettingsStore(d, slog.Default())
	loaded := s.Load(context.Background())

	assert.Equal(t, "sk-only", loaded.APIKey)
	assert.Equal(t, DefaultBaseURL, loaded.BaseURL)
	assert.Equal(t, DefaultModel, loaded.Model)
}

func TestSettingsStoreSubscribe(t *testing.T) {
	d := openTestDB(t)
	s := NewSettingsStore(d, slog.Default())

	var notified []domain.AISettings
	s.Subscribe(func(v domain.AISettings) { notified = append(notified, v) })

	saved := domain.AISettings{BaseURL: "http://a/v1", APIKey: "k", Model: "m"}
	require.NoError(t, s.Save(context.Background(), saved))

	require.Len(t, notified, 1)
	assert.Equal(t, saved, notified[0])
}
