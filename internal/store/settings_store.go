package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/vbonduro/retrocam/internal/domain"
)

// settingsKey is the key/value row the UI settings live under.
const settingsKey = "retro-camera-settings"

// Defaults substituted field-by-field when persisted settings are absent or
// incomplete. An empty APIKey is meaningful (AI disabled) and is never
// defaulted.
const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4o-mini"
)

// SettingsStore persists the caption endpoint configuration and holds the
// current value. Caption operations snapshot the current value when they
// start; a later Save never affects an in-flight request.
type SettingsStore struct {
	db     *sql.DB
	logger *slog.Logger

	mu          sync.Mutex
	current     domain.AISettings
	subscribers []func(domain.AISettings)
}

func NewSettingsStore(db *sql.DB, logger *slog.Logger) *SettingsStore {
	return &SettingsStore{db: db, logger: logger, current: defaults()}
}

func defaults() domain.AISettings {
	return domain.AISettings{BaseURL: DefaultBaseURL, Model: DefaultModel}
}

// Load reads the persisted settings and makes them current. It fails soft:
// a missing row or malformed value yields the defaults, logged not returned.
func (s *SettingsStore) Load(ctx context.Context) domain.AISettings {
	var raw string
	err := s.db.QueryRowContext(ctx, `
		SELECT value FROM settings WHERE key = ?
	`, settingsKey).Scan(&raw)

	if err == sql.ErrNoRows {
		return s.setCurrent(defaults())
	}
	if err != nil {
		s.logger.Error("failed to load settings, using defaults", "error", err)
		return s.setCurrent(defaults())
	}

	var loaded domain.AISettings
	if err := json.Unmarshal([]byte(raw), &loaded); err != nil {
		s.logger.Error("malformed persisted settings, using defaults", "error", err)
		return s.setCurrent(defaults())
	}

	return s.setCurrent(fillDefaults(loaded))
}

// Save persists settings, replaces the current value, and notifies
// subscribers. The value is stored wholesale; default-fill happens only at
// load time.
func (s *SettingsStore) Save(ctx context.Context, settings domain.AISettings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = datetime('now')
	`, settingsKey, string(raw))
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	s.mu.Lock()
	s.current = settings
	subs := append(([]func(domain.AISettings))(nil), s.subscribers...)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(settings)
	}
	return nil
}

// Current returns the settings snapshot caption operations read at dispatch.
func (s *SettingsStore) Current() domain.AISettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Subscribe registers fn to run after every successful Save.
func (s *SettingsStore) Subscribe(fn func(domain.AISettings)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *SettingsStore) setCurrent(v domain.AISettings) domain.AISettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = v
	return v
}

// fillDefaults substitutes the documented default for each absent field.
func fillDefaults(in domain.AISettings) domain.AISettings {
	if in.BaseURL == "" {
		in.BaseURL = DefaultBaseURL
	}
	if in.Model == "" {
		in.Model = DefaultModel
	}
	return in
}
