package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"time"

	"github.com/vbonduro/retrocam/internal/caption"
	"github.com/vbonduro/retrocam/internal/domain"
	"github.com/vbonduro/retrocam/internal/framestore"
	"github.com/vbonduro/retrocam/internal/registry"
)

// ErrAIDisabled is returned by Regenerate when no API key is configured.
// The web layer surfaces it as a blocking notice; no state changes.
var ErrAIDisabled = errors.New("no API key configured")

// ErrNotFound is returned by OpenFrame when the photo does not exist.
var ErrNotFound = errors.New("photo not found")

// maxRotationDeg bounds the random tilt assigned to a new card.
const maxRotationDeg = 8.0

// capturedAtFormat is the display timestamp stamped on each card.
const capturedAtFormat = "Jan 2, 2006 3:04 PM"

// settingsSource is the subset of store.SettingsStore that BoothService requires.
type settingsSource interface {
	Current() domain.AISettings
}

// captioner is the subset of caption.Service that BoothService requires.
type captioner interface {
	Generate(ctx context.Context, settings domain.AISettings, image []byte, mimeType string) string
}

// BoothService drives the photo lifecycle: the timed developing-to-developed
// flip, caption dispatch on capture and regeneration, and reconciliation of
// async caption results against edits and deletions. All caption writes go
// through registry.Update, whose existence check drops results for deleted
// photos.
type BoothService struct {
	registry     *registry.Registry
	settings     settingsSource
	captions     captioner
	frames       framestore.FrameStore
	developDelay time.Duration
	logger       *slog.Logger
}

func NewBoothService(
	reg *registry.Registry,
	settings settingsSource,
	captions captioner,
	frames framestore.FrameStore,
	developDelay time.Duration,
	logger *slog.Logger,
) *BoothService {
	return &BoothService{
		registry:     reg,
		settings:     settings,
		captions:     captions,
		frames:       frames,
		developDelay: developDelay,
		logger:       logger,
	}
}

// Capture stores the frame, creates the developing record, schedules the
// develop flip, and dispatches the caption fetch when a key is configured.
// Without a key the no-key placeholder is set synchronously and no network
// call is made.
func (s *BoothService) Capture(ctx context.Context, image []byte, mimeType string) (domain.Photo, error) {
	settings := s.settings.Current()

	storageKey, err := s.frames.Save(ctx, mimeType, bytes.NewReader(image))
	if err != nil {
		return domain.Photo{}, fmt.Errorf("failed to save frame: %w", err)
	}

	placeholder := caption.PlaceholderDeveloping
	if settings.APIKey == "" {
		placeholder = caption.PlaceholderNoKey
	}

	rotation := (rand.Float64()*2 - 1) * maxRotationDeg
	photo := s.registry.Create(storageKey, mimeType, placeholder, time.Now().Format(capturedAtFormat), rotation)
	s.logger.Info("photo captured", "id", photo.ID, "mime_type", mimeType, "bytes", len(image))

	s.scheduleDevelop(photo.ID)
	if settings.APIKey != "" {
		go s.fetchCaption(photo.ID, settings, image, mimeType)
	}

	return photo, nil
}

// scheduleDevelop flips Developing off exactly once, after the fixed delay,
// independent of caption outcome. A deleted photo's timer fires harmlessly.
func (s *BoothService) scheduleDevelop(id string) {
	time.AfterFunc(s.developDelay, func() {
		if s.registry.Update(id, func(p *domain.Photo) { p.Developing = false }) {
			s.logger.Debug("photo developed", "id", id)
		}
	})
}

// fetchCaption runs one caption attempt and writes the result back only if
// the photo still exists. It runs detached from the request context: the
// card outlives the HTTP call that created it.
func (s *BoothService) fetchCaption(id string, settings domain.AISettings, image []byte, mimeType string) {
	text := s.captions.Generate(context.Background(), settings, image, mimeType)
	if !s.registry.Update(id, func(p *domain.Photo) { p.Caption = text }) {
		s.logger.Debug("caption result for deleted photo dropped", "id", id)
		return
	}
	s.logger.Info("caption written", "id", id)
}

// EditCaption replaces the caption synchronously; when it returns the edit
// is visible. A fetch still in flight may overwrite it later — last write
// observed wins.
func (s *BoothService) EditCaption(id, text string) {
	s.registry.Update(id, func(p *domain.Photo) { p.Caption = text })
}

// Regenerate re-runs caption generation for an existing photo. Without a
// configured key it returns ErrAIDisabled and changes nothing. An absent id
// is a no-op. A regenerate may race a still-pending fetch for the same
// photo; whichever resolves last determines the final caption.
func (s *BoothService) Regenerate(ctx context.Context, id string) error {
	settings := s.settings.Current()
	if settings.APIKey == "" {
		return ErrAIDisabled
	}

	photo, ok := s.registry.Get(id)
	if !ok {
		return nil
	}

	rc, mimeType, err := s.frames.Open(ctx, photo.StorageKey)
	if err != nil {
		return fmt.Errorf("failed to open frame: %w", err)
	}
	image, err := io.ReadAll(rc)
	if cerr := rc.Close(); cerr != nil {
		s.logger.Error("failed to close frame", "id", id, "error", cerr)
	}
	if err != nil {
		return fmt.Errorf("failed to read frame: %w", err)
	}

	s.registry.Update(id, func(p *domain.Photo) { p.Caption = caption.PlaceholderRegenerating })
	s.logger.Info("caption regeneration started", "id", id)
	go s.fetchCaption(id, settings, image, mimeType)
	return nil
}

// MoveTo records the drag layer's position write.
func (s *BoothService) MoveTo(id string, pos domain.Position) {
	s.registry.Update(id, func(p *domain.Photo) { p.Position = pos })
}

// BringToFront bumps the photo to the top of the stack and returns the new
// stack order.
func (s *BoothService) BringToFront(id string) (int64, bool) {
	return s.registry.BringToFront(id)
}

// Delete removes the record and its stored frame. Any in-flight caption
// result for the id is dropped by the registry's update-if-exists rule.
func (s *BoothService) Delete(ctx context.Context, id string) {
	photo, ok := s.registry.Delete(id)
	if !ok {
		return
	}
	if err := s.frames.Delete(ctx, photo.StorageKey); err != nil {
		s.logger.Error("failed to delete frame", "id", id, "error", err)
	}
	s.logger.Info("photo deleted", "id", id)
}

func (s *BoothService) List() []domain.Photo {
	return s.registry.List()
}

func (s *BoothService) Get(id string) (domain.Photo, bool) {
	return s.registry.Get(id)
}

// OpenFrame streams the stored frame for download.
func (s *BoothService) OpenFrame(ctx context.Context, id string) (io.ReadCloser, string, error) {
	photo, ok := s.registry.Get(id)
	if !ok {
		return nil, "", ErrNotFound
	}
	return s.frames.Open(ctx, photo.StorageKey)
}
