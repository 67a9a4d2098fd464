package caption

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/vbonduro/retrocam/internal/domain"
)

// Prompt is the shared instruction sent by every caption backend.
const Prompt = `Look at this photo and write a short warm blessing for it, in the language of the viewer. Keep it under 15 words. Reply with only the blessing text.`

// Caption texts the lifecycle writes directly, without calling a backend.
const (
	PlaceholderDeveloping   = "Developing..."
	PlaceholderNoKey        = "Captured! (Configure AI in Settings)"
	PlaceholderRegenerating = "Regenerating..."
)

// Fallback captions produced when a backend attempt does not yield text.
const (
	FallbackEmpty   = "A beautiful moment."
	FallbackFailure = "A beautiful moment frozen in time."
)

// fallbackErrorMessage stands in when an endpoint error has no message.
const fallbackErrorMessage = "Check Settings"

// APIError is a structured error payload returned by a caption endpoint,
// as opposed to a transport or decoding failure.
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	return "caption endpoint error: " + e.Message
}

// Generator performs one attempt against a caption backend. Structured
// endpoint errors are returned as *APIError; anything else is a hard
// failure. An empty text with a nil error means the response was
// well-formed but carried no caption.
type Generator interface {
	Generate(ctx context.Context, settings domain.AISettings, image []byte, mimeType string) (string, error)
}

// Service normalizes every Generator outcome into caption text. It never
// returns an error: one attempt, one caption-shaped result.
type Service struct {
	backend Generator
	logger  *slog.Logger
}

func NewService(backend Generator, logger *slog.Logger) *Service {
	return &Service{backend: backend, logger: logger}
}

// Generate maps the backend outcome through the three fallback tiers:
// structured endpoint error, well-formed response without text, and hard
// transport/decoding failure.
func (s *Service) Generate(ctx context.Context, settings domain.AISettings, image []byte, mimeType string) string {
	text, err := s.backend.Generate(ctx, settings, image, mimeType)

	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		msg := apiErr.Message
		if msg == "" {
			msg = fallbackErrorMessage
		}
		s.logger.Warn("caption endpoint returned an error", "message", msg)
		return "Error: " + msg
	case err != nil:
		s.logger.Error("caption attempt failed", "error", err)
		return FallbackFailure
	}

	text = strings.TrimSpace(text)
	if text == "" {
		s.logger.Warn("caption response carried no text")
		return FallbackEmpty
	}
	return text
}
