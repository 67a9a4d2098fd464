package claude

import (
	"context"
	"errors"
	"fmt"

	"github.com/liushuangls/go-anthropic/v2"

	"github.com/vbonduro/retrocam/internal/caption"
	"github.com/vbonduro/retrocam/internal/domain"
)

// Generator captions photos through the Anthropic Messages API. The client
// is rebuilt per call from the settings snapshot so a key change applies to
// the next operation, never to one already in flight.
type Generator struct {
	opts []anthropic.ClientOption
}

func NewGenerator(opts ...anthropic.ClientOption) *Generator {
	return &Generator{opts: opts}
}

func (g *Generator) Generate(ctx context.Context, settings domain.AISettings, image []byte, mimeType string) (string, error) {
	client := anthropic.NewClient(settings.APIKey, g.opts...)

	resp, err := client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(settings.Model),
		MaxTokens: 60,
		Messages: []anthropic.Message{{
			Role: anthropic.RoleUser,
			Content: []anthropic.MessageContent{
				anthropic.NewImageMessageContent(anthropic.NewMessageContentSource(
					anthropic.MessagesContentSourceTypeBase64,
					normaliseMIME(mimeType),
					image,
				)),
				anthropic.NewTextMessageContent(caption.Prompt),
			},
		}},
	})
	if err != nil {
		var apiErr *anthropic.APIError
		if errors.As(err, &apiErr) {
			return "", &caption.APIError{Message: apiErr.Message}
		}
		return "", fmt.Errorf("failed to call anthropic: %w", err)
	}

	return resp.GetFirstContentText(), nil
}

// normaliseMIME maps browser MIME types to the values the Anthropic API
// accepts. Unknown types are coerced to jpeg as the most universally
// supported lossy fallback.
func normaliseMIME(mimeType string) string {
	switch mimeType {
	case "image/png", "image/gif", "image/webp":
		return mimeType
	default:
		return "image/jpeg"
	}
}
