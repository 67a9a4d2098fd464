package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/vbonduro/retrocam/internal/caption"
	"github.com/vbonduro/retrocam/internal/domain"
)

// request types mirror the OpenAI chat completions structure.
type request struct {
	Model     string    `json:"model"`
	Messages  []message `json:"messages"`
	MaxTokens int       `json:"max_tokens"`
}

type message struct {
	Role    string `json:"role"`
	Content []part `json:"content"`
}

type part struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type response struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Generator captions photos through any OpenAI-compatible chat completions
// endpoint. The endpoint, key, and model come from the settings snapshot
// passed to each call, so a settings save applies to the next operation,
// never to one already in flight.
type Generator struct {
	client *http.Client
}

func NewGenerator() *Generator {
	return &Generator{client: &http.Client{}}
}

// Generate performs one attempt, no retry, transport-default timeouts.
// A body carrying an error payload is reported as *caption.APIError
// regardless of HTTP status; the body shape decides, not the status code.
func (g *Generator) Generate(ctx context.Context, settings domain.AISettings, image []byte, mimeType string) (string, error) {
	body := request{
		Model: settings.Model,
		Messages: []message{{
			Role: "user",
			Content: []part{
				{Type: "text", Text: caption.Prompt},
				{Type: "image_url", ImageURL: &imageURL{URL: dataURL(image, mimeType)}},
			},
		}},
		// A blessing is one short sentence; 60 tokens is generous headroom.
		MaxTokens: 60,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := strings.TrimRight(settings.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+settings.APIKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call caption endpoint: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Error("failed to close caption response body", "error", err)
		}
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var respBody response
	if err := json.Unmarshal(raw, &respBody); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if respBody.Error != nil {
		return "", &caption.APIError{Message: respBody.Error.Message}
	}
	if len(respBody.Choices) == 0 {
		return "", nil
	}
	return respBody.Choices[0].Message.Content, nil
}

// dataURL inlines the frame as a data URL image reference.
func dataURL(image []byte, mimeType string) string {
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(image)
}
