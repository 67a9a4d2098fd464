package claude

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/liushuangls/go-anthropic/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/retrocam/internal/caption"
	"github.com/vbonduro/retrocam/internal/domain"
)

func testSettings() domain.AISettings {
	return domain.AISettings{APIKey: "sk-test", Model: "claude-3-haiku-20240307"}
}

func TestGenerateSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_01",
			"type": "message",
			"role": "assistant",
			"model": "claude-3-haiku-20240307",
			"content": [{"type": "text", "text": "May warmth follow you always."}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 10, "output_tokens": 8}
		}`))
	}))
	defer server.Close()

	g := NewGenerator(anthropic.WithBaseURL(server.URL))

	text, err := g.Generate(context.Background(), testSettings(), []byte{0xFF, 0xD8}, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "May warmth follow you always.", text)
}

func TestGenerateAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`))
	}))
	defer server.Close()

	g := NewGenerator(anthropic.WithBaseURL(server.URL))

	_, err := g.Generate(context.Background(), testSettings(), []byte{0xFF, 0xD8}, "image/jpeg")

	var apiErr *caption.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "invalid x-api-key", apiErr.Message)
}

func TestGenerateTransportFailure(t *testing.T) {
	// A closed server makes the call fail before any API response.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	g := NewGenerator(anthropic.WithBaseURL(server.URL))

	_, err := g.Generate(context.Background(), testSettings(), []byte{0xFF, 0xD8}, "image/jpeg")

	require.Error(t, err)
	var apiErr *caption.APIError
	assert.False(t, errors.As(err, &apiErr), "transport failures must not map to APIError")
}
