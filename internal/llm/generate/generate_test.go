package generate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fashionpod/fashionpod/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnthropicGenerator(t *testing.T) {
	var got anthropicRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "sk-ant", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		_, _ = w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant",
			"content":[{"type":"text","text":"Effortless cotton comfort."}],
			"model":"claude-3-sonnet-20240229","stop_reason":"end_turn"}`))
	}))
	defer srv.Close()

	g, err := NewAnthropicGenerator(config.ProviderConfig{Model: "claude-3-sonnet-20240229", APIKey: "sk-ant", BaseURL: srv.URL + "/"})
	require.NoError(t, err)

	text, err := g.Complete(context.Background(), "Describe a tee", map[string]any{"max_tokens": 500})
	require.NoError(t, err)
	assert.Equal(t, "Effortless cotton comfort.", text)
	assert.Equal(t, 500, got.MaxTokens)
	assert.Equal(t, "claude-3-sonnet-20240229", got.Model)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, "Describe a tee", got.Messages[0].Content)
}

func TestAnthropicGeneratorErrors(t *testing.T) {
	status := http.StatusInternalServerError
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			http.Error(w, "overloaded", status)
			return
		}
		_, _ = w.Write([]byte(`{"content":[]}`))
	}))
	defer srv.Close()

	g, err := NewAnthropicGenerator(config.ProviderConfig{Model: "m", APIKey: "k", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = g.Complete(context.Background(), "p", nil)
	assert.ErrorContains(t, err, "overloaded")

	status = http.StatusOK
	_, err = g.Complete(context.Background(), "p", nil)
	assert.ErrorContains(t, err, "no text content")
}

func TestOpenAIGenerator(t *testing.T) {
	var got openAIRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"index":0,"message":{"role":"assistant","content":"Denim done right."}}]}`))
	}))
	defer srv.Close()

	g, err := NewOpenAIGenerator(config.ProviderConfig{Model: "gpt-4o-mini", APIKey: "k", BaseURL: srv.URL})
	require.NoError(t, err)

	text, err := g.Complete(context.Background(), "Describe jeans", map[string]any{"max_tokens": 500, "system": "copywriter"})
	require.NoError(t, err)
	assert.Equal(t, "Denim done right.", text)
	assert.Equal(t, 500, got.MaxTokens)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
}

func TestMockGeneratorUsesPromptFields(t *testing.T) {
	g := NewMockGenerator("claude-3-sonnet-20240229")
	prompt := "Generate an engaging product description for a fashion item with these details:\n" +
		"Name: Slim Fit Jeans\nCategory: bottoms, denim\nPrice: $89.99\nTags: denim, slim-fit\n"

	text, err := g.Complete(context.Background(), prompt, nil)
	require.NoError(t, err)
	assert.Contains(t, text, "Slim Fit Jeans")
	assert.Contains(t, text, "$89.99")
	assert.Contains(t, text, "denim, slim-fit")

	text, err = g.Complete(context.Background(), "hello", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, text)
}
