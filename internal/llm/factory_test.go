package llm

import (
	"testing"

	"github.com/fashionpod/fashionpod/internal/config"
	"github.com/fashionpod/fashionpod/internal/llm/embed"
	"github.com/fashionpod/fashionpod/internal/llm/generate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactories(t *testing.T) {
	cfg := &config.LLMConfig{
		Embedder:  config.ProviderConfig{Provider: "mock", Model: "text-embedding-3-small"},
		Generator: config.ProviderConfig{Provider: "anthropic", Model: "claude-3-sonnet-20240229", APIKey: "k"},
	}

	e, err := NewEmbedder(cfg)
	require.NoError(t, err)
	assert.IsType(t, &embed.MockEmbedder{}, e)
	assert.Equal(t, 1536, e.Dim())

	g, err := NewGenerator(cfg)
	require.NoError(t, err)
	assert.IsType(t, &generate.AnthropicGenerator{}, g)

	cfg.Embedder.Provider = "cohere"
	_, err = NewEmbedder(cfg)
	assert.ErrorContains(t, err, "unsupported embedder provider")

	cfg.Generator = config.ProviderConfig{Provider: "openai", Model: "gpt-4o-mini", APIKeyEnv: "FASHIONPOD_TEST_NO_SUCH_KEY"}
	t.Setenv("FASHIONPOD_TEST_NO_SUCH_KEY", "")
	_, err = NewGenerator(cfg)
	assert.Error(t, err)
}
