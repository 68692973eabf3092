package llm

import (
	"fmt"

	"github.com/fashionpod/fashionpod/internal/config"
	"github.com/fashionpod/fashionpod/internal/llm/embed"
	"github.com/fashionpod/fashionpod/internal/llm/generate"
	"github.com/fashionpod/fashionpod/internal/types"
)

const mockDim = 1536

// NewEmbedder creates an embedder based on configuration
func NewEmbedder(cfg *config.LLMConfig) (types.Embedder, error) {
	switch cfg.Embedder.Provider {
	case "openai":
		return embed.NewOpenAIEmbedder(cfg.Embedder)
	case "mock":
		return embed.NewMockEmbedder(cfg.Embedder.Model, mockDim), nil
	default:
		return nil, fmt.Errorf("unsupported embedder provider: %s", cfg.Embedder.Provider)
	}
}

// NewGenerator creates a generator based on configuration
func NewGenerator(cfg *config.LLMConfig) (types.Generator, error) {
	switch cfg.Generator.Provider {
	case "openai":
		return generate.NewOpenAIGenerator(cfg.Generator)
	case "anthropic":
		return generate.NewAnthropicGenerator(cfg.Generator)
	case "mock":
		return generate.NewMockGenerator(cfg.Generator.Model), nil
	default:
		return nil, fmt.Errorf("unsupported generator provider: %s", cfg.Generator.Provider)
	}
}
