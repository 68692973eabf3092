package types

import "context"

// Embedder generates vector embeddings from text
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Dim() int
	Model() string
}

// Generator produces text completions from prompts
type Generator interface {
	Complete(ctx context.Context, prompt string, opts map[string]any) (string, error)
	Model() string
}

// GenerationOptions contains options for text generation
type GenerationOptions struct {
	MaxTokens   int      `json:"max_tokens,omitempty"`
	Temperature float64  `json:"temperature,omitempty"`
	System      string   `json:"system,omitempty"`
	Stop        []string `json:"stop,omitempty"`
}

// Map converts the options into the loosely typed form accepted by Generator.Complete.
func (o GenerationOptions) Map() map[string]any {
	opts := map[string]any{}
	if o.MaxTokens > 0 {
		opts["max_tokens"] = o.MaxTokens
	}
	if o.Temperature > 0 {
		opts["temperature"] = o.Temperature
	}
	if o.System != "" {
		opts["system"] = o.System
	}
	if len(o.Stop) > 0 {
		opts["stop"] = o.Stop
	}
	return opts
}
