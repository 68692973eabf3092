package embed

import (
	"context"
	"crypto/md5"
	"math"
	"math/rand"
	"strings"

	"github.com/fashionpod/fashionpod/internal/types"
)

// MockEmbedder produces deterministic unit vectors offline. Texts sharing
// fashion vocabulary land closer together.
type MockEmbedder struct {
	model string
	dim   int
}

func NewMockEmbedder(model string, dim int) *MockEmbedder {
	return &MockEmbedder{
		model: model,
		dim:   dim,
	}
}

func (e *MockEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		embeddings[i] = e.generateDeterministicEmbedding(text)
	}
	return embeddings, nil
}

func (e *MockEmbedder) Dim() int {
	return e.dim
}

func (e *MockEmbedder) Model() string {
	return e.model + "-mock"
}

var fashionTerms = []string{
	"shirt", "t-shirt", "tee", "top", "jeans", "denim", "pants", "dress",
	"skirt", "jacket", "coat", "leather", "cotton", "wool", "silk", "linen",
	"casual", "formal", "slim", "oversized", "vintage", "premium", "basic", "essential",
	"red", "black", "white", "blue", "summer", "winter", "party", "office",
}

func (e *MockEmbedder) generateDeterministicEmbedding(text string) []float32 {
	hash := md5.Sum([]byte(text))
	seed := int64(0)
	for i := 0; i < 8; i++ {
		seed = seed<<8 + int64(hash[i])
	}

	rng := rand.New(rand.NewSource(seed))
	embedding := make([]float32, e.dim)
	for i := range embedding {
		embedding[i] = rng.Float32()*0.02 - 0.01
	}

	text = strings.ToLower(text)
	for dim, term := range fashionTerms {
		if dim < e.dim && strings.Contains(text, term) {
			embedding[dim] += 1
		}
	}

	var norm float64
	for _, val := range embedding {
		norm += float64(val) * float64(val)
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range embedding {
			embedding[i] = float32(float64(embedding[i]) / norm)
		}
	}

	return embedding
}

var _ types.Embedder = (*MockEmbedder)(nil)
