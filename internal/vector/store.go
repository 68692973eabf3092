package vector

import "context"

// Point is a vector with its payload, keyed by id.
type Point struct {
	ID      string
	Vector  []float32
	Payload map[string]any
}

// Hit is a search result. Score is a similarity: higher is closer.
type Hit struct {
	ID      string
	Score   float64
	Payload map[string]any
}

type SearchRequest struct {
	Vector      []float32
	Limit       int
	Filter      Filter
	WithPayload bool
}

// Store is a nearest-neighbour index over named collections.
type Store interface {
	Search(ctx context.Context, collection string, req SearchRequest) ([]Hit, error)
	Upsert(ctx context.Context, collection string, points []Point) error
	EnsureCollection(ctx context.Context, collection string, dim int) error
}
