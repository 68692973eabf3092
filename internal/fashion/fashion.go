// Package fashion is the AI facade of the storefront: embeddings, product
// copy, semantic search and personalised recommendations. Search and
// recommendations degrade to fixed product lists when a provider fails.
package fashion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fashionpod/fashionpod/internal/types"
	"github.com/fashionpod/fashionpod/internal/vector"
	"go.uber.org/zap"
)

const (
	DefaultCollection          = "products"
	SearchLimit                = 20
	DefaultRecommendationLimit = 10
	DescriptionMaxTokens       = 500
)

var (
	// ErrInvalidFilter is returned before any provider is called.
	ErrInvalidFilter  = vector.ErrInvalidFilter
	ErrEmptyEmbedding = errors.New("embedding provider returned no vectors")
)

// UserEmbeddings looks up the stored preference vector of a user.
type UserEmbeddings interface {
	FindUserEmbedding(ctx context.Context, userID string) ([]float32, bool, error)
}

type Deps struct {
	Embedder       types.Embedder
	Generator      types.Generator
	Vectors        vector.Store
	UserEmbeddings UserEmbeddings
	Logger         *zap.Logger
	Metrics        *Metrics
	// Collection defaults to "products".
	Collection string
}

type Service struct {
	embedder   types.Embedder
	generator  types.Generator
	vectors    vector.Store
	users      UserEmbeddings
	log        *zap.Logger
	metrics    *Metrics
	collection string
}

func New(deps Deps) *Service {
	s := &Service{
		embedder:   deps.Embedder,
		generator:  deps.Generator,
		vectors:    deps.Vectors,
		users:      deps.UserEmbeddings,
		log:        deps.Logger,
		metrics:    deps.Metrics,
		collection: deps.Collection,
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.metrics == nil {
		s.metrics = NewMetrics(nil)
	}
	if s.collection == "" {
		s.collection = DefaultCollection
	}
	return s
}

// GenerateEmbedding returns the vector for text. Provider errors are returned.
func (s *Service) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if s.embedder == nil {
		return nil, fmt.Errorf("no embedder configured")
	}

	start := time.Now()
	vecs, err := s.embedder.Embed(ctx, []string{text})
	s.observe("embedder", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}
	if len(vecs) == 0 || len(vecs[0]) == 0 {
		return nil, ErrEmptyEmbedding
	}
	return vecs[0], nil
}

// GenerateProductDescription asks the generator for marketing copy and
// returns it verbatim.
func (s *Service) GenerateProductDescription(ctx context.Context, in DescriptionInput) (string, error) {
	if s.generator == nil {
		return "", fmt.Errorf("no generator configured")
	}

	opts := types.GenerationOptions{MaxTokens: DescriptionMaxTokens}

	start := time.Now()
	text, err := s.generator.Complete(ctx, descriptionPrompt(in), opts.Map())
	s.observe("generator", start, err)
	if err != nil {
		return "", fmt.Errorf("failed to generate description: %w", err)
	}
	return text, nil
}

// SemanticSearch embeds query and returns the closest products. Any
// provider failure yields the fixed two-item result list instead.
func (s *Service) SemanticSearch(ctx context.Context, query string, filter vector.Filter) ([]types.SearchResult, error) {
	results, _, err := s.SearchWithEmbedding(ctx, query, filter)
	return results, err
}

// SearchWithEmbedding is SemanticSearch that also returns the query vector,
// so callers can log it. The vector is nil when embedding failed.
func (s *Service) SearchWithEmbedding(ctx context.Context, query string, filter vector.Filter) ([]types.SearchResult, []float32, error) {
	if err := filter.Validate(); err != nil {
		return nil, nil, err
	}

	vec, err := s.GenerateEmbedding(ctx, query)
	if err != nil {
		s.fallback("semantic_search", "embedding", err)
		return mockSearchResults(), nil, nil
	}

	hits, err := s.search(ctx, vector.SearchRequest{
		Vector:      vec,
		Limit:       SearchLimit,
		Filter:      filter,
		WithPayload: true,
	})
	if err != nil {
		s.fallback("semantic_search", "vector_store", err)
		return mockSearchResults(), vec, nil
	}

	results := make([]types.SearchResult, 0, len(hits))
	for _, hit := range hits {
		p, err := productFromPayload(hit.ID, hit.Payload)
		if err != nil {
			s.log.Warn("Skipping search hit with unreadable payload", zap.String("id", hit.ID), zap.Error(err))
			continue
		}
		results = append(results, types.SearchResult{Product: p, Similarity: hit.Score})
	}
	return results, vec, nil
}

// GetPersonalizedRecommendations searches with the user's stored vector.
// Users without one, and any lookup or store failure, get the trending list.
// limit <= 0 means DefaultRecommendationLimit.
func (s *Service) GetPersonalizedRecommendations(ctx context.Context, userID string, limit int) []types.Product {
	if limit <= 0 {
		limit = DefaultRecommendationLimit
	}

	vec, found, err := s.userEmbedding(ctx, userID)
	if err != nil {
		s.fallback("recommendations", "user_lookup", err)
		return trendingProducts(limit)
	}
	if !found {
		s.metrics.Fallbacks.WithLabelValues("recommendations", "no_user_embedding").Inc()
		s.log.Debug("No stored embedding for user, serving trending products", zap.String("user_id", userID))
		return trendingProducts(limit)
	}

	hits, err := s.search(ctx, vector.SearchRequest{
		Vector:      vec,
		Limit:       limit,
		WithPayload: true,
	})
	if err != nil {
		s.fallback("recommendations", "vector_store", err)
		return trendingProducts(limit)
	}

	products := make([]types.Product, 0, len(hits))
	for _, hit := range hits {
		p, err := productFromPayload(hit.ID, hit.Payload)
		if err != nil {
			s.log.Warn("Skipping recommendation with unreadable payload", zap.String("id", hit.ID), zap.Error(err))
			continue
		}
		products = append(products, p)
	}
	return products
}

// EnsureIndex creates the product collection sized for the embedder.
func (s *Service) EnsureIndex(ctx context.Context) error {
	if s.vectors == nil {
		return fmt.Errorf("no vector store configured")
	}
	if s.embedder == nil {
		return fmt.Errorf("no embedder configured")
	}
	return s.vectors.EnsureCollection(ctx, s.collection, s.embedder.Dim())
}

// IndexProduct embeds p and upserts it with its payload. The vector is
// returned so callers can persist it next to the product row.
func (s *Service) IndexProduct(ctx context.Context, p types.Product) ([]float32, error) {
	if s.vectors == nil {
		return nil, fmt.Errorf("no vector store configured")
	}

	vec, err := s.GenerateEmbedding(ctx, embeddingText(p.Name, p.Description, p.Categories, p.Tags))
	if err != nil {
		return nil, err
	}

	payload, err := productPayload(p)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	err = s.vectors.Upsert(ctx, s.collection, []vector.Point{{ID: p.ID, Vector: vec, Payload: payload}})
	s.observe("vector_store", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to index product %s: %w", p.ID, err)
	}
	return vec, nil
}

// IndexCatalog creates the index and indexes every product. A product that
// fails is passed to onIndexed with its error and skipped. An error returned
// by onIndexed stops the run. It returns how many products were indexed.
func (s *Service) IndexCatalog(ctx context.Context, products []types.Product, onIndexed func(p types.Product, vec []float32, err error) error) (int, error) {
	if err := s.EnsureIndex(ctx); err != nil {
		return 0, fmt.Errorf("failed to prepare vector index: %w", err)
	}

	indexed := 0
	for _, p := range products {
		vec, err := s.IndexProduct(ctx, p)
		if err != nil {
			s.log.Error("Failed to index product", zap.String("product_id", p.ID), zap.Error(err))
		} else {
			indexed++
		}
		if onIndexed != nil {
			if cbErr := onIndexed(p, vec, err); cbErr != nil {
				return indexed, cbErr
			}
		}
	}
	return indexed, nil
}

func (s *Service) search(ctx context.Context, req vector.SearchRequest) ([]vector.Hit, error) {
	if s.vectors == nil {
		return nil, fmt.Errorf("no vector store configured")
	}
	start := time.Now()
	hits, err := s.vectors.Search(ctx, s.collection, req)
	s.observe("vector_store", start, err)
	return hits, err
}

func (s *Service) userEmbedding(ctx context.Context, userID string) ([]float32, bool, error) {
	if s.users == nil {
		return nil, false, nil
	}
	vec, found, err := s.users.FindUserEmbedding(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	return vec, found && len(vec) > 0, nil
}

func (s *Service) fallback(operation, reason string, err error) {
	s.metrics.Fallbacks.WithLabelValues(operation, reason).Inc()
	s.log.Warn("AI provider failed, serving fallback results",
		zap.String("operation", operation),
		zap.String("reason", reason),
		zap.Error(err))
}

func (s *Service) observe(provider string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	s.metrics.ProviderDuration.WithLabelValues(provider, outcome).Observe(time.Since(start).Seconds())
}
