package vector

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// QdrantStore talks to the Qdrant REST API.
type QdrantStore struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewQdrantStore(baseURL, apiKey string) (*QdrantStore, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("qdrant url is not configured")
	}
	return &QdrantStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

type qdrantSearchRequest struct {
	Vector      []float32     `json:"vector"`
	Limit       int           `json:"limit"`
	Filter      *qdrantFilter `json:"filter,omitempty"`
	WithPayload bool          `json:"with_payload"`
}

type qdrantFilter struct {
	Must []qdrantCondition `json:"must"`
}

type qdrantCondition struct {
	Key   string         `json:"key"`
	Match map[string]any `json:"match,omitempty"`
	Range *qdrantRange   `json:"range,omitempty"`
}

type qdrantRange struct {
	Gt  *float64 `json:"gt,omitempty"`
	Gte *float64 `json:"gte,omitempty"`
	Lt  *float64 `json:"lt,omitempty"`
	Lte *float64 `json:"lte,omitempty"`
}

type qdrantSearchResponse struct {
	Result []struct {
		ID      json.RawMessage `json:"id"`
		Score   float64         `json:"score"`
		Payload map[string]any  `json:"payload"`
	} `json:"result"`
	Status any `json:"status"`
}

type qdrantPoint struct {
	ID      string         `json:"id"`
	Vector  []float32      `json:"vector"`
	Payload map[string]any `json:"payload,omitempty"`
}

type qdrantUpsertRequest struct {
	Points []qdrantPoint `json:"points"`
}

type qdrantCreateRequest struct {
	Vectors struct {
		Size     int    `json:"size"`
		Distance string `json:"distance"`
	} `json:"vectors"`
}

func (s *QdrantStore) Search(ctx context.Context, collection string, req SearchRequest) ([]Hit, error) {
	if err := req.Filter.Validate(); err != nil {
		return nil, err
	}

	body := qdrantSearchRequest{
		Vector:      req.Vector,
		Limit:       req.Limit,
		Filter:      toQdrantFilter(req.Filter),
		WithPayload: req.WithPayload,
	}

	var response qdrantSearchResponse
	path := fmt.Sprintf("/collections/%s/points/search", url.PathEscape(collection))
	if err := s.do(ctx, http.MethodPost, path, body, &response); err != nil {
		return nil, fmt.Errorf("failed to search %s: %w", collection, err)
	}

	hits := make([]Hit, 0, len(response.Result))
	for _, r := range response.Result {
		hits = append(hits, Hit{
			ID:      pointID(r.ID),
			Score:   r.Score,
			Payload: r.Payload,
		})
	}
	return hits, nil
}

func (s *QdrantStore) Upsert(ctx context.Context, collection string, points []Point) error {
	if len(points) == 0 {
		return nil
	}

	body := qdrantUpsertRequest{Points: make([]qdrantPoint, len(points))}
	for i, p := range points {
		body.Points[i] = qdrantPoint{ID: p.ID, Vector: p.Vector, Payload: p.Payload}
	}

	path := fmt.Sprintf("/collections/%s/points?wait=true", url.PathEscape(collection))
	if err := s.do(ctx, http.MethodPut, path, body, nil); err != nil {
		return fmt.Errorf("failed to upsert into %s: %w", collection, err)
	}
	return nil
}

// EnsureCollection creates the collection with cosine distance unless it exists.
func (s *QdrantStore) EnsureCollection(ctx context.Context, collection string, dim int) error {
	path := "/collections/" + url.PathEscape(collection)

	err := s.do(ctx, http.MethodGet, path, nil, nil)
	if err == nil {
		return nil
	}
	var apiErr *qdrantError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound {
		return fmt.Errorf("failed to get collection %s: %w", collection, err)
	}

	var body qdrantCreateRequest
	body.Vectors.Size = dim
	body.Vectors.Distance = "Cosine"
	if err := s.do(ctx, http.MethodPut, path, body, nil); err != nil {
		return fmt.Errorf("failed to create collection %s: %w", collection, err)
	}
	return nil
}

type qdrantError struct {
	Status int
	Body   string
}

func (e *qdrantError) Error() string {
	return fmt.Sprintf("Qdrant API error %d: %s", e.Status, e.Body)
}

func (s *QdrantStore) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		jsonData, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewBuffer(jsonData)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		httpReq.Header.Set("api-key", s.apiKey)
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return &qdrantError{Status: resp.StatusCode, Body: string(respBody)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func toQdrantFilter(f Filter) *qdrantFilter {
	if f.Empty() {
		return nil
	}
	out := &qdrantFilter{Must: make([]qdrantCondition, 0, len(f.Must))}
	for _, c := range f.Must {
		qc := qdrantCondition{Key: c.Field}
		switch c.Op {
		case OpEq:
			qc.Match = map[string]any{"value": c.Value}
		case OpIn:
			values, _ := list(c.Value)
			qc.Match = map[string]any{"any": values}
		default:
			v, _ := toFloat(c.Value)
			r := &qdrantRange{}
			switch c.Op {
			case OpGt:
				r.Gt = &v
			case OpGte:
				r.Gte = &v
			case OpLt:
				r.Lt = &v
			case OpLte:
				r.Lte = &v
			}
			qc.Range = r
		}
		out.Must = append(out.Must, qc)
	}
	return out
}

// pointID accepts both numeric and UUID point ids.
func pointID(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

var _ Store = (*QdrantStore)(nil)
