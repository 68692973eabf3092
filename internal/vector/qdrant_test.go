package vector

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQdrantSearch(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/collections/products/points/search", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("api-key"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result":[
			{"id":"1d7b2c8e-3f0a-4a7e-8b9c-5e6f7a8b9c0d","score":0.91,"payload":{"name":"Tee","price":29.99}},
			{"id":42,"score":0.5,"payload":{}}
		],"status":"ok","time":0.001}`))
	}))
	defer srv.Close()

	s, err := NewQdrantStore(srv.URL+"/", "secret")
	require.NoError(t, err)

	hits, err := s.Search(context.Background(), "products", SearchRequest{
		Vector:      []float32{0.1, 0.2},
		Limit:       20,
		WithPayload: true,
		Filter: Filter{Must: []Condition{
			Eq("categories", "tops"),
			In("status", "active"),
			{Field: "price", Op: OpLte, Value: 100},
		}},
	})
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "1d7b2c8e-3f0a-4a7e-8b9c-5e6f7a8b9c0d", hits[0].ID)
	assert.Equal(t, 0.91, hits[0].Score)
	assert.Equal(t, "Tee", hits[0].Payload["name"])
	assert.Equal(t, "42", hits[1].ID)

	assert.Equal(t, 20.0, got["limit"])
	assert.Equal(t, true, got["with_payload"])
	must := got["filter"].(map[string]any)["must"].([]any)
	require.Len(t, must, 3)
	assert.Equal(t, map[string]any{"key": "categories", "match": map[string]any{"value": "tops"}}, must[0])
	assert.Equal(t, map[string]any{"key": "status", "match": map[string]any{"any": []any{"active"}}}, must[1])
	assert.Equal(t, map[string]any{"key": "price", "range": map[string]any{"lte": 100.0}}, must[2])
}

func TestQdrantSearchRejectsInvalidFilter(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	s, err := NewQdrantStore(srv.URL, "")
	require.NoError(t, err)

	_, err = s.Search(context.Background(), "products", SearchRequest{
		Vector: []float32{1},
		Filter: Filter{Must: []Condition{{Field: "price", Op: "near", Value: 1}}},
	})
	assert.ErrorIs(t, err, ErrInvalidFilter)
	assert.False(t, called)
}

func TestQdrantErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	s, err := NewQdrantStore(srv.URL, "")
	require.NoError(t, err)

	_, err = s.Search(context.Background(), "products", SearchRequest{Vector: []float32{1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
	assert.Contains(t, err.Error(), "boom")
}

func TestQdrantEnsureCollection(t *testing.T) {
	var created map[string]any
	var methods []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method)
		assert.Equal(t, "/collections/products", r.URL.Path)
		if r.Method == http.MethodGet {
			http.Error(w, `{"status":{"error":"Not found"}}`, http.StatusNotFound)
			return
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&created))
		_, _ = w.Write([]byte(`{"result":true,"status":"ok"}`))
	}))
	defer srv.Close()

	s, err := NewQdrantStore(srv.URL, "")
	require.NoError(t, err)
	require.NoError(t, s.EnsureCollection(context.Background(), "products", 1536))

	assert.Equal(t, []string{http.MethodGet, http.MethodPut}, methods)
	assert.Equal(t, map[string]any{"size": 1536.0, "distance": "Cosine"}, created["vectors"])
}

func TestQdrantUpsert(t *testing.T) {
	var body qdrantUpsertRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/collections/products/points", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("wait"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = w.Write([]byte(`{"result":{"status":"completed"},"status":"ok"}`))
	}))
	defer srv.Close()

	s, err := NewQdrantStore(srv.URL, "")
	require.NoError(t, err)
	require.NoError(t, s.Upsert(context.Background(), "products", []Point{
		{ID: "p1", Vector: []float32{0.5}, Payload: map[string]any{"name": "Tee"}},
	}))

	require.Len(t, body.Points, 1)
	assert.Equal(t, "p1", body.Points[0].ID)
	assert.Equal(t, "Tee", body.Points[0].Payload["name"])
}

func TestNewQdrantStoreRequiresURL(t *testing.T) {
	_, err := NewQdrantStore("", "")
	assert.Error(t, err)
}
