package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fashionpod/fashionpod/internal/fashion"
	"github.com/fashionpod/fashionpod/internal/types"
	"github.com/fashionpod/fashionpod/internal/vector"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAI struct {
	results   []types.SearchResult
	vec       []float32
	err       error
	filter    vector.Filter
	recLimit  int
	recUser   string
	descInput fashion.DescriptionInput
	descErr   error
}

func (f *fakeAI) SearchWithEmbedding(ctx context.Context, query string, filter vector.Filter) ([]types.SearchResult, []float32, error) {
	f.filter = filter
	return f.results, f.vec, f.err
}

func (f *fakeAI) GetPersonalizedRecommendations(ctx context.Context, userID string, limit int) []types.Product {
	f.recUser = userID
	f.recLimit = limit
	return []types.Product{{ID: "1", Name: "Classic White T-Shirt"}}
}

func (f *fakeAI) GenerateProductDescription(ctx context.Context, in fashion.DescriptionInput) (string, error) {
	f.descInput = in
	return "Effortless everyday cotton.", f.descErr
}

type fakeDB struct{ err error }

func (d fakeDB) HealthCheck(context.Context) error { return d.err }

type recordedSearch struct {
	query   string
	userID  *uuid.UUID
	results int
	vec     []float32
}

type fakeSearchLog struct{ records []recordedSearch }

func (l *fakeSearchLog) Record(ctx context.Context, query string, userID *uuid.UUID, results int, vec []float32) error {
	l.records = append(l.records, recordedSearch{query: query, userID: userID, results: results, vec: vec})
	return nil
}

func do(t *testing.T, s *Server, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func manyResults(n int) []types.SearchResult {
	out := make([]types.SearchResult, n)
	for i := range out {
		out[i] = types.SearchResult{Product: types.Product{ID: string(rune('a' + i))}, Similarity: 1 - float64(i)/100}
	}
	return out
}

func TestHealth(t *testing.T) {
	s := NewServer(Options{DB: fakeDB{}, AI: &fakeAI{}})
	rec := do(t, s, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "fashionpod", decode(t, rec)["service"])

	s = NewServer(Options{DB: fakeDB{err: errors.New("down")}, AI: &fakeAI{}})
	rec = do(t, s, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestSearch(t *testing.T) {
	ai := &fakeAI{results: manyResults(5), vec: []float32{0.1, 0.2}}
	searchLog := &fakeSearchLog{}
	s := NewServer(Options{AI: ai, SearchLog: searchLog})
	userID := uuid.New()

	rec := do(t, s, http.MethodPost, "/api/search",
		`{"query":"red dress","limit":2,"offset":1,"filters":{"category":"dresses"}}`,
		map[string]string{"X-User-ID": userID.String()})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp searchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 5, resp.Total)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "b", resp.Results[0].Product.ID)
	assert.Equal(t, "c", resp.Results[1].Product.ID)
	assert.Equal(t, []vector.Condition{vector.Eq("categories", "dresses")}, ai.filter.Must)

	require.Len(t, searchLog.records, 1)
	assert.Equal(t, "red dress", searchLog.records[0].query)
	assert.Equal(t, 5, searchLog.records[0].results)
	assert.Equal(t, []float32{0.1, 0.2}, searchLog.records[0].vec)
	require.NotNil(t, searchLog.records[0].userID)
	assert.Equal(t, userID, *searchLog.records[0].userID)
}

func TestSearchDefaultsAndPastEnd(t *testing.T) {
	s := NewServer(Options{AI: &fakeAI{results: manyResults(3)}})

	rec := do(t, s, http.MethodPost, "/api/search", `{"query":"tee"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp searchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 20, resp.Limit)
	assert.Equal(t, 0, resp.Offset)
	assert.Len(t, resp.Results, 3)

	rec = do(t, s, http.MethodPost, "/api/search", `{"query":"tee","offset":10}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Results)
}

func TestSearchValidation(t *testing.T) {
	s := NewServer(Options{AI: &fakeAI{}})

	rec := do(t, s, http.MethodPost, "/api/search", `{"query":"","limit":101,"offset":-1}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := rec.Body.String()
	for _, field := range []string{`"query"`, `"limit"`, `"offset"`} {
		assert.Contains(t, body, field)
	}

	rec = do(t, s, http.MethodPost, "/api/search", `[1,2]`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchInvalidFilter(t *testing.T) {
	s := NewServer(Options{AI: &fakeAI{err: vector.ErrInvalidFilter}})
	rec := do(t, s, http.MethodPost, "/api/search", `{"query":"tee"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecommendations(t *testing.T) {
	ai := &fakeAI{}
	s := NewServer(Options{AI: ai})

	rec := do(t, s, http.MethodGet, "/api/users/u-42/recommendations?limit=2", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u-42", ai.recUser)
	assert.Equal(t, 2, ai.recLimit)
	assert.Contains(t, rec.Body.String(), "Classic White T-Shirt")

	rec = do(t, s, http.MethodGet, "/api/users/u-42/recommendations", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, ai.recLimit)

	rec = do(t, s, http.MethodGet, "/api/users/u-42/recommendations?limit=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProductDescription(t *testing.T) {
	ai := &fakeAI{}
	s := NewServer(Options{AI: ai})

	rec := do(t, s, http.MethodPost, "/api/products/description",
		`{"name":"Slim Fit Jeans","price":89.99,"categories":["bottoms","denim"],"tags":["denim"]}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Effortless everyday cotton.", decode(t, rec)["description"])
	assert.Equal(t, fashion.DescriptionInput{
		Name:       "Slim Fit Jeans",
		Categories: []string{"bottoms", "denim"},
		Price:      89.99,
		Tags:       []string{"denim"},
	}, ai.descInput)

	ai.descErr = errors.New("Anthropic API error 529")
	rec = do(t, s, http.MethodPost, "/api/products/description", `{"name":"Cap","price":5}`, nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.NotContains(t, rec.Body.String(), "529")

	rec = do(t, s, http.MethodPost, "/api/products/description", `{"name":"Cap"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestValidateProduct(t *testing.T) {
	s := NewServer(Options{AI: &fakeAI{}})

	rec := do(t, s, http.MethodPost, "/api/products/validate", `{"name":"Tee","price":29.99}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	product := decode(t, rec)["product"].(map[string]any)
	assert.Equal(t, "active", product["status"])
	assert.Equal(t, 0.0, product["quantity"])
	assert.Equal(t, []any{}, product["tags"])

	rec = do(t, s, http.MethodPost, "/api/products/validate", `{"name":"Tee","price":-1,"quantity":1.5}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	errs := decode(t, rec)["errors"].([]any)
	var fields []string
	for _, e := range errs {
		fields = append(fields, e.(map[string]any)["field"].(string))
	}
	assert.ElementsMatch(t, []string{"price", "quantity"}, fields)
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewServer(Options{AI: &fakeAI{}, Registry: reg})

	do(t, s, http.MethodGet, "/api/users/u1/recommendations", "", nil)
	rec := do(t, s, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `path="/api/users/:id/recommendations"`))
}
