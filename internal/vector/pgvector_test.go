package vector

import (
	"context"
	"os"
	"testing"

	"github.com/fashionpod/fashionpod/internal/config"
	"github.com/fashionpod/fashionpod/internal/database"
	"github.com/fashionpod/fashionpod/internal/models"
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// dryRunDB builds statements without a server.
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: ""}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)
	return db
}

func filterSQL(t *testing.T, f Filter) (string, error) {
	t.Helper()
	db := dryRunDB(t)
	var filterErr error
	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		q, err := applySQLFilter(tx.Model(&models.Product{}), f)
		if err != nil {
			filterErr = err
			return tx.Model(&models.Product{}).Find(&[]models.Product{})
		}
		return q.Find(&[]models.Product{})
	})
	return sql, filterErr
}

func TestApplySQLFilter(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{
			name:   "array eq",
			filter: Filter{Must: []Condition{Eq("categories", "tops")}},
			want:   []string{"'tops' = ANY(categories)"},
		},
		{
			name:   "array in",
			filter: Filter{Must: []Condition{In("tags", "cotton", "linen")}},
			want:   []string{"tags && ", "cotton", "linen"},
		},
		{
			name:   "scalar in",
			filter: Filter{Must: []Condition{In("status", "active", "draft")}},
			want:   []string{"status IN ('active','draft')"},
		},
		{
			name: "ranges",
			filter: Filter{Must: []Condition{
				{Field: "price", Op: OpGte, Value: 10.5},
				{Field: "price", Op: OpLte, Value: 99},
				{Field: "quantity", Op: OpGt, Value: 0},
			}},
			want: []string{"price >= 10.5", "price <= 99", "quantity > 0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, err := filterSQL(t, tt.filter)
			require.NoError(t, err)
			for _, fragment := range tt.want {
				assert.Contains(t, sql, fragment)
			}
		})
	}
}

func TestApplySQLFilterRejects(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
	}{
		{name: "unknown column", filter: Filter{Must: []Condition{Eq("color", "red")}}},
		{name: "range on array", filter: Filter{Must: []Condition{{Field: "tags", Op: OpGt, Value: 1}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := filterSQL(t, tt.filter)
			assert.ErrorIs(t, err, ErrInvalidFilter)
		})
	}
}

func TestPGVectorStoreCollections(t *testing.T) {
	ctx := context.Background()
	s := NewPGVectorStore(dryRunDB(t), 1536)

	assert.NoError(t, s.EnsureCollection(ctx, "products", 1536))
	assert.ErrorContains(t, s.EnsureCollection(ctx, "products", 3), "dimension")
	assert.ErrorContains(t, s.EnsureCollection(ctx, "images", 1536), "unknown collection")

	_, err := s.Search(ctx, "images", SearchRequest{Vector: []float32{1}})
	assert.ErrorContains(t, err, "unknown collection")
	assert.ErrorContains(t, s.Upsert(ctx, "images", nil), "unknown collection")

	_, err = s.Search(ctx, "products", SearchRequest{Filter: Filter{Must: []Condition{{Field: "", Op: OpEq, Value: 1}}}})
	assert.ErrorIs(t, err, ErrInvalidFilter)
}

// pgDB connects to FASHIONPOD_TEST_DSN. Tests that need Postgres skip
// when it is unset.
func pgDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("FASHIONPOD_TEST_DSN")
	if dsn == "" {
		t.Skip("FASHIONPOD_TEST_DSN not set")
	}

	db, err := database.NewConnection(&config.DBConfig{DSN: dsn, LogLevel: "silent"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.Migrate(context.Background(), zap.NewNop()))
	return db.DB
}

func axis(i int) []float32 {
	v := make([]float32, 1536)
	v[i] = 1
	return v
}

func TestPGVectorStoreSearch(t *testing.T) {
	db := pgDB(t)
	ctx := context.Background()
	s := NewPGVectorStore(db, 1536)

	// A per-run tag keeps rows from other runs out of the results.
	tag := "test-" + uuid.NewString()
	jacket := models.Product{
		Name:       "Leather Jacket",
		Price:      decimal.RequireFromString("299.99"),
		Quantity:   5,
		Status:     models.ProductStatusActive,
		Categories: []string{"outerwear"},
		Tags:       []string{tag},
	}
	tee := models.Product{
		Name:       "Classic White T-Shirt",
		Price:      decimal.RequireFromString("29.99"),
		Quantity:   0,
		Status:     models.ProductStatusActive,
		Categories: []string{"tops"},
		Tags:       []string{tag},
	}
	e0, e1 := pgvector.NewVector(axis(0)), pgvector.NewVector(axis(1))
	jacket.Embedding = &e0
	tee.Embedding = &e1
	require.NoError(t, db.Create(&jacket).Error)
	require.NoError(t, db.Create(&tee).Error)

	mine := In("tags", tag)
	hits, err := s.Search(ctx, "products", SearchRequest{
		Vector:      axis(0),
		Limit:       10,
		Filter:      Filter{Must: []Condition{mine}},
		WithPayload: true,
	})
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, jacket.ID.String(), hits[0].ID)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-6)
	assert.InDelta(t, 0.0, hits[1].Score, 1e-6)
	assert.Equal(t, "Leather Jacket", hits[0].Payload["name"])
	assert.Equal(t, 299.99, hits[0].Payload["price"])
	assert.Equal(t, []string{"outerwear"}, hits[0].Payload["categories"])

	hits, err = s.Search(ctx, "products", SearchRequest{
		Vector: axis(0),
		Filter: Filter{Must: []Condition{mine, Eq("categories", "tops")}},
	})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, tee.ID.String(), hits[0].ID)
	assert.Nil(t, hits[0].Payload)

	hits, err = s.Search(ctx, "products", SearchRequest{
		Vector: axis(0),
		Filter: Filter{Must: []Condition{mine, {Field: "quantity", Op: OpGt, Value: 0}}},
	})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, jacket.ID.String(), hits[0].ID)
}

func TestPGVectorStoreUpsert(t *testing.T) {
	db := pgDB(t)
	ctx := context.Background()
	s := NewPGVectorStore(db, 1536)

	tag := "test-" + uuid.NewString()
	p := models.Product{
		Name:   "Slim Fit Jeans",
		Price:  decimal.RequireFromString("89.99"),
		Status: models.ProductStatusActive,
		Tags:   []string{tag},
	}
	require.NoError(t, db.Create(&p).Error)

	require.NoError(t, s.Upsert(ctx, "products", []Point{{ID: p.ID.String(), Vector: axis(2)}}))
	hits, err := s.Search(ctx, "products", SearchRequest{Vector: axis(2), Filter: Filter{Must: []Condition{In("tags", tag)}}})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-6)

	err = s.Upsert(ctx, "products", []Point{{ID: uuid.NewString(), Vector: axis(2)}})
	assert.ErrorContains(t, err, "not found")

	err = s.Upsert(ctx, "products", []Point{{ID: "not-a-uuid", Vector: axis(2)}})
	assert.ErrorContains(t, err, "invalid product id")
}
