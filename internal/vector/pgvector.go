package vector

import (
	"context"
	"fmt"

	"github.com/fashionpod/fashionpod/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const productsCollection = "products"

// pgColumns maps payload fields to filterable products columns.
var pgColumns = map[string]struct {
	column string
	array  bool
}{
	"name":       {column: "name"},
	"price":      {column: "price"},
	"quantity":   {column: "quantity"},
	"status":     {column: "status"},
	"categories": {column: "categories", array: true},
	"tags":       {column: "tags", array: true},
}

// PGVectorStore searches products.embedding with pgvector. Only the
// products collection exists; its dimension is fixed by the column type.
type PGVectorStore struct {
	db  *gorm.DB
	dim int
}

func NewPGVectorStore(db *gorm.DB, dim int) *PGVectorStore {
	return &PGVectorStore{db: db, dim: dim}
}

type pgHit struct {
	ID          uuid.UUID
	Name        string
	Description *string
	Price       decimal.Decimal
	Quantity    int
	Status      string
	Categories  pq.StringArray
	Tags        pq.StringArray
	Distance    float64
}

func (s *PGVectorStore) Search(ctx context.Context, collection string, req SearchRequest) ([]Hit, error) {
	if collection != productsCollection {
		return nil, fmt.Errorf("unknown collection %s", collection)
	}
	if err := req.Filter.Validate(); err != nil {
		return nil, err
	}

	query := s.db.WithContext(ctx).
		Model(&models.Product{}).
		Select("id, name, description, price, quantity, status, categories, tags, embedding <=> ? AS distance", pgvector.NewVector(req.Vector)).
		Where("embedding IS NOT NULL")

	query, err := applySQLFilter(query, req.Filter)
	if err != nil {
		return nil, err
	}
	if req.Limit > 0 {
		query = query.Limit(req.Limit)
	}

	var rows []pgHit
	if err := query.Order("distance").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to execute vector search: %w", err)
	}

	hits := make([]Hit, 0, len(rows))
	for _, r := range rows {
		hit := Hit{ID: r.ID.String(), Score: 1.0 - r.Distance}
		if req.WithPayload {
			hit.Payload = r.payload()
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

func (r pgHit) payload() map[string]any {
	description := ""
	if r.Description != nil {
		description = *r.Description
	}
	price, _ := r.Price.Float64()
	return map[string]any{
		"id":          r.ID.String(),
		"name":        r.Name,
		"description": description,
		"price":       price,
		"quantity":    r.Quantity,
		"status":      r.Status,
		"categories":  []string(r.Categories),
		"tags":        []string(r.Tags),
	}
}

func applySQLFilter(query *gorm.DB, f Filter) (*gorm.DB, error) {
	for _, c := range f.Must {
		col, ok := pgColumns[c.Field]
		if !ok {
			return nil, fmt.Errorf("%w: field %s is not filterable", ErrInvalidFilter, c.Field)
		}

		switch {
		case col.array && c.Op == OpEq:
			query = query.Where(fmt.Sprintf("? = ANY(%s)", col.column), c.Value)
		case col.array && c.Op == OpIn:
			values, _ := list(c.Value)
			query = query.Where(fmt.Sprintf("%s && ?", col.column), pq.Array(values))
		case col.array:
			return nil, fmt.Errorf("%w: %s does not support %s", ErrInvalidFilter, c.Field, c.Op)
		case c.Op == OpEq:
			query = query.Where(fmt.Sprintf("%s = ?", col.column), c.Value)
		case c.Op == OpIn:
			values, _ := list(c.Value)
			query = query.Where(fmt.Sprintf("%s IN ?", col.column), values)
		default:
			query = query.Where(fmt.Sprintf("%s %s ?", col.column, sqlOps[c.Op]), c.Value)
		}
	}
	return query, nil
}

var sqlOps = map[Op]string{
	OpGt:  ">",
	OpGte: ">=",
	OpLt:  "<",
	OpLte: "<=",
}

// Upsert stores each point's vector on the product row with the same id.
// Payloads are ignored: the row is the payload.
func (s *PGVectorStore) Upsert(ctx context.Context, collection string, points []Point) error {
	if collection != productsCollection {
		return fmt.Errorf("unknown collection %s", collection)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, p := range points {
			id, err := uuid.Parse(p.ID)
			if err != nil {
				return fmt.Errorf("invalid product id %q: %w", p.ID, err)
			}
			vec := pgvector.NewVector(p.Vector)
			res := tx.Model(&models.Product{}).Where("id = ?", id).Update("embedding", &vec)
			if res.Error != nil {
				return fmt.Errorf("failed to store embedding for %s: %w", p.ID, res.Error)
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("product %s not found", p.ID)
			}
		}
		return nil
	})
}

func (s *PGVectorStore) EnsureCollection(ctx context.Context, collection string, dim int) error {
	if collection != productsCollection {
		return fmt.Errorf("unknown collection %s", collection)
	}
	if dim != s.dim {
		return fmt.Errorf("products.embedding has dimension %d, not %d", s.dim, dim)
	}
	return nil
}

var _ Store = (*PGVectorStore)(nil)
