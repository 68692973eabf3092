// Package store holds the GORM repositories used by the AI layer.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/fashionpod/fashionpod/internal/models"
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

// Embeddings reads and writes ai_embeddings rows.
type Embeddings struct {
	db *gorm.DB
}

func NewEmbeddings(db *gorm.DB) *Embeddings {
	return &Embeddings{db: db}
}

// FindUserEmbedding returns the newest vector stored for the user.
func (s *Embeddings) FindUserEmbedding(ctx context.Context, userID string) ([]float32, bool, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		// Not a stored user; callers treat this like a missing embedding.
		return nil, false, nil
	}

	var row models.AIEmbedding
	err = s.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", models.EntityUser, id).
		Order("created_at DESC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load user embedding: %w", err)
	}
	return row.Embedding.Slice(), true, nil
}

func (s *Embeddings) Save(ctx context.Context, entityType models.EntityType, entityID uuid.UUID, vec []float32, model string) error {
	row := models.AIEmbedding{
		EntityType: entityType,
		EntityID:   entityID,
		Embedding:  pgvector.NewVector(vec),
		Model:      model,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to save %s embedding: %w", entityType, err)
	}
	return nil
}

// SearchLog records shopper searches for analytics.
type SearchLog struct {
	db *gorm.DB
}

func NewSearchLog(db *gorm.DB) *SearchLog {
	return &SearchLog{db: db}
}

func (s *SearchLog) Record(ctx context.Context, query string, userID *uuid.UUID, results int, vec []float32) error {
	row := models.SearchQuery{
		Query:   query,
		UserID:  userID,
		Results: results,
	}
	if len(vec) > 0 {
		v := pgvector.NewVector(vec)
		row.Embedding = &v
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to record search query: %w", err)
	}
	return nil
}

type Products struct {
	db *gorm.DB
}

func NewProducts(db *gorm.DB) *Products {
	return &Products{db: db}
}

// List returns active products with their images, oldest first.
func (s *Products) List(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order(`"order"`) }).
		Where("status = ?", models.ProductStatusActive).
		Order("created_at").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (s *Products) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := s.db.WithContext(ctx).Preload("Images").First(&product, "id = ?", id).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get product %s: %w", id, err)
	}
	return &product, nil
}

func (s *Products) SetEmbedding(ctx context.Context, id uuid.UUID, vec []float32) error {
	v := pgvector.NewVector(vec)
	res := s.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Update("embedding", &v)
	if res.Error != nil {
		return fmt.Errorf("failed to store product embedding: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product %s: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}
