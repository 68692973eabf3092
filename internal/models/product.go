package models

import (
	"time"

	"github.com/fashionpod/fashionpod/internal/types"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Product struct {
	ID            uuid.UUID           `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name          string              `json:"name" gorm:"type:text;not null"`
	Description   *string             `json:"description" gorm:"type:text"`
	Price         decimal.Decimal     `json:"price" gorm:"type:decimal(10,2);not null"`
	ComparePrice  decimal.NullDecimal `json:"comparePrice" gorm:"type:decimal(10,2)"`
	Cost          decimal.NullDecimal `json:"cost" gorm:"type:decimal(10,2)"`
	SKU           *string             `json:"sku" gorm:"column:sku;type:text;uniqueIndex"`
	Barcode       *string             `json:"barcode" gorm:"type:text"`
	TrackQuantity bool                `json:"trackQuantity" gorm:"default:true"`
	Quantity      int                 `json:"quantity" gorm:"default:0;check:quantity >= 0"`
	Weight        decimal.NullDecimal `json:"weight" gorm:"type:decimal(10,2)"`
	Tags          pq.StringArray      `json:"tags" gorm:"type:text[]"`
	Categories    pq.StringArray      `json:"categories" gorm:"type:text[]"`
	Status        ProductStatus       `json:"status" gorm:"type:text;default:active"`
	AIDescription *string             `json:"aiDescription" gorm:"column:ai_description;type:text"`
	AITags        pq.StringArray      `json:"aiTags" gorm:"column:ai_tags;type:text[]"`
	Embedding     *pgvector.Vector    `json:"-" gorm:"type:vector(1536)"`
	Metadata      datatypes.JSON      `json:"metadata" gorm:"type:jsonb"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`

	Variants []ProductVariant `json:"variants,omitempty" gorm:"foreignKey:ProductID"`
	Images   []ProductImage   `json:"images,omitempty" gorm:"foreignKey:ProductID"`
}

func (Product) TableName() string { return "products" }

type ProductVariant struct {
	ID         uuid.UUID           `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID  uuid.UUID           `json:"productId" gorm:"type:uuid;not null;index"`
	Name       string              `json:"name" gorm:"type:text;not null"`
	Price      decimal.NullDecimal `json:"price" gorm:"type:decimal(10,2)"`
	SKU        *string             `json:"sku" gorm:"column:sku;type:text"`
	Inventory  int                 `json:"inventory" gorm:"default:0"`
	Attributes datatypes.JSON      `json:"attributes" gorm:"type:jsonb"`
	CreatedAt  time.Time           `json:"createdAt"`
}

func (ProductVariant) TableName() string { return "product_variants" }

type ProductImage struct {
	ID        uuid.UUID        `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID uuid.UUID        `json:"productId" gorm:"type:uuid;not null;index"`
	URL       string           `json:"url" gorm:"column:url;type:text;not null"`
	Alt       *string          `json:"alt" gorm:"type:text"`
	Order     int              `json:"order" gorm:"column:order;default:0"`
	AITags    pq.StringArray   `json:"aiTags" gorm:"column:ai_tags;type:text[]"`
	Embedding *pgvector.Vector `json:"-" gorm:"type:vector"`
	CreatedAt time.Time        `json:"createdAt"`
}

func (ProductImage) TableName() string { return "product_images" }

// Catalog converts the row into the shape indexed in the vector store.
func (p Product) Catalog() types.Product {
	out := types.Product{
		ID:         p.ID.String(),
		Name:       p.Name,
		Categories: append([]string{}, p.Categories...),
		Tags:       append([]string{}, p.Tags...),
		Quantity:   p.Quantity,
		Status:     string(p.Status),
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	out.Price, _ = p.Price.Float64()
	if len(p.Images) > 0 {
		out.Image = p.Images[0].URL
	}
	return out
}
