package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

// CartItem is one line of a cart's items column.
type CartItem struct {
	ProductID uuid.UUID  `json:"productId"`
	VariantID *uuid.UUID `json:"variantId,omitempty"`
	Quantity  int        `json:"quantity"`
}

type Cart struct {
	ID        uuid.UUID                     `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    *uuid.UUID                    `json:"userId" gorm:"type:uuid;index"`
	User      *User                         `json:"-" gorm:"foreignKey:UserID"`
	SessionID *string                       `json:"sessionId" gorm:"type:text;index"`
	Items     datatypes.JSONSlice[CartItem] `json:"items" gorm:"not null;default:'[]'"`
	Metadata  datatypes.JSON                `json:"metadata" gorm:"type:jsonb"`
	CreatedAt time.Time                     `json:"createdAt"`
	UpdatedAt time.Time                     `json:"updatedAt"`
}

func (Cart) TableName() string { return "carts" }

// AIEmbedding stores a vector for any entity, keyed by (entity_type, entity_id).
type AIEmbedding struct {
	ID         uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EntityType EntityType      `json:"entityType" gorm:"type:text;not null;index:idx_ai_embeddings_entity,priority:1"`
	EntityID   uuid.UUID       `json:"entityId" gorm:"type:uuid;not null;index:idx_ai_embeddings_entity,priority:2"`
	Embedding  pgvector.Vector `json:"-" gorm:"type:vector;not null"`
	Model      string          `json:"model" gorm:"type:text;not null"`
	Metadata   datatypes.JSON  `json:"metadata" gorm:"type:jsonb"`
	CreatedAt  time.Time       `json:"createdAt"`
}

func (AIEmbedding) TableName() string { return "ai_embeddings" }

// SearchQuery is an analytics record of a shopper search.
type SearchQuery struct {
	ID        uuid.UUID        `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Query     string           `json:"query" gorm:"type:text;not null"`
	UserID    *uuid.UUID       `json:"userId" gorm:"type:uuid;index"`
	User      *User            `json:"-" gorm:"foreignKey:UserID"`
	Results   int              `json:"results" gorm:"default:0"`
	Embedding *pgvector.Vector `json:"-" gorm:"type:vector"`
	Metadata  datatypes.JSON   `json:"metadata" gorm:"type:jsonb"`
	CreatedAt time.Time        `json:"createdAt"`
}

func (SearchQuery) TableName() string { return "search_queries" }

type MarketingEvent struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Type        Channel        `json:"type" gorm:"type:text;not null"`
	Name        string         `json:"name" gorm:"type:text;not null"`
	Trigger     *Trigger       `json:"trigger" gorm:"type:text"`
	Content     datatypes.JSON `json:"content" gorm:"type:jsonb"`
	AIGenerated bool           `json:"aiGenerated" gorm:"column:ai_generated;default:false"`
	Metadata    datatypes.JSON `json:"metadata" gorm:"type:jsonb"`
	CreatedAt   time.Time      `json:"createdAt"`
}

func (MarketingEvent) TableName() string { return "marketing_events" }

// All returns every model in dependency order for migration.
func All() []any {
	return []any{
		&User{},
		&Session{},
		&Product{},
		&ProductVariant{},
		&ProductImage{},
		&Order{},
		&OrderItem{},
		&Cart{},
		&AIEmbedding{},
		&SearchQuery{},
		&MarketingEvent{},
	}
}
