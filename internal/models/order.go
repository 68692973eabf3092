package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Order struct {
	ID              uuid.UUID           `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID          *uuid.UUID          `json:"userId" gorm:"type:uuid;index"`
	User            *User               `json:"-" gorm:"foreignKey:UserID"`
	Status          OrderStatus         `json:"status" gorm:"type:text;default:pending"`
	Total           decimal.Decimal     `json:"total" gorm:"type:decimal(10,2);not null"`
	Subtotal        decimal.NullDecimal `json:"subtotal" gorm:"type:decimal(10,2)"`
	Tax             decimal.NullDecimal `json:"tax" gorm:"type:decimal(10,2)"`
	Shipping        decimal.NullDecimal `json:"shipping" gorm:"type:decimal(10,2)"`
	Currency        string              `json:"currency" gorm:"type:text;default:USD"`
	ShippingAddress datatypes.JSON      `json:"shippingAddress" gorm:"type:jsonb"`
	BillingAddress  datatypes.JSON      `json:"billingAddress" gorm:"type:jsonb"`
	CustomerEmail   *string             `json:"customerEmail" gorm:"type:text"`
	CustomerName    *string             `json:"customerName" gorm:"type:text"`
	Metadata        datatypes.JSON      `json:"metadata" gorm:"type:jsonb"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`

	Items []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID"`
}

func (Order) TableName() string { return "orders" }

// Reconciles reports whether total equals subtotal + tax + shipping.
// Missing components count as zero. Storage does not enforce this.
func (o Order) Reconciles() bool {
	sum := o.Subtotal.Decimal.Add(o.Tax.Decimal).Add(o.Shipping.Decimal)
	return sum.Equal(o.Total)
}

type OrderItem struct {
	ID        uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID   uuid.UUID       `json:"orderId" gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `json:"productId" gorm:"type:uuid;not null;index"`
	Product   *Product        `json:"-" gorm:"foreignKey:ProductID"`
	VariantID *uuid.UUID      `json:"variantId" gorm:"type:uuid"`
	Variant   *ProductVariant `json:"-" gorm:"foreignKey:VariantID"`
	Quantity  int             `json:"quantity" gorm:"not null;check:quantity > 0"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Metadata  datatypes.JSON  `json:"metadata" gorm:"type:jsonb"`
}

func (OrderItem) TableName() string { return "order_items" }

// LineTotal is quantity times unit price.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
