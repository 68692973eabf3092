package validation

import (
	"github.com/fashionpod/fashionpod/internal/models"
	"github.com/fashionpod/fashionpod/internal/vector"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// User is a create/update user payload.
type User struct {
	ID    *string     `mapstructure:"id" json:"id,omitempty" validate:"omitempty,uuid"`
	Email string      `mapstructure:"email" json:"email" validate:"required,email"`
	Name  string      `mapstructure:"name" json:"name" validate:"required,min=1,max=100"`
	Role  models.Role `mapstructure:"role" json:"role" validate:"oneof=customer admin vendor"`
}

// ParseUser validates input and applies the role default.
func ParseUser(input map[string]any) (User, error) {
	u := User{Role: models.RoleCustomer}
	err := parse(input, &u)
	return u, err
}

func (u User) ToModel() models.User {
	name := u.Name
	m := models.User{Email: u.Email, Name: &name, Role: u.Role}
	if u.ID != nil {
		m.ID = uuid.MustParse(*u.ID)
	}
	return m
}

// Product is a create/update product payload.
type Product struct {
	ID          *string              `mapstructure:"id" json:"id,omitempty" validate:"omitempty,uuid"`
	Name        string               `mapstructure:"name" json:"name" validate:"required,min=1,max=200"`
	Description *string              `mapstructure:"description" json:"description,omitempty" validate:"omitempty,max=1000"`
	Price       *float64             `mapstructure:"price" json:"price" validate:"required,gte=0"`
	Quantity    int                  `mapstructure:"quantity" json:"quantity" validate:"gte=0"`
	Categories  []string             `mapstructure:"categories" json:"categories"`
	Tags        []string             `mapstructure:"tags" json:"tags"`
	Status      models.ProductStatus `mapstructure:"status" json:"status" validate:"oneof=active inactive draft"`
}

// ParseProduct validates input and applies quantity, list and status defaults.
func ParseProduct(input map[string]any) (Product, error) {
	p := Product{
		Categories: []string{},
		Tags:       []string{},
		Status:     models.ProductStatusActive,
	}
	err := parse(input, &p)
	return p, err
}

func (p Product) ToModel() models.Product {
	m := models.Product{
		Name:        p.Name,
		Description: p.Description,
		Quantity:    p.Quantity,
		Categories:  pq.StringArray(p.Categories),
		Tags:        pq.StringArray(p.Tags),
		Status:      p.Status,
	}
	if p.Price != nil {
		m.Price = decimal.NewFromFloat(*p.Price).Round(2)
	}
	if p.ID != nil {
		m.ID = uuid.MustParse(*p.ID)
	}
	return m
}

// OrderItem is one line of an order payload.
type OrderItem struct {
	ProductID string   `mapstructure:"productId" json:"productId" validate:"required,uuid"`
	Quantity  *int     `mapstructure:"quantity" json:"quantity" validate:"required,gte=1"`
	Price     *float64 `mapstructure:"price" json:"price" validate:"required,gte=0"`
}

// Order is a create-order payload.
type Order struct {
	ID     *string            `mapstructure:"id" json:"id,omitempty" validate:"omitempty,uuid"`
	UserID string             `mapstructure:"userId" json:"userId" validate:"required,uuid"`
	Status models.OrderStatus `mapstructure:"status" json:"status" validate:"oneof=pending confirmed shipped delivered cancelled"`
	Total  *float64           `mapstructure:"total" json:"total" validate:"required,gte=0"`
	Items  []OrderItem        `mapstructure:"items" json:"items" validate:"required,dive"`
}

// ParseOrder validates input and applies the status default.
func ParseOrder(input map[string]any) (Order, error) {
	o := Order{Status: models.OrderStatusPending}
	err := parse(input, &o)
	return o, err
}

func (o Order) ToModel() models.Order {
	userID := uuid.MustParse(o.UserID)
	m := models.Order{UserID: &userID, Status: o.Status}
	if o.Total != nil {
		m.Total = decimal.NewFromFloat(*o.Total).Round(2)
	}
	if o.ID != nil {
		m.ID = uuid.MustParse(*o.ID)
	}
	for _, it := range o.Items {
		m.Items = append(m.Items, models.OrderItem{
			ProductID: uuid.MustParse(it.ProductID),
			Quantity:  *it.Quantity,
			Price:     decimal.NewFromFloat(*it.Price).Round(2),
		})
	}
	return m
}

type PriceRange struct {
	Min *float64 `mapstructure:"min" json:"min,omitempty"`
	Max *float64 `mapstructure:"max" json:"max,omitempty"`
}

type SearchFilters struct {
	Category   *string     `mapstructure:"category" json:"category,omitempty"`
	PriceRange *PriceRange `mapstructure:"priceRange" json:"priceRange,omitempty"`
	InStock    *bool       `mapstructure:"inStock" json:"inStock,omitempty"`
}

// SearchQuery is a search request with pagination.
type SearchQuery struct {
	Query   string         `mapstructure:"query" json:"query" validate:"required,min=1,max=200"`
	Filters *SearchFilters `mapstructure:"filters" json:"filters,omitempty"`
	Limit   int            `mapstructure:"limit" json:"limit" validate:"gte=1,lte=100"`
	Offset  int            `mapstructure:"offset" json:"offset" validate:"gte=0"`
}

const (
	DefaultSearchLimit = 20
	MaxSearchLimit     = 100
)

// ParseSearchQuery validates input; limit defaults to 20 and offset to 0.
func ParseSearchQuery(input map[string]any) (SearchQuery, error) {
	q := SearchQuery{Limit: DefaultSearchLimit}
	err := parse(input, &q)
	return q, err
}

// VectorFilter converts the request filters into vector store conditions.
func (q SearchQuery) VectorFilter() vector.Filter {
	var f vector.Filter
	if q.Filters == nil {
		return f
	}
	if c := q.Filters.Category; c != nil && *c != "" {
		f.Must = append(f.Must, vector.Eq("categories", *c))
	}
	if pr := q.Filters.PriceRange; pr != nil {
		if pr.Min != nil {
			f.Must = append(f.Must, vector.Condition{Field: "price", Op: vector.OpGte, Value: *pr.Min})
		}
		if pr.Max != nil {
			f.Must = append(f.Must, vector.Condition{Field: "price", Op: vector.OpLte, Value: *pr.Max})
		}
	}
	if s := q.Filters.InStock; s != nil && *s {
		f.Must = append(f.Must, vector.Condition{Field: "quantity", Op: vector.OpGt, Value: 0})
	}
	return f
}
