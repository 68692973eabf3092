package types

// Product is the catalog shape exchanged with the vector store and returned to callers.
type Product struct {
	ID          string    `json:"id" mapstructure:"id"`
	Name        string    `json:"name" mapstructure:"name"`
	Description string    `json:"description" mapstructure:"description"`
	Price       float64   `json:"price" mapstructure:"price"`
	Categories  []string  `json:"categories" mapstructure:"categories"`
	Tags        []string  `json:"tags" mapstructure:"tags"`
	Image       string    `json:"image,omitempty" mapstructure:"image,omitempty"`
	Quantity    int       `json:"quantity,omitempty" mapstructure:"quantity,omitempty"`
	Status      string    `json:"status,omitempty" mapstructure:"status,omitempty"`
	Embedding   []float32 `json:"embedding,omitempty" mapstructure:"-"`
}

// Clone returns a deep copy so shared fixtures are never handed out by reference.
func (p Product) Clone() Product {
	c := p
	c.Categories = append([]string(nil), p.Categories...)
	c.Tags = append([]string(nil), p.Tags...)
	if p.Embedding != nil {
		c.Embedding = append([]float32(nil), p.Embedding...)
	}
	return c
}

// PriceRange bounds a shopper's budget.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// UserPreferences is stored on the user row as JSON.
type UserPreferences struct {
	Style      []string   `json:"style"`
	Colors     []string   `json:"colors"`
	Occasions  []string   `json:"occasions"`
	PriceRange PriceRange `json:"priceRange"`
	Sizes      []string   `json:"sizes"`
}

// SearchResult is a product hit with its similarity score.
type SearchResult struct {
	Product    Product `json:"product"`
	Similarity float64 `json:"similarity"`
	Reason     string  `json:"reason,omitempty"`
}

// Outfit groups products suggested together for an occasion.
type Outfit struct {
	Items       []Product `json:"items"`
	Occasion    string    `json:"occasion"`
	Description string    `json:"description"`
	Confidence  float64   `json:"confidence"`
}

// AIStylistResponse is the payload returned by stylist features.
type AIStylistResponse struct {
	Outfits []Outfit `json:"outfits"`
}
