package fashion

import "github.com/fashionpod/fashionpod/internal/types"

var (
	classicTee = types.Product{
		ID:          "1",
		Name:        "Classic White T-Shirt",
		Description: "Premium cotton t-shirt with perfect fit",
		Price:       29.99,
		Categories:  []string{"tops", "basics"},
		Tags:        []string{"casual", "essential", "cotton"},
	}
	slimJeans = types.Product{
		ID:          "2",
		Name:        "Slim Fit Jeans",
		Description: "Comfortable slim fit jeans with stretch",
		Price:       89.99,
		Categories:  []string{"bottoms", "denim"},
		Tags:        []string{"denim", "slim-fit", "casual"},
	}
	leatherJacket = types.Product{
		ID:          "3",
		Name:        "Leather Jacket",
		Description: "Genuine leather jacket with modern cut",
		Price:       299.99,
		Categories:  []string{"outerwear", "jackets"},
		Tags:        []string{"leather", "premium", "statement"},
	}
)

// mockSearchResults is served when search cannot reach a provider. It does
// not depend on the query.
func mockSearchResults() []types.SearchResult {
	return []types.SearchResult{
		{Product: classicTee.Clone(), Similarity: 0.85},
		{Product: slimJeans.Clone(), Similarity: 0.78},
	}
}

// trendingProducts returns at most limit entries of the fixed trending list.
func trendingProducts(limit int) []types.Product {
	all := []types.Product{classicTee, slimJeans, leatherJacket}
	if limit < len(all) {
		all = all[:max(limit, 0)]
	}
	out := make([]types.Product, len(all))
	for i, p := range all {
		out[i] = p.Clone()
	}
	return out
}
