package fashion

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DescriptionInput is the product data the copy prompt is built from.
type DescriptionInput struct {
	Name       string   `json:"name"`
	Categories []string `json:"categories"`
	Price      float64  `json:"price"`
	Tags       []string `json:"tags"`
}

const descriptionInstructions = `Make it compelling, highlight key features, and include styling suggestions.
Target audience: fashion-conscious millennials and Gen Z.
Tone: modern, aspirational, but accessible.`

func descriptionPrompt(in DescriptionInput) string {
	var b strings.Builder
	b.WriteString("Generate an engaging product description for a fashion item with these details:\n")
	fmt.Fprintf(&b, "Name: %s\n", in.Name)
	fmt.Fprintf(&b, "Category: %s\n", strings.Join(in.Categories, ", "))
	fmt.Fprintf(&b, "Price: $%s\n", decimal.NewFromFloat(in.Price).StringFixed(2))
	fmt.Fprintf(&b, "Tags: %s\n", strings.Join(in.Tags, ", "))
	b.WriteString("\n")
	b.WriteString(descriptionInstructions)
	return b.String()
}

// embeddingText is the text a product is indexed under.
func embeddingText(name, description string, categories, tags []string) string {
	parts := []string{name}
	if description != "" {
		parts = append(parts, description)
	}
	if len(categories) > 0 {
		parts = append(parts, "Categories: "+strings.Join(categories, ", "))
	}
	if len(tags) > 0 {
		parts = append(parts, "Tags: "+strings.Join(tags, ", "))
	}
	return strings.Join(parts, ". ")
}
