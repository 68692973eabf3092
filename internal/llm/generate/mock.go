package generate

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/fashionpod/fashionpod/internal/types"
)

// MockGenerator writes canned product copy without calling a provider.
type MockGenerator struct {
	model string
}

func NewMockGenerator(model string) *MockGenerator {
	return &MockGenerator{model: model}
}

var promptField = regexp.MustCompile(`(?m)^(Name|Category|Price|Tags):\s*(.*)$`)

func (g *MockGenerator) Complete(ctx context.Context, prompt string, opts map[string]any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	fields := map[string]string{}
	for _, m := range promptField.FindAllStringSubmatch(prompt, -1) {
		fields[m[1]] = strings.TrimSpace(m[2])
	}

	name := fields["Name"]
	if name == "" {
		return g.generateGenericCopy(), nil
	}
	return g.generateProductCopy(name, fields["Category"], fields["Price"], fields["Tags"]), nil
}

func (g *MockGenerator) Model() string {
	return g.model + "-mock"
}

func (g *MockGenerator) generateProductCopy(name, category, price, tags string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Meet the %s: a wardrobe upgrade you will reach for again and again.", name)
	if category != "" {
		fmt.Fprintf(&b, " Designed for your %s rotation,", strings.ToLower(category))
		b.WriteString(" it balances everyday comfort with a clean, modern silhouette.")
	}
	if tags != "" {
		fmt.Fprintf(&b, " Key notes: %s.", tags)
	}
	b.WriteString("\n\nStyle it with crisp sneakers and a relaxed layer for weekends, or dress it up with tailored pieces after dark.")
	if price != "" {
		fmt.Fprintf(&b, " All for %s.", price)
	}
	return b.String()
}

func (g *MockGenerator) generateGenericCopy() string {
	return "A versatile staple with a modern cut. Pair it with your favourite basics for an effortless look that moves from day to night."
}

var _ types.Generator = (*MockGenerator)(nil)
