package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fashionpod/fashionpod/internal/validation"
	"github.com/spf13/cobra"
)

var (
	searchCategory string
	searchMinPrice float64
	searchMaxPrice float64
	searchInStock  bool
	searchLimit    int
	searchOffset   int
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Run a semantic product search",
	Long: `Embeds the query and searches the product index. When the embedding
provider or vector store is unavailable the fixed fallback results are shown.`,
	Args: cobra.MinimumNArgs(1),
	RunE: searchProducts,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringVar(&searchCategory, "category", "", "Only products in this category")
	searchCmd.Flags().Float64Var(&searchMinPrice, "min-price", 0, "Minimum price")
	searchCmd.Flags().Float64Var(&searchMaxPrice, "max-price", 0, "Maximum price")
	searchCmd.Flags().BoolVar(&searchInStock, "in-stock", false, "Only products with stock")
	searchCmd.Flags().IntVar(&searchLimit, "limit", validation.DefaultSearchLimit, "Number of results to show")
	searchCmd.Flags().IntVar(&searchOffset, "offset", 0, "Number of results to skip")
}

func searchProducts(cmd *cobra.Command, args []string) error {
	input := map[string]any{
		"query":  strings.Join(args, " "),
		"limit":  searchLimit,
		"offset": searchOffset,
	}

	filters := map[string]any{}
	if searchCategory != "" {
		filters["category"] = searchCategory
	}
	priceRange := map[string]any{}
	if cmd.Flags().Changed("min-price") {
		priceRange["min"] = searchMinPrice
	}
	if cmd.Flags().Changed("max-price") {
		priceRange["max"] = searchMaxPrice
	}
	if len(priceRange) > 0 {
		filters["priceRange"] = priceRange
	}
	if searchInStock {
		filters["inStock"] = true
	}
	if len(filters) > 0 {
		input["filters"] = filters
	}

	q, err := validation.ParseSearchQuery(input)
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	needsDB := a.cfg.Vector.Provider == "pgvector" || a.cfg.Vector.Provider == "memory"
	if needsDB {
		if err := a.connect(); err != nil {
			return err
		}
	}

	svc, err := a.service()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := a.warmMemoryIndex(ctx, svc); err != nil {
		return err
	}

	fmt.Printf("🔍 Searching for \"%s\"...\n", q.Query)
	results, err := svc.SemanticSearch(ctx, q.Query, q.VectorFilter())
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if q.Offset >= len(results) {
		fmt.Println("   No results")
		return nil
	}
	end := min(q.Offset+q.Limit, len(results))
	for i, r := range results[q.Offset:end] {
		fmt.Printf("   %d. [%.3f] %s - $%.2f (%s)\n",
			q.Offset+i+1, r.Similarity, r.Product.Name, r.Product.Price, strings.Join(r.Product.Categories, ", "))
	}
	fmt.Printf("\n   Showing %d of %d results\n", end-q.Offset, len(results))
	return nil
}
