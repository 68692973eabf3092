package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/fashionpod/fashionpod/internal/logger"
	"github.com/fashionpod/fashionpod/internal/models"
	"github.com/fashionpod/fashionpod/internal/store"
	"github.com/fashionpod/fashionpod/internal/types"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var indexTimeout time.Duration

var indexProductsCmd = &cobra.Command{
	Use:   "index-products",
	Short: "Embed active products and index them for semantic search",
	Long: `Generates an embedding for every active product, upserts it into the
vector store with the product payload, and stores the vector on the product
row and in ai_embeddings.

Run it after seeding and whenever product copy changes.`,
	RunE: indexProducts,
}

func init() {
	rootCmd.AddCommand(indexProductsCmd)

	indexProductsCmd.Flags().DurationVar(&indexTimeout, "timeout", 5*time.Minute, "Overall timeout for indexing")
}

func indexProducts(cmd *cobra.Command, args []string) error {
	fmt.Println("📚 Indexing products...")

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.connect(); err != nil {
		return err
	}

	svc, err := a.service()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), indexTimeout)
	defer cancel()
	ctx = logger.WithContext(ctx, a.log)

	fmt.Printf("🔤 Using %s/%s\n", a.cfg.LLM.Embedder.Provider, a.cfg.LLM.Embedder.Model)

	products := store.NewProducts(a.db.DB)
	embeddings := store.NewEmbeddings(a.db.DB)

	catalog, err := a.catalog(ctx)
	if err != nil {
		return err
	}

	indexed, err := svc.IndexCatalog(ctx, catalog, func(p types.Product, vec []float32, err error) error {
		if err != nil {
			fmt.Printf("   ❌ %s: %v\n", p.Name, err)
			return nil
		}
		id, err := uuid.Parse(p.ID)
		if err != nil {
			return fmt.Errorf("invalid product id %q: %w", p.ID, err)
		}
		if err := products.SetEmbedding(ctx, id, vec); err != nil {
			return err
		}
		if err := embeddings.Save(ctx, models.EntityProduct, id, vec, a.cfg.LLM.Embedder.Model); err != nil {
			return err
		}
		fmt.Printf("   ✅ %s\n", p.Name)
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Printf("\n🎯 Indexed %d of %d products\n", indexed, len(catalog))
	if indexed < len(catalog) {
		return fmt.Errorf("%d products failed to index", len(catalog)-indexed)
	}
	return nil
}
