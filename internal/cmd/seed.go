package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/fashionpod/fashionpod/internal/logger"
	"github.com/fashionpod/fashionpod/internal/seed"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed demo users, products and images",
	Long: `Inserts two demo users, three demo products and one image per product.

Seeding is not idempotent: running it twice fails on the unique email index.`,
	RunE: seedDatabase,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func seedDatabase(cmd *cobra.Command, args []string) error {
	fmt.Println("🌱 Seeding database...")

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.connect(); err != nil {
		return err
	}

	ctx := logger.WithContext(context.Background(), a.log)
	res, err := seed.Run(ctx, seed.NewGormStore(a.db.DB))
	if err != nil {
		if errors.Is(err, seed.ErrDuplicate) {
			fmt.Println("❌ Demo data is already present")
		}
		return err
	}

	fmt.Println("✅ Database seeded successfully!")
	fmt.Printf("   Users: %d\n", res.Users)
	fmt.Printf("   Products: %d\n", res.Products)
	fmt.Printf("   Images: %d\n", res.Images)
	return nil
}
