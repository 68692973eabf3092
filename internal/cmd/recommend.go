package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/fashionpod/fashionpod/internal/fashion"
	"github.com/spf13/cobra"
)

var recommendLimit int

var recommendCmd = &cobra.Command{
	Use:   "recommend <user-id>",
	Short: "Show personalised recommendations for a user",
	Long: `Looks up the user's stored embedding and searches the product index
with it. Users without an embedding get the trending products.`,
	Args: cobra.ExactArgs(1),
	RunE: recommendProducts,
}

func init() {
	rootCmd.AddCommand(recommendCmd)

	recommendCmd.Flags().IntVar(&recommendLimit, "limit", fashion.DefaultRecommendationLimit, "Number of products to recommend")
}

func recommendProducts(cmd *cobra.Command, args []string) error {
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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := a.warmMemoryIndex(ctx, svc); err != nil {
		return err
	}

	userID := args[0]
	fmt.Printf("🎯 Recommendations for %s:\n", userID)
	for i, p := range svc.GetPersonalizedRecommendations(ctx, userID, recommendLimit) {
		fmt.Printf("   %d. %s - $%.2f\n", i+1, p.Name, p.Price)
	}
	return nil
}
