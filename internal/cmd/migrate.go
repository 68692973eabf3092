package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create database extensions and tables",
	Long: `Creates the pgcrypto and vector extensions, then migrates every table:
users, sessions, products, variants, images, orders, order items, carts,
AI embeddings, search queries and marketing events.`,
	RunE: migrateDatabase,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func migrateDatabase(cmd *cobra.Command, args []string) error {
	fmt.Println("🔧 Migrating database...")

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.connect(); err != nil {
		return err
	}

	if err := a.db.Migrate(context.Background(), a.log); err != nil {
		return err
	}

	fmt.Println("✅ Database schema is up to date")
	return nil
}
