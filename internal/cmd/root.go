package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "fashionpod",
	Short: "FashionPod - AI layer for the FashionPod storefront",
	Long: `FashionPod serves semantic product search, personalised recommendations
and AI-written product copy on top of the storefront database.

Run it as an HTTP server, or use the CLI commands to migrate and seed the
database, index products into the vector store and try the AI features.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
