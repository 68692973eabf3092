package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/fashionpod/fashionpod/internal/config"
	"github.com/fashionpod/fashionpod/internal/llm"
	"github.com/fashionpod/fashionpod/internal/types"
	"github.com/spf13/cobra"
)

var testLLMCmd = &cobra.Command{
	Use:   "test-llm",
	Short: "Test LLM provider connections",
	Long: `Test connections to configured LLM providers (embedder and generator).
This helps verify API keys and connectivity before indexing products or
starting the server.`,
	RunE: testLLMProviders,
}

func init() {
	rootCmd.AddCommand(testLLMCmd)
}

func testLLMProviders(cmd *cobra.Command, args []string) error {
	fmt.Println("🧪 Testing LLM provider connections...")

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fmt.Printf("🔤 Testing embedder (%s/%s)...\n", cfg.LLM.Embedder.Provider, cfg.LLM.Embedder.Model)
	embedder, err := llm.NewEmbedder(&cfg.LLM)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	testTexts := []string{
		"Classic white t-shirt in premium cotton",
		"Slim fit stretch jeans for everyday wear",
	}

	embeddings, err := embedder.Embed(ctx, testTexts)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings: %w", err)
	}

	fmt.Printf("   ✅ Generated %d embeddings, dimension: %d\n", len(embeddings), embedder.Dim())

	fmt.Printf("🤖 Testing generator (%s/%s)...\n", cfg.LLM.Generator.Provider, cfg.LLM.Generator.Model)
	generator, err := llm.NewGenerator(&cfg.LLM)
	if err != nil {
		return fmt.Errorf("failed to create generator: %w", err)
	}

	opts := types.GenerationOptions{
		MaxTokens: 200,
		System:    "You are a concise fashion copywriter.",
	}
	response, err := generator.Complete(ctx, "Write one sentence selling a leather jacket.", opts.Map())
	if err != nil {
		return fmt.Errorf("failed to generate response: %w", err)
	}

	fmt.Printf("   ✅ Generated response: %s\n", response)

	fmt.Println("\n🎉 All LLM providers are working correctly!")
	return nil
}
