package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fashionpod/fashionpod/internal/logger"
	"github.com/fashionpod/fashionpod/internal/server"
	"github.com/fashionpod/fashionpod/internal/store"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the FashionPod API server",
	Long: `Start the FashionPod API server which provides:
- Semantic product search with filters and pagination
- Personalised recommendations per user
- AI product descriptions and product payload validation
- Health and Prometheus metrics endpoints`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runServer(cmd *cobra.Command, args []string) error {
	fmt.Println("🚀 FashionPod Starting...")

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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx, a.log)

	if err := a.warmMemoryIndex(ctx, svc); err != nil {
		return err
	}

	fmt.Println("⚙️  Setting up server...")
	srv := server.NewServer(server.Options{
		DB:        a.db,
		AI:        svc,
		SearchLog: store.NewSearchLog(a.db.DB),
		Logger:    a.log,
		Registry:  a.registry,
	})

	fmt.Printf("🌐 Starting server on %s...\n", a.cfg.Server.Addr)
	if err := srv.Start(ctx, a.cfg.Server.Addr); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
