package cmd

import (
	"context"
	"fmt"

	"github.com/fashionpod/fashionpod/internal/config"
	"github.com/fashionpod/fashionpod/internal/database"
	"github.com/fashionpod/fashionpod/internal/fashion"
	"github.com/fashionpod/fashionpod/internal/llm"
	"github.com/fashionpod/fashionpod/internal/logger"
	"github.com/fashionpod/fashionpod/internal/store"
	"github.com/fashionpod/fashionpod/internal/types"
	"github.com/fashionpod/fashionpod/internal/vector"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// app holds what the commands share. Fields are filled on demand.
type app struct {
	cfg      *config.Config
	log      *zap.Logger
	db       *database.DB
	registry *prometheus.Registry
}

func newApp() (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.Init(logger.Config{
		Level:       cfg.Log.Level,
		Environment: cfg.Log.Environment,
		Service:     "fashionpod",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &app{cfg: cfg, log: log, registry: registry}, nil
}

func (a *app) connect() error {
	if a.db != nil {
		return nil
	}
	fmt.Println("🔌 Connecting to database...")
	db, err := database.NewConnection(&a.cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	a.db = db
	fmt.Println("✅ Database connected successfully")
	return nil
}

// service builds the AI facade. The database is optional: without it
// user embeddings are unavailable and the pgvector backend cannot be used.
func (a *app) service() (*fashion.Service, error) {
	embedder, err := llm.NewEmbedder(&a.cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}
	generator, err := llm.NewGenerator(&a.cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to create generator: %w", err)
	}

	deps := fashion.Deps{
		Embedder:   embedder,
		Generator:  generator,
		Logger:     a.log,
		Metrics:    fashion.NewMetrics(a.registry),
		Collection: a.cfg.Vector.Collection,
	}

	var gdb *gorm.DB
	if a.db != nil {
		gdb = a.db.DB
		deps.UserEmbeddings = store.NewEmbeddings(gdb)
	}
	deps.Vectors, err = vector.New(&a.cfg.Vector, gdb)
	if err != nil {
		return nil, fmt.Errorf("failed to create vector store: %w", err)
	}

	return fashion.New(deps), nil
}

// catalog loads the active products in the shape the vector store indexes.
func (a *app) catalog(ctx context.Context) ([]types.Product, error) {
	rows, err := store.NewProducts(a.db.DB).List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]types.Product, len(rows))
	for i, p := range rows {
		out[i] = p.Catalog()
	}
	return out, nil
}

// warmMemoryIndex fills the in-process vector store from the database.
// Other backends persist their index and are left alone.
func (a *app) warmMemoryIndex(ctx context.Context, svc *fashion.Service) error {
	if a.cfg.Vector.Provider != "memory" {
		return nil
	}
	fmt.Println("📚 Indexing catalog into the in-memory vector store...")
	catalog, err := a.catalog(ctx)
	if err != nil {
		return err
	}
	indexed, err := svc.IndexCatalog(ctx, catalog, nil)
	if err != nil {
		return err
	}
	fmt.Printf("   ✅ Indexed %d of %d products\n", indexed, len(catalog))
	return nil
}

func (a *app) close() {
	if a.db != nil {
		_ = a.db.Close()
	}
	_ = a.log.Sync()
}
