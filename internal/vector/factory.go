package vector

import (
	"fmt"

	"github.com/fashionpod/fashionpod/internal/config"
	"gorm.io/gorm"
)

// New creates a vector store based on configuration. db is only used by
// the pgvector backend and may be nil otherwise.
func New(cfg *config.VectorConfig, db *gorm.DB) (Store, error) {
	switch cfg.Provider {
	case "qdrant":
		url := config.ResolveSecret(cfg.URL, cfg.URLEnv)
		store, err := NewQdrantStore(url, config.ResolveSecret(cfg.APIKey, cfg.APIKeyEnv))
		if err != nil {
			return nil, err
		}
		return store, nil
	case "pgvector":
		if db == nil {
			return nil, fmt.Errorf("pgvector store needs a database connection")
		}
		return NewPGVectorStore(db, cfg.Dim), nil
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported vector provider: %s", cfg.Provider)
	}
}
