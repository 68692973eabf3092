package database

import (
	"context"
	"fmt"
	"time"

	"github.com/fashionpod/fashionpod/internal/models"
	"go.uber.org/zap"
)

// extensions must exist before AutoMigrate: gen_random_uuid() comes from
// pgcrypto and the vector column type from pgvector.
var extensions = []string{
	"CREATE EXTENSION IF NOT EXISTS pgcrypto",
	"CREATE EXTENSION IF NOT EXISTS vector",
}

// Migrate creates the required extensions and every table in models.All.
func (db *DB) Migrate(ctx context.Context, log *zap.Logger) error {
	start := time.Now()
	log.Info("Starting database migration...")

	tx := db.WithContext(ctx)
	for _, stmt := range extensions {
		if err := tx.Exec(stmt).Error; err != nil {
			log.Error("Failed to create extension", zap.String("statement", stmt), zap.Error(err))
			return fmt.Errorf("failed to create extension: %w", err)
		}
	}

	if err := tx.AutoMigrate(models.All()...); err != nil {
		log.Error("Database migration failed", zap.Error(err))
		return fmt.Errorf("failed to migrate database schema: %w", err)
	}

	log.Info("Database migration completed successfully",
		zap.Duration("duration", time.Since(start)))
	return nil
}
