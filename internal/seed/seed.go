// Package seed loads demo users, products and images for local development.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/fashionpod/fashionpod/internal/database"
	"github.com/fashionpod/fashionpod/internal/logger"
	"github.com/fashionpod/fashionpod/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrDuplicate marks a seed that collided with existing rows. Seeding is
// not idempotent: a second run fails on the unique email index.
var ErrDuplicate = errors.New("seed data already present")

// Store persists seed rows. Create calls fill in generated ids.
type Store interface {
	CreateUsers(ctx context.Context, users []models.User) error
	CreateProducts(ctx context.Context, products []models.Product) error
	CreateImages(ctx context.Context, images []models.ProductImage) error
}

type Result struct {
	Users    int
	Products int
	Images   int
}

// Run inserts the demo fixtures. Groups are inserted in order: users,
// products, then one image per product.
func Run(ctx context.Context, store Store) (Result, error) {
	log := logger.FromContext(ctx)
	log.Info("Seeding database...")

	var res Result
	fixtures, err := LoadFixtures()
	if err != nil {
		return res, err
	}

	users := make([]models.User, len(fixtures.Users))
	for i, u := range fixtures.Users {
		users[i] = u.model()
	}
	if err := store.CreateUsers(ctx, users); err != nil {
		return res, failed(log, "users", err)
	}
	res.Users = len(users)

	products := make([]models.Product, len(fixtures.Products))
	for i, p := range fixtures.Products {
		products[i] = p.model()
	}
	if err := store.CreateProducts(ctx, products); err != nil {
		return res, failed(log, "products", err)
	}
	res.Products = len(products)

	var images []models.ProductImage
	for i, p := range fixtures.Products {
		if p.Image == "" {
			continue
		}
		alt := products[i].Name
		images = append(images, models.ProductImage{
			ProductID: products[i].ID,
			URL:       p.Image,
			Alt:       &alt,
			Order:     0,
		})
	}
	if err := store.CreateImages(ctx, images); err != nil {
		return res, failed(log, "product images", err)
	}
	res.Images = len(images)

	log.Info("Database seeded successfully",
		zap.Int("users", res.Users),
		zap.Int("products", res.Products),
		zap.Int("images", res.Images))
	return res, nil
}

func failed(log *zap.Logger, group string, err error) error {
	err = database.Translate(err)
	log.Error("Error seeding database", zap.String("group", group), zap.Error(err))
	if database.IsUniqueViolation(err) {
		return fmt.Errorf("failed to seed %s: %w: %w", group, ErrDuplicate, err)
	}
	return fmt.Errorf("failed to seed %s: %w", group, err)
}

// GormStore writes seed rows through GORM.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) CreateUsers(ctx context.Context, users []models.User) error {
	return database.Translate(s.db.WithContext(ctx).Create(&users).Error)
}

func (s *GormStore) CreateProducts(ctx context.Context, products []models.Product) error {
	return database.Translate(s.db.WithContext(ctx).Create(&products).Error)
}

func (s *GormStore) CreateImages(ctx context.Context, images []models.ProductImage) error {
	if len(images) == 0 {
		return nil
	}
	return database.Translate(s.db.WithContext(ctx).Create(&images).Error)
}

var _ Store = (*GormStore)(nil)
