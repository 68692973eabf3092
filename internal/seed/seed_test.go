package seed

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/fashionpod/fashionpod/internal/database"
	"github.com/fashionpod/fashionpod/internal/logger"
	"github.com/fashionpod/fashionpod/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore mimics the unique email index of the users table.
type memStore struct {
	emails   map[string]bool
	users    []models.User
	products []models.Product
	images   []models.ProductImage
	imageErr error
}

func newMemStore() *memStore {
	return &memStore{emails: map[string]bool{}}
}

func (s *memStore) CreateUsers(ctx context.Context, users []models.User) error {
	for i := range users {
		if s.emails[users[i].Email] {
			return &pgconn.PgError{
				Code:           "23505",
				Message:        fmt.Sprintf("duplicate key value violates unique constraint %q", "idx_users_email"),
				ConstraintName: "idx_users_email",
			}
		}
	}
	for i := range users {
		s.emails[users[i].Email] = true
		users[i].ID = uuid.New()
	}
	s.users = append(s.users, users...)
	return nil
}

func (s *memStore) CreateProducts(ctx context.Context, products []models.Product) error {
	for i := range products {
		products[i].ID = uuid.New()
	}
	s.products = append(s.products, products...)
	return nil
}

func (s *memStore) CreateImages(ctx context.Context, images []models.ProductImage) error {
	if s.imageErr != nil {
		return s.imageErr
	}
	s.images = append(s.images, images...)
	return nil
}

func testContext() context.Context {
	return logger.WithContext(context.Background(), logger.Nop())
}

func TestRun(t *testing.T) {
	store := newMemStore()

	res, err := Run(testContext(), store)
	require.NoError(t, err)
	assert.Equal(t, Result{Users: 2, Products: 3, Images: 3}, res)

	require.Len(t, store.users, 2)
	assert.Equal(t, "demo@fashionpod.com", store.users[0].Email)
	assert.Equal(t, models.RoleCustomer, store.users[0].Role)
	assert.Equal(t, "Admin User", *store.users[1].Name)
	assert.Equal(t, models.RoleAdmin, store.users[1].Role)

	require.Len(t, store.products, 3)
	wantPrices := []string{"29.99", "89.99", "299.99"}
	wantQty := []int{100, 50, 25}
	for i, p := range store.products {
		assert.Equal(t, wantPrices[i], p.Price.StringFixed(2))
		assert.Equal(t, wantQty[i], p.Quantity)
	}
	assert.Equal(t, []string{"outerwear", "jackets"}, []string(store.products[2].Categories))

	require.Len(t, store.images, 3)
	for i, img := range store.images {
		assert.Equal(t, store.products[i].ID, img.ProductID)
		assert.Equal(t, store.products[i].Name, *img.Alt)
		assert.Equal(t, 0, img.Order)
	}
	assert.Equal(t, "/images/jacket-leather.jpg", store.images[2].URL)
}

func TestRunTwiceFailsOnDuplicateEmail(t *testing.T) {
	store := newMemStore()

	_, err := Run(testContext(), store)
	require.NoError(t, err)

	res, err := Run(testContext(), store)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.True(t, database.IsUniqueViolation(err))
	assert.ErrorIs(t, err, database.ErrUniqueViolation)
	assert.Equal(t, Result{}, res)
	assert.Len(t, store.products, 3)
}

func TestRunReportsPartialProgress(t *testing.T) {
	store := newMemStore()
	store.imageErr = errors.New("connection reset")

	res, err := Run(testContext(), store)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDuplicate)
	assert.ErrorContains(t, err, "product images")
	assert.Equal(t, Result{Users: 2, Products: 3}, res)
}

func TestLoadFixtures(t *testing.T) {
	f, err := LoadFixtures()
	require.NoError(t, err)
	assert.Len(t, f.Users, 2)
	assert.Len(t, f.Products, 3)
	for _, p := range f.Products {
		assert.NotEmpty(t, p.Image)
	}
}
