// Package store persists the product catalog.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/PorePranav/CloudCart/internal/product/models"
)

// ErrNotFound is returned when no product matches the id.
var ErrNotFound = errors.New("store: product not found")

// ProductStore is the persistence boundary for the catalog.
type ProductStore interface {
	List(ctx context.Context) ([]models.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}
