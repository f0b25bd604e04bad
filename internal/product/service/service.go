// Package service implements catalog operations on top of the product store.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/PorePranav/CloudCart/internal/product/models"
	"github.com/PorePranav/CloudCart/internal/product/store"
	dErrors "github.com/PorePranav/CloudCart/pkg/domain-errors"
)

// Params carries a validated product payload.
type Params struct {
	Name        string
	Price       int64
	Stock       int
	Category    string
	Description string
}

// Service owns the catalog business logic.
type Service struct {
	products store.ProductStore
	now      func() time.Time
}

// Option configures the service.
type Option func(*Service)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New wires the product service.
func New(products store.ProductStore, opts ...Option) *Service {
	s := &Service{products: products, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns the full catalog.
func (s *Service) List(ctx context.Context) ([]models.Product, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "could not list products", err)
	}
	return products, nil
}

// Create adds a catalog entry.
func (s *Service) Create(ctx context.Context, params Params) (*models.Product, error) {
	now := s.now().UTC()
	product := &models.Product{
		ID:          uuid.New(),
		Name:        params.Name,
		Price:       params.Price,
		Stock:       params.Stock,
		Category:    params.Category,
		Description: params.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "could not create product", err)
	}
	return product, nil
}

// Update replaces a catalog entry.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params Params) (*models.Product, error) {
	existing, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "product not found")
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "could not update product", err)
	}

	existing.Name = params.Name
	existing.Price = params.Price
	existing.Stock = params.Stock
	existing.Category = params.Category
	existing.Description = params.Description
	existing.UpdatedAt = s.now().UTC()

	if err := s.products.Update(ctx, existing); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "product not found")
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "could not update product", err)
	}
	return existing, nil
}

// Delete removes a catalog entry.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.products.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "product not found")
		}
		return dErrors.Wrap(dErrors.CodeInternal, "could not delete product", err)
	}
	return nil
}
