// Package service implements cart operations for authenticated users.
package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/PorePranav/CloudCart/internal/cart/models"
	"github.com/PorePranav/CloudCart/internal/cart/store"
	dErrors "github.com/PorePranav/CloudCart/pkg/domain-errors"
)

// Service owns the cart business logic. Every operation is scoped to one
// user; callers pass the identity established by the auth middleware.
type Service struct {
	carts store.CartStore
	now   func() time.Time
}

// Option configures the service.
type Option func(*Service)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New wires the cart service.
func New(carts store.CartStore, opts ...Option) *Service {
	s := &Service{carts: carts, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the user's cart, oldest item first.
func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	items, err := s.carts.Items(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "could not read cart", err)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].AddedAt.Before(items[j].AddedAt) })
	if items == nil {
		items = []models.Item{}
	}
	return &models.Cart{UserID: userID, Items: items}, nil
}

// AddItem adds quantity of a product. If the product is already in the
// cart the quantities accumulate and the original AddedAt is kept. The
// merge happens inside the store so concurrent adds cannot lose an
// increment.
func (s *Service) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*models.Item, error) {
	item := models.Item{ProductID: productID, Quantity: quantity, AddedAt: s.now().UTC()}

	merged, err := s.carts.AddItem(ctx, userID, item)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "could not update cart", err)
	}
	return merged, nil
}

// SetQuantity replaces an item's quantity. Zero removes the item; the
// item must already be in the cart.
func (s *Service) SetQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (*models.Item, error) {
	existing, err := s.carts.GetItem(ctx, userID, productID)
	if err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "cart item not found")
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "could not update cart", err)
	}

	if quantity == 0 {
		if err := s.carts.RemoveItem(ctx, userID, productID); err != nil && !errors.Is(err, store.ErrItemNotFound) {
			return nil, dErrors.Wrap(dErrors.CodeInternal, "could not update cart", err)
		}
		return nil, nil
	}

	existing.Quantity = quantity
	if err := s.carts.PutItem(ctx, userID, *existing); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "could not update cart", err)
	}
	return existing, nil
}

// RemoveItem drops a product from the cart.
func (s *Service) RemoveItem(ctx context.Context, userID, productID uuid.UUID) error {
	if err := s.carts.RemoveItem(ctx, userID, productID); err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "cart item not found")
		}
		return dErrors.Wrap(dErrors.CodeInternal, "could not update cart", err)
	}
	return nil
}

// Clear empties the user's cart.
func (s *Service) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.carts.Clear(ctx, userID); err != nil {
		return dErrors.Wrap(dErrors.CodeInternal, "could not clear cart", err)
	}
	return nil
}
