// Package store persists carts keyed by user.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/PorePranav/CloudCart/internal/cart/models"
)

// ErrItemNotFound reports an item missing from the user's cart.
var ErrItemNotFound = errors.New("store: cart item not found")

// CartStore is the persistence contract for carts.
type CartStore interface {
	// Items returns every item in the user's cart. An empty cart is a nil
	// or empty slice, not an error.
	Items(ctx context.Context, userID uuid.UUID) ([]models.Item, error)
	// GetItem returns a single item or ErrItemNotFound.
	GetItem(ctx context.Context, userID, productID uuid.UUID) (*models.Item, error)
	// AddItem merges an item into the cart atomically: if the product is
	// already present the quantities accumulate and the stored AddedAt is
	// kept. Concurrent adds for the same product must not lose increments.
	AddItem(ctx context.Context, userID uuid.UUID, item models.Item) (*models.Item, error)
	// PutItem creates or replaces an item.
	PutItem(ctx context.Context, userID uuid.UUID, item models.Item) error
	// RemoveItem deletes an item; ErrItemNotFound if it was not present.
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) error
	// Clear empties the user's cart. Clearing an empty cart is a no-op.
	Clear(ctx context.Context, userID uuid.UUID) error
}
