// Package models holds the cart domain types.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Item is one product line in a user's cart.
type Item struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"added_at"`
}

// Cart is the full cart for one user.
type Cart struct {
	UserID uuid.UUID `json:"user_id"`
	Items  []Item    `json:"items"`
}
