package handler

import (
	"strings"

	"github.com/google/uuid"

	dErrors "github.com/PorePranav/CloudCart/pkg/domain-errors"
)

// AddItemRequest puts a product in the cart.
type AddItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

func (r *AddItemRequest) Normalize() {
	r.ProductID = strings.TrimSpace(r.ProductID)
}

func (r *AddItemRequest) Validate() (uuid.UUID, error) {
	var problems []string
	productID, err := uuid.Parse(r.ProductID)
	if err != nil {
		problems = append(problems, "product_id must be a valid uuid")
	}
	if r.Quantity < 1 {
		problems = append(problems, "quantity must be at least 1")
	}
	if len(problems) > 0 {
		return uuid.Nil, dErrors.New(dErrors.CodeBadRequest, strings.Join(problems, ", "))
	}
	return productID, nil
}

// UpdateItemRequest replaces an item's quantity. Zero removes the item.
type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}

func (r *UpdateItemRequest) Validate() error {
	if r.Quantity < 0 {
		return dErrors.New(dErrors.CodeBadRequest, "quantity cannot be negative")
	}
	return nil
}
