package handler

import (
	"strings"

	"github.com/asaskevich/govalidator"

	"github.com/PorePranav/CloudCart/internal/product/service"
	dErrors "github.com/PorePranav/CloudCart/pkg/domain-errors"
)

// ProductRequest is the create/update payload. Bounds mirror the catalog
// rules: names and categories stay short, prices and stock start at one.
type ProductRequest struct {
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	Stock       int    `json:"stock"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

func (r *ProductRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Category = strings.TrimSpace(r.Category)
}

func (r *ProductRequest) Validate() error {
	var problems []string
	if !govalidator.StringLength(r.Name, "2", "50") {
		problems = append(problems, "name must be between 2 and 50 characters")
	}
	if r.Price < 1 {
		problems = append(problems, "price must be at least 1")
	}
	if r.Stock < 1 {
		problems = append(problems, "stock must be at least 1")
	}
	if !govalidator.StringLength(r.Category, "2", "50") {
		problems = append(problems, "category must be between 2 and 50 characters")
	}
	if len(r.Description) > 500 {
		problems = append(problems, "description can have at most 500 characters")
	}
	if len(problems) > 0 {
		return dErrors.New(dErrors.CodeBadRequest, strings.Join(problems, ", "))
	}
	return nil
}

func (r *ProductRequest) params() service.Params {
	return service.Params{
		Name:        r.Name,
		Price:       r.Price,
		Stock:       r.Stock,
		Category:    r.Category,
		Description: r.Description,
	}
}
