// Package handler wires the product service's HTTP surface. Reads are
// public; writes require an ADMIN identity established by the remote
// verifier middleware.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/PorePranav/CloudCart/internal/product/models"
	"github.com/PorePranav/CloudCart/internal/product/service"
	dErrors "github.com/PorePranav/CloudCart/pkg/domain-errors"
	"github.com/PorePranav/CloudCart/pkg/platform/httputil"
)

// ProductService is the domain surface the handler depends on.
type ProductService interface {
	List(ctx context.Context) ([]models.Product, error)
	Create(ctx context.Context, params service.Params) (*models.Product, error)
	Update(ctx context.Context, id uuid.UUID, params service.Params) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Handler serves the product endpoints.
type Handler struct {
	service ProductService
	logger  *slog.Logger
}

// New constructs the handler.
func New(svc ProductService, logger *slog.Logger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// Register mounts the product routes. adminOnly guards the write routes;
// the list route stays public.
func (h *Handler) Register(r chi.Router, adminOnly ...func(http.Handler) http.Handler) {
	r.Get("/", h.HandleList)
	r.Group(func(r chi.Router) {
		r.Use(adminOnly...)
		r.Post("/", h.HandleCreate)
		r.Put("/{id}", h.HandleUpdate)
		r.Delete("/{id}", h.HandleDelete)
	})
}

// HandleList handles GET /.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.List(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	httputil.WriteSuccess(w, http.StatusOK, products)
}

// HandleCreate handles POST /.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	req, err := httputil.DecodeJSON[ProductRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	product, err := h.service.Create(r.Context(), req.params())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "product created", "product_id", product.ID)
	httputil.WriteSuccess(w, http.StatusCreated, product)
}

// HandleUpdate handles PUT /{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid product id"))
		return
	}

	req, err := httputil.DecodeJSON[ProductRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	product, err := h.service.Update(r.Context(), id, req.params())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, product)
}

// HandleDelete handles DELETE /{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid product id"))
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
