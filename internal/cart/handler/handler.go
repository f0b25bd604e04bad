// Package handler exposes the cart over HTTP. Every route requires an
// authenticated identity; the cart in play is always the caller's own.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/PorePranav/CloudCart/internal/cart/models"
	"github.com/PorePranav/CloudCart/internal/identity"
	dErrors "github.com/PorePranav/CloudCart/pkg/domain-errors"
	"github.com/PorePranav/CloudCart/pkg/platform/httputil"
)

// CartService is the domain surface the handler depends on.
type CartService interface {
	Get(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*models.Item, error)
	SetQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (*models.Item, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) error
	Clear(ctx context.Context, userID uuid.UUID) error
}

// Handler serves the cart endpoints.
type Handler struct {
	service CartService
	logger  *slog.Logger
}

// New constructs the handler.
func New(svc CartService, logger *slog.Logger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// Register mounts the cart routes behind the supplied auth middleware.
func (h *Handler) Register(r chi.Router, requireAuth ...func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(requireAuth...)
		r.Get("/", h.HandleGet)
		r.Delete("/", h.HandleClear)
		r.Post("/items", h.HandleAddItem)
		r.Put("/items/{productId}", h.HandleUpdateItem)
		r.Delete("/items/{productId}", h.HandleRemoveItem)
	})
}

func caller(r *http.Request) (uuid.UUID, error) {
	user, ok := identity.UserFromContext(r.Context())
	if !ok {
		return uuid.Nil, dErrors.New(dErrors.CodeUnauthorized, "you are not logged in")
	}
	return user.ID, nil
}

// HandleGet handles GET /.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, err := caller(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	cart, err := h.service.Get(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, cart)
}

// HandleAddItem handles POST /items.
func (h *Handler) HandleAddItem(w http.ResponseWriter, r *http.Request) {
	userID, err := caller(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, err := httputil.DecodeJSON[AddItemRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req.Normalize()
	productID, err := req.Validate()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	item, err := h.service.AddItem(r.Context(), userID, productID, req.Quantity)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "cart item added",
		"user_id", userID, "product_id", productID, "quantity", item.Quantity)
	httputil.WriteSuccess(w, http.StatusCreated, item)
}

// HandleUpdateItem handles PUT /items/{productId}.
func (h *Handler) HandleUpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, err := caller(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	productID, err := uuid.Parse(chi.URLParam(r, "productId"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid product id"))
		return
	}

	req, err := httputil.DecodeJSON[UpdateItemRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	item, err := h.service.SetQuantity(r.Context(), userID, productID, req.Quantity)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if item == nil {
		// Quantity zero removed the item.
		w.WriteHeader(http.StatusNoContent)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, item)
}

// HandleRemoveItem handles DELETE /items/{productId}.
func (h *Handler) HandleRemoveItem(w http.ResponseWriter, r *http.Request) {
	userID, err := caller(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	productID, err := uuid.Parse(chi.URLParam(r, "productId"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid product id"))
		return
	}

	if err := h.service.RemoveItem(r.Context(), userID, productID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleClear handles DELETE /.
func (h *Handler) HandleClear(w http.ResponseWriter, r *http.Request) {
	userID, err := caller(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.Clear(r.Context(), userID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
