package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authmodels "github.com/PorePranav/CloudCart/internal/auth/models"
	"github.com/PorePranav/CloudCart/internal/cart/models"
	"github.com/PorePranav/CloudCart/internal/cart/service"
	"github.com/PorePranav/CloudCart/internal/cart/store"
	"github.com/PorePranav/CloudCart/internal/identity"
)

// envelope mirrors the response shape with raw data for re-decoding.
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// asUser injects a fixed identity, standing in for the verify middleware.
func asUser(userID uuid.UUID) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := &authmodels.UserResponse{ID: userID, Role: authmodels.RoleUser}
			next.ServeHTTP(w, r.WithContext(identity.WithUser(r.Context(), user)))
		})
	}
}

func newRouter(t *testing.T, userID uuid.UUID) chi.Router {
	t.Helper()
	svc := service.New(store.NewMemory())
	h := New(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))

	r := chi.NewRouter()
	r.Route("/api/v1/cart", func(r chi.Router) {
		h.Register(r, asUser(userID))
	})
	return r
}

func do(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeCart(t *testing.T, rec *httptest.ResponseRecorder) models.Cart {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	var cart models.Cart
	require.NoError(t, json.Unmarshal(env.Data, &cart))
	return cart
}

func TestGetEmptyCart(t *testing.T) {
	user := uuid.New()
	r := newRouter(t, user)

	rec := do(t, r, http.MethodGet, "/api/v1/cart", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	cart := decodeCart(t, rec)
	assert.Equal(t, user, cart.UserID)
	assert.Empty(t, cart.Items)
}

func TestAddItem(t *testing.T) {
	r := newRouter(t, uuid.New())
	product := uuid.New()

	rec := do(t, r, http.MethodPost, "/api/v1/cart/items", AddItemRequest{
		ProductID: product.String(), Quantity: 2,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "success", env.Status)

	var item models.Item
	require.NoError(t, json.Unmarshal(env.Data, &item))
	assert.Equal(t, product, item.ProductID)
	assert.Equal(t, 2, item.Quantity)
}

func TestAddItemValidation(t *testing.T) {
	r := newRouter(t, uuid.New())

	tests := []struct {
		name    string
		req     AddItemRequest
		message string
	}{
		{
			name:    "bad product id",
			req:     AddItemRequest{ProductID: "nope", Quantity: 1},
			message: "product_id must be a valid uuid",
		},
		{
			name:    "zero quantity",
			req:     AddItemRequest{ProductID: uuid.NewString(), Quantity: 0},
			message: "quantity must be at least 1",
		},
		{
			name:    "negative quantity",
			req:     AddItemRequest{ProductID: uuid.NewString(), Quantity: -2},
			message: "quantity must be at least 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, r, http.MethodPost, "/api/v1/cart/items", tt.req)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var env envelope
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
			assert.Equal(t, "fail", env.Status)
			assert.Contains(t, env.Message, tt.message)
		})
	}
}

func TestUpdateItemQuantity(t *testing.T) {
	r := newRouter(t, uuid.New())
	product := uuid.New()

	rec := do(t, r, http.MethodPost, "/api/v1/cart/items", AddItemRequest{
		ProductID: product.String(), Quantity: 2,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, r, http.MethodPut, "/api/v1/cart/items/"+product.String(), UpdateItemRequest{Quantity: 9})
	require.Equal(t, http.StatusOK, rec.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	var item models.Item
	require.NoError(t, json.Unmarshal(env.Data, &item))
	assert.Equal(t, 9, item.Quantity)
}

func TestUpdateToZeroRemoves(t *testing.T) {
	r := newRouter(t, uuid.New())
	product := uuid.New()

	rec := do(t, r, http.MethodPost, "/api/v1/cart/items", AddItemRequest{
		ProductID: product.String(), Quantity: 2,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, r, http.MethodPut, "/api/v1/cart/items/"+product.String(), UpdateItemRequest{Quantity: 0})
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, r, http.MethodGet, "/api/v1/cart", nil)
	assert.Empty(t, decodeCart(t, rec).Items)
}

func TestUpdateUnknownItem(t *testing.T) {
	r := newRouter(t, uuid.New())

	rec := do(t, r, http.MethodPut, "/api/v1/cart/items/"+uuid.NewString(), UpdateItemRequest{Quantity: 3})
	require.Equal(t, http.StatusNotFound, rec.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "cart item not found", env.Message)
}

func TestRemoveItem(t *testing.T) {
	r := newRouter(t, uuid.New())
	product := uuid.New()

	rec := do(t, r, http.MethodPost, "/api/v1/cart/items", AddItemRequest{
		ProductID: product.String(), Quantity: 1,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, r, http.MethodDelete, "/api/v1/cart/items/"+product.String(), nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, r, http.MethodDelete, "/api/v1/cart/items/"+product.String(), nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestClearCart(t *testing.T) {
	r := newRouter(t, uuid.New())

	for range 3 {
		rec := do(t, r, http.MethodPost, "/api/v1/cart/items", AddItemRequest{
			ProductID: uuid.NewString(), Quantity: 1,
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := do(t, r, http.MethodDelete, "/api/v1/cart", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, r, http.MethodGet, "/api/v1/cart", nil)
	assert.Empty(t, decodeCart(t, rec).Items)
}

func TestNoIdentityMeansUnauthorized(t *testing.T) {
	svc := service.New(store.NewMemory())
	h := New(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))

	// Mount without any identity middleware: the handler itself must refuse.
	r := chi.NewRouter()
	r.Route("/api/v1/cart", func(r chi.Router) {
		h.Register(r)
	})

	rec := do(t, r, http.MethodGet, "/api/v1/cart", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "fail", env.Status)
	assert.Equal(t, "you are not logged in", env.Message)
}
