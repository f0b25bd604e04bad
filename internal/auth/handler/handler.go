// Package handler wires the auth service's HTTP surface: signup, login,
// the remote verification endpoint, and admin provisioning.
package handler

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/PorePranav/CloudCart/internal/auth/models"
	"github.com/PorePranav/CloudCart/internal/auth/service"
	"github.com/PorePranav/CloudCart/internal/identity"
	dErrors "github.com/PorePranav/CloudCart/pkg/domain-errors"
	"github.com/PorePranav/CloudCart/pkg/platform/httputil"
)

// AuthService is the domain surface the handler depends on.
type AuthService interface {
	Signup(ctx context.Context, params service.SignupParams) (*service.Session, error)
	Login(ctx context.Context, email, password string) (*service.Session, error)
	VerifyToken(ctx context.Context, tokenString string) (*models.User, error)
	CreateUser(ctx context.Context, params service.SignupParams, role models.Role) (*models.User, error)
	TokenTTL() time.Duration
}

// Handler serves the auth endpoints.
type Handler struct {
	service       AuthService
	logger        *slog.Logger
	adminAPIKey   string
	secureCookies bool
}

// New constructs the handler. An empty adminAPIKey disables the admin
// endpoint entirely.
func New(svc AuthService, logger *slog.Logger, adminAPIKey string, secureCookies bool) *Handler {
	return &Handler{
		service:       svc,
		logger:        logger,
		adminAPIKey:   adminAPIKey,
		secureCookies: secureCookies,
	}
}

// Register mounts the auth routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/signup", h.HandleSignup)
	r.Post("/login", h.HandleLogin)
	r.Get("/verify", h.HandleVerify)
	r.Post("/admin/users", h.HandleAdminCreate)
}

// HandleSignup handles POST /signup.
func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	req, err := httputil.DecodeJSON[SignupRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	session, err := h.service.Signup(r.Context(), service.SignupParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "user signed up", "user_id", session.User.ID)
	h.setSessionCookie(w, session.Token)
	httputil.WriteSuccess(w, http.StatusCreated, session.User.Redacted())
}

// HandleLogin handles POST /login.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	req, err := httputil.DecodeJSON[LoginRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	session, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.setSessionCookie(w, session.Token)
	httputil.WriteSuccess(w, http.StatusOK, session.User.Redacted())
}

// HandleVerify handles GET /verify?token=. Downstream services call this to
// resolve a session token to its account; it is their only trust anchor.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	tokenString := r.URL.Query().Get("token")
	if tokenString == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "token is required"))
		return
	}

	user, err := h.service.VerifyToken(r.Context(), tokenString)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, user.Redacted())
}

// HandleAdminCreate handles POST /admin/users, guarded by the static admin
// API key rather than a session.
func (h *Handler) HandleAdminCreate(w http.ResponseWriter, r *http.Request) {
	if !h.adminAuthorized(r) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "you are unauthorized to perform this action"))
		return
	}

	req, err := httputil.DecodeJSON[AdminCreateRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	user, err := h.service.CreateUser(r.Context(), service.SignupParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}, req.Role)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "user provisioned",
		"user_id", user.ID, "role", user.Role)
	httputil.WriteSuccess(w, http.StatusCreated, user.Redacted())
}

func (h *Handler) adminAuthorized(r *http.Request) bool {
	if h.adminAPIKey == "" {
		return false
	}
	key, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(key), []byte(h.adminAPIKey)) == 1
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, tokenString string) {
	ttl := h.service.TokenTTL()
	http.SetCookie(w, &http.Cookie{
		Name:     identity.CookieName,
		Value:    tokenString,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteNoneMode,
	})
}
