package identity

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/PorePranav/CloudCart/internal/auth/models"
	dErrors "github.com/PorePranav/CloudCart/pkg/domain-errors"
	"github.com/PorePranav/CloudCart/pkg/platform/httputil"
)

// TokenVerifier resolves a session token to an authenticated user.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*models.UserResponse, error)
}

// RequireAuth extracts the session cookie, verifies it remotely, and puts
// the authenticated user on the request context. Missing cookie, failed
// verification, and auth service outages all yield 401.
func RequireAuth(verifier TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(CookieName)
			if err != nil || cookie.Value == "" {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "you are not logged in"))
				return
			}

			user, err := verifier.Verify(r.Context(), cookie.Value)
			if err != nil {
				logger.WarnContext(r.Context(), "token verification failed",
					"path", r.URL.Path,
					"error", err,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "you are not logged in"))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// RequireRole rejects authenticated users whose role is not in roles.
// Must be mounted after RequireAuth.
func RequireRole(roles ...models.Role) func(http.Handler) http.Handler {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "you are not logged in"))
				return
			}
			if _, ok := allowed[user.Role]; !ok {
				httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "you do not have permission to perform this action"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
