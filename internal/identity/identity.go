// Package identity propagates authenticated identity to services that do not
// hold the signing secret. They forward the session token to the auth
// service's verify endpoint and trust its answer; any doubt fails closed to
// unauthenticated.
//
// This trades one network hop per protected request for keeping the signing
// secret in a single service. The alternative is asymmetric signing with a
// distributed public key, which makes verification local; see DESIGN.md.
package identity

import (
	"context"
	"errors"

	"github.com/PorePranav/CloudCart/internal/auth/models"
)

// CookieName is the session cookie shared by all services.
const CookieName = "session_token"

// ErrUnauthenticated covers every verification failure: missing or bad
// token, auth service unreachable, or an unexpected response. Callers must
// not distinguish between them.
var ErrUnauthenticated = errors.New("identity: unauthenticated")

type userContextKey struct{}

// WithUser attaches the authenticated user to the context.
func WithUser(ctx context.Context, user *models.UserResponse) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext returns the authenticated user set by RequireAuth.
func UserFromContext(ctx context.Context) (*models.UserResponse, bool) {
	user, ok := ctx.Value(userContextKey{}).(*models.UserResponse)
	return user, ok && user != nil
}
