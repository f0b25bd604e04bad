// Package token issues and verifies the signed session tokens that carry a
// user's identity between services.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/PorePranav/CloudCart/internal/auth/models"
)

const issuer = "cloudcart-auth"

// Verification failures. Callers must treat all three as unauthenticated;
// the distinction exists for logs and tests only.
var (
	ErrMalformed    = errors.New("token: malformed")
	ErrBadSignature = errors.New("token: bad signature")
	ErrExpired      = errors.New("token: expired")
)

// Identity is the verified subject of a token.
type Identity struct {
	UserID uuid.UUID
	Role   models.Role
}

type claims struct {
	Role models.Role `json:"role"`
	jwt.RegisteredClaims
}

// Codec signs and verifies session tokens with a shared HMAC secret. It is
// stateless: a token is valid iff its signature checks out and it has not
// expired.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Option configures a Codec.
type Option func(*Codec)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) { c.now = now }
}

// NewCodec builds a codec for the given signing secret and token lifetime.
func NewCodec(secret string, ttl time.Duration, opts ...Option) *Codec {
	c := &Codec{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TTL returns the configured token lifetime, which the session cookie
// expiry must match.
func (c *Codec) TTL() time.Duration { return c.ttl }

// Issue signs an HS256 token for the subject. The payload carries only the
// user ID and role, never credential material.
func (c *Codec) Issue(userID uuid.UUID, role models.Role) (string, error) {
	now := c.now().UTC()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	})
	signed, err := t.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry and returns the embedded identity.
// The HMAC comparison inside jwt is constant-time, so signature failures do
// not leak timing relative to malformed input.
func (c *Codec) Verify(tokenString string) (Identity, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &claims{},
		func(t *jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return Identity{}, ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return Identity{}, ErrBadSignature
		default:
			return Identity{}, ErrMalformed
		}
	}

	cl, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid {
		return Identity{}, ErrMalformed
	}
	userID, err := uuid.Parse(cl.Subject)
	if err != nil {
		return Identity{}, ErrMalformed
	}
	if !cl.Role.Valid() {
		return Identity{}, ErrMalformed
	}
	return Identity{UserID: userID, Role: cl.Role}, nil
}
