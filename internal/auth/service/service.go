// Package service implements the auth domain operations: account creation,
// credential checks, and token verification.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/PorePranav/CloudCart/internal/auth/metrics"
	"github.com/PorePranav/CloudCart/internal/auth/models"
	"github.com/PorePranav/CloudCart/internal/auth/store"
	"github.com/PorePranav/CloudCart/internal/auth/token"
	"github.com/PorePranav/CloudCart/internal/event"
	dErrors "github.com/PorePranav/CloudCart/pkg/domain-errors"
)

// credentialMismatch is the single message for every login failure so
// responses cannot be used to enumerate accounts.
const credentialMismatch = "invalid email or password"

// Publisher hands domain events to the background broker worker.
type Publisher interface {
	Publish(event.Envelope)
}

// Service owns the auth business logic. Handlers translate HTTP to these
// calls and back.
type Service struct {
	users      store.UserStore
	codec      *token.Codec
	publisher  Publisher
	logger     *slog.Logger
	metrics    *metrics.Metrics
	bcryptCost int
	dummyHash  []byte
	now        func() time.Time
}

// Option configures the service.
type Option func(*Service)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithBcryptCost overrides the password hash cost. Tests use bcrypt.MinCost.
func WithBcryptCost(cost int) Option {
	return func(s *Service) { s.bcryptCost = cost }
}

// New wires the auth service. metrics may be nil.
func New(users store.UserStore, codec *token.Codec, publisher Publisher, logger *slog.Logger, m *metrics.Metrics, opts ...Option) *Service {
	s := &Service{
		users:      users,
		codec:      codec,
		publisher:  publisher,
		logger:     logger,
		metrics:    m,
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Hashed at the configured cost: the compare for an unknown email must
	// cost the same as one against a stored hash, or response timing leaks
	// which emails exist.
	dummy, err := bcrypt.GenerateFromPassword([]byte("cloudcart-dummy"), s.bcryptCost)
	if err != nil {
		panic(err)
	}
	s.dummyHash = dummy
	return s
}

// SignupParams carries a validated signup request.
type SignupParams struct {
	Name     string
	Email    string
	Password string
}

// Session is the result of a successful signup or login: the account plus a
// freshly issued token the handler turns into a cookie.
type Session struct {
	User  *models.User
	Token string
}

// Signup creates an account, publishes user.created, and issues a session
// token. The record write commits before the event is enqueued or the token
// minted; a publish failure never fails the signup.
func (s *Service) Signup(ctx context.Context, params SignupParams) (*Session, error) {
	return s.create(ctx, params, models.RoleUser, true)
}

// CreateUser provisions an account with an explicit role. Used by the
// admin-key guarded endpoint; no session is issued and no event published,
// matching the provisioning semantics rather than a user-initiated signup.
func (s *Service) CreateUser(ctx context.Context, params SignupParams, role models.Role) (*models.User, error) {
	if !role.Valid() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "unknown role")
	}
	session, err := s.create(ctx, params, role, false)
	if err != nil {
		return nil, err
	}
	return session.User, nil
}

func (s *Service) create(ctx context.Context, params SignupParams, role models.Role, publish bool) (*Session, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), s.bcryptCost)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "could not create user", err)
	}

	now := s.now().UTC()
	user := &models.User{
		ID:           uuid.New(),
		Name:         params.Name,
		Email:        params.Email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return nil, dErrors.New(dErrors.CodeConflict, "email already in use")
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "could not create user", err)
	}
	if s.metrics != nil {
		s.metrics.UsersCreated.Inc()
	}

	// The write is committed; everything past this point is best-effort or
	// purely derived from the stored record.
	if publish {
		env, err := event.NewUserCreated(user.Redacted())
		if err != nil {
			s.logger.ErrorContext(ctx, "could not build user.created event",
				"user_id", user.ID, "error", err)
		} else {
			s.publisher.Publish(env)
		}
	}

	signed, err := s.codec.Issue(user.ID, user.Role)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "could not issue token", err)
	}
	if s.metrics != nil {
		s.metrics.TokensIssued.Inc()
	}
	return &Session{User: user, Token: signed}, nil
}

// Login checks credentials and issues a session token. Unknown email and
// wrong password collapse to the same error.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Burn the same bcrypt work so the miss is not observable.
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return nil, dErrors.New(dErrors.CodeUnauthorized, credentialMismatch)
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "could not log in", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, credentialMismatch)
	}

	signed, err := s.codec.Issue(user.ID, user.Role)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "could not issue token", err)
	}
	if s.metrics != nil {
		s.metrics.TokensIssued.Inc()
	}
	return &Session{User: user, Token: signed}, nil
}

// VerifyToken resolves a token to the full user record. Every failure mode
// collapses to unauthorized: a decoded-but-dangling subject is no more
// authenticated than a bad signature.
func (s *Service) VerifyToken(ctx context.Context, tokenString string) (*models.User, error) {
	identity, err := s.codec.Verify(tokenString)
	if err != nil {
		if s.metrics != nil {
			s.metrics.ObserveVerify(false)
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid or expired token")
	}

	user, err := s.users.FindByID(ctx, identity.UserID)
	if err != nil {
		if s.metrics != nil {
			s.metrics.ObserveVerify(false)
		}
		if errors.Is(err, store.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "the user belonging to this token no longer exists")
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "could not verify token", err)
	}

	if s.metrics != nil {
		s.metrics.ObserveVerify(true)
	}
	return user, nil
}

// TokenTTL exposes the codec's token lifetime for cookie expiry.
func (s *Service) TokenTTL() time.Duration { return s.codec.TTL() }
