package store

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PorePranav/CloudCart/internal/auth/models"
)

func newTestUser(email string) *models.User {
	now := time.Now()
	return &models.User{
		ID:           uuid.New(),
		Name:         "Test User",
		Email:        email,
		PasswordHash: "$2a$10$fakehash",
		Role:         models.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestMemoryCreateAndFind(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	u := newTestUser("ann@example.com")
	require.NoError(t, s.Create(ctx, u))

	byEmail, err := s.FindByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	byID, err := s.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, byID.Email)
}

func TestMemoryEmailLookupIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	require.NoError(t, s.Create(ctx, newTestUser("Ann@Example.com")))

	_, err := s.FindByEmail(ctx, "ann@example.com")
	assert.NoError(t, err)
}

func TestMemoryDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	require.NoError(t, s.Create(ctx, newTestUser("ann@example.com")))

	err := s.Create(ctx, newTestUser("ann@example.com"))
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestMemoryNotFound(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	_, err := s.FindByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryConcurrentDistinctEmails(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	const goroutines = 32

	var wg sync.WaitGroup
	var failures atomic.Int32
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			u := newTestUser(uuid.NewString() + "@example.com")
			if err := s.Create(ctx, u); err != nil {
				failures.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Zero(t, failures.Load())
}

func TestMemoryConcurrentSameEmailSingleWinner(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	const goroutines = 32

	var wg sync.WaitGroup
	var successes atomic.Int32
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.Create(ctx, newTestUser("race@example.com")); err == nil {
				successes.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), successes.Load())
}
