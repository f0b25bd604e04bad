package store

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/PorePranav/CloudCart/internal/auth/models"
)

// MemoryStore is an in-memory UserStore for tests and local development.
// It enforces the same email uniqueness as the postgres store.
type MemoryStore struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]models.User
	byEmail map[string]uuid.UUID
}

// NewMemory builds an empty memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		byID:    make(map[uuid.UUID]models.User),
		byEmail: make(map[string]uuid.UUID),
	}
}

func (s *MemoryStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(user.Email)
	if _, exists := s.byEmail[key]; exists {
		return ErrDuplicateEmail
	}
	s.byID[user.ID] = *user
	s.byEmail[key] = user.ID
	return nil
}

func (s *MemoryStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, ErrNotFound
	}
	u := s.byID[id]
	return &u, nil
}

func (s *MemoryStore) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}
