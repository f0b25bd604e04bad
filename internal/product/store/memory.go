package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/PorePranav/CloudCart/internal/product/models"
)

// MemoryStore is an in-memory ProductStore for tests and local development.
type MemoryStore struct {
	mu       sync.RWMutex
	products map[uuid.UUID]models.Product
}

// NewMemory builds an empty memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{products: make(map[uuid.UUID]models.Product)}
}

func (s *MemoryStore) List(_ context.Context) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (s *MemoryStore) Create(_ context.Context, product *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[product.ID] = *product
	return nil
}

func (s *MemoryStore) Update(_ context.Context, product *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[product.ID]; !ok {
		return ErrNotFound
	}
	s.products[product.ID] = *product
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return ErrNotFound
	}
	delete(s.products, id)
	return nil
}
