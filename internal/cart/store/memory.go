package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/PorePranav/CloudCart/internal/cart/models"
)

// MemoryStore is an in-memory CartStore for tests and local development.
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[uuid.UUID]map[uuid.UUID]models.Item
}

// NewMemory builds an empty memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{carts: make(map[uuid.UUID]map[uuid.UUID]models.Item)}
}

func (s *MemoryStore) Items(_ context.Context, userID uuid.UUID) ([]models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cart := s.carts[userID]
	items := make([]models.Item, 0, len(cart))
	for _, item := range cart {
		items = append(items, item)
	}
	return items, nil
}

func (s *MemoryStore) GetItem(_ context.Context, userID, productID uuid.UUID) (*models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.carts[userID][productID]
	if !ok {
		return nil, ErrItemNotFound
	}
	return &item, nil
}

func (s *MemoryStore) AddItem(_ context.Context, userID uuid.UUID, item models.Item) (*models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.carts[userID]
	if !ok {
		cart = make(map[uuid.UUID]models.Item)
		s.carts[userID] = cart
	}
	if existing, ok := cart[item.ProductID]; ok {
		item.Quantity += existing.Quantity
		item.AddedAt = existing.AddedAt
	}
	cart[item.ProductID] = item
	return &item, nil
}

func (s *MemoryStore) PutItem(_ context.Context, userID uuid.UUID, item models.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.carts[userID]
	if !ok {
		cart = make(map[uuid.UUID]models.Item)
		s.carts[userID] = cart
	}
	cart[item.ProductID] = item
	return nil
}

func (s *MemoryStore) RemoveItem(_ context.Context, userID, productID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.carts[userID][productID]; !ok {
		return ErrItemNotFound
	}
	delete(s.carts[userID], productID)
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
	return nil
}
