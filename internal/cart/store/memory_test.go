package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PorePranav/CloudCart/internal/cart/models"
)

func TestMemoryStoreIsolatesUsers(t *testing.T) {
	s := NewMemory()
	alice, bob := uuid.New(), uuid.New()
	product := uuid.New()

	require.NoError(t, s.PutItem(context.Background(), alice, models.Item{
		ProductID: product, Quantity: 2, AddedAt: time.Now().UTC(),
	}))

	aliceItems, err := s.Items(context.Background(), alice)
	require.NoError(t, err)
	require.Len(t, aliceItems, 1)

	bobItems, err := s.Items(context.Background(), bob)
	require.NoError(t, err)
	assert.Empty(t, bobItems)
}

func TestMemoryStorePutReplaces(t *testing.T) {
	s := NewMemory()
	user, product := uuid.New(), uuid.New()

	require.NoError(t, s.PutItem(context.Background(), user, models.Item{ProductID: product, Quantity: 1}))
	require.NoError(t, s.PutItem(context.Background(), user, models.Item{ProductID: product, Quantity: 5}))

	item, err := s.GetItem(context.Background(), user, product)
	require.NoError(t, err)
	assert.Equal(t, 5, item.Quantity)

	items, err := s.Items(context.Background(), user)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestMemoryStoreRemove(t *testing.T) {
	s := NewMemory()
	user, product := uuid.New(), uuid.New()

	err := s.RemoveItem(context.Background(), user, product)
	assert.ErrorIs(t, err, ErrItemNotFound)

	require.NoError(t, s.PutItem(context.Background(), user, models.Item{ProductID: product, Quantity: 1}))
	require.NoError(t, s.RemoveItem(context.Background(), user, product))

	_, err = s.GetItem(context.Background(), user, product)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestMemoryStoreClear(t *testing.T) {
	s := NewMemory()
	user := uuid.New()

	// Clearing an empty cart is fine.
	require.NoError(t, s.Clear(context.Background(), user))

	for range 3 {
		require.NoError(t, s.PutItem(context.Background(), user, models.Item{ProductID: uuid.New(), Quantity: 1}))
	}
	require.NoError(t, s.Clear(context.Background(), user))

	items, err := s.Items(context.Background(), user)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestMemoryStoreAddItemMerges(t *testing.T) {
	s := NewMemory()
	user, product := uuid.New(), uuid.New()
	first := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	item, err := s.AddItem(context.Background(), user, models.Item{ProductID: product, Quantity: 2, AddedAt: first})
	require.NoError(t, err)
	assert.Equal(t, 2, item.Quantity)

	item, err = s.AddItem(context.Background(), user, models.Item{ProductID: product, Quantity: 3, AddedAt: first.Add(time.Hour)})
	require.NoError(t, err)
	assert.Equal(t, 5, item.Quantity)
	assert.Equal(t, first, item.AddedAt)
}

func TestMemoryStoreConcurrentAddsLoseNothing(t *testing.T) {
	s := NewMemory()
	user, product := uuid.New(), uuid.New()

	const adders = 32
	var wg sync.WaitGroup
	for range adders {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.AddItem(context.Background(), user, models.Item{
				ProductID: product, Quantity: 1, AddedAt: time.Now().UTC(),
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	item, err := s.GetItem(context.Background(), user, product)
	require.NoError(t, err)
	assert.Equal(t, adders, item.Quantity, "every concurrent increment must land")
}
