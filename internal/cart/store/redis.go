package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/PorePranav/CloudCart/internal/cart/models"
	platformredis "github.com/PorePranav/CloudCart/internal/platform/redis"
)

// RedisStore keeps each cart in a hash at cart:<userID>, one field per
// product with a JSON-encoded item as the value. The whole cart can be
// read or dropped in a single command.
type RedisStore struct {
	client *platformredis.Client
}

// NewRedis wraps an existing client.
func NewRedis(client *platformredis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func cartKey(userID uuid.UUID) string {
	return "cart:" + userID.String()
}

func (s *RedisStore) Items(ctx context.Context, userID uuid.UUID) ([]models.Item, error) {
	fields, err := s.client.HGetAll(ctx, cartKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("read cart: %w", err)
	}

	items := make([]models.Item, 0, len(fields))
	for field, raw := range fields {
		var item models.Item
		if err := json.Unmarshal([]byte(raw), &item); err != nil {
			return nil, fmt.Errorf("decode cart item %s: %w", field, err)
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *RedisStore) GetItem(ctx context.Context, userID, productID uuid.UUID) (*models.Item, error) {
	raw, err := s.client.HGet(ctx, cartKey(userID), productID.String()).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read cart item: %w", err)
	}

	var item models.Item
	if err := json.Unmarshal([]byte(raw), &item); err != nil {
		return nil, fmt.Errorf("decode cart item: %w", err)
	}
	return &item, nil
}

// addItemAttempts bounds the optimistic retry loop. Each retry means
// another writer touched the same cart between our read and write, so
// the bound only trips under pathological contention.
const addItemAttempts = 100

func (s *RedisStore) AddItem(ctx context.Context, userID uuid.UUID, item models.Item) (*models.Item, error) {
	key := cartKey(userID)
	field := item.ProductID.String()
	merged := item

	// Read-merge-write under WATCH so two concurrent adds of the same
	// product cannot both read the old quantity and drop an increment.
	// A conflicting write aborts the EXEC and we retry from the read.
	txf := func(tx *redis.Tx) error {
		merged = item
		raw, err := tx.HGet(ctx, key, field).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if err == nil {
			var existing models.Item
			if err := json.Unmarshal([]byte(raw), &existing); err != nil {
				return fmt.Errorf("decode cart item: %w", err)
			}
			merged.Quantity += existing.Quantity
			merged.AddedAt = existing.AddedAt
		}

		encoded, err := json.Marshal(merged)
		if err != nil {
			return fmt.Errorf("encode cart item: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, field, encoded)
			return nil
		})
		return err
	}

	for i := 0; i < addItemAttempts; i++ {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return &merged, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, fmt.Errorf("add cart item: %w", err)
	}
	return nil, fmt.Errorf("add cart item: %w", redis.TxFailedErr)
}

func (s *RedisStore) PutItem(ctx context.Context, userID uuid.UUID, item models.Item) error {
	raw, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("encode cart item: %w", err)
	}
	if err := s.client.HSet(ctx, cartKey(userID), item.ProductID.String(), raw).Err(); err != nil {
		return fmt.Errorf("write cart item: %w", err)
	}
	return nil
}

func (s *RedisStore) RemoveItem(ctx context.Context, userID, productID uuid.UUID) error {
	removed, err := s.client.HDel(ctx, cartKey(userID), productID.String()).Result()
	if err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}
	if removed == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.client.Del(ctx, cartKey(userID)).Err(); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
