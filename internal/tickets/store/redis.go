package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"ticketdesk_backend/platform/logger"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each ticket collection as a JSON array under a single key.
type RedisStore struct {
	client *redis.Client
	log    *logger.Logger
}

// NewRedisStore creates a Redis-backed ticket store.
func NewRedisStore(client *redis.Client, log *logger.Logger) *RedisStore {
	return &RedisStore{client: client, log: log}
}

func redisKey(key string) string { return fmt.Sprintf("ticketstore:%s", key) }

func (s *RedisStore) Get(ctx context.Context, key string) ([]Ticket, error) {
	raw, err := s.client.Get(ctx, redisKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return []Ticket{}, nil
	}
	if err != nil {
		return nil, err
	}

	var list []Ticket
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		// A corrupt payload is treated as an empty collection rather than a
		// hard failure; the next Set overwrites it.
		s.log.StoreError("ticket_store_decode", key, err)
		return []Ticket{}, nil
	}
	return list, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, list []Ticket) error {
	raw, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, redisKey(key), raw, 0).Err()
}

var _ Store = (*RedisStore)(nil)
