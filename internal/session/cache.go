package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ticketdesk_backend/internal/accounts"
	"ticketdesk_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Cache is the two-tier session cache consulted by the resolver. Tab-scoped
// entries carry a short TTL and memoize full records; persisted IDs carry a
// long TTL and survive across sessions. A corrupt entry is reported as absent,
// never as an error.
type Cache interface {
	Customer(ctx context.Context, sessionID string) *accounts.CustomerRecord
	SetCustomer(ctx context.Context, sessionID string, record accounts.CustomerRecord) error
	RegularUser(ctx context.Context, sessionID string) *accounts.RegularUserRecord
	SetRegularUser(ctx context.Context, sessionID string, record accounts.RegularUserRecord) error

	PersistedCustomerID(ctx context.Context, sessionID string) (uuid.UUID, bool)
	SetPersistedCustomerID(ctx context.Context, sessionID string, id uuid.UUID) error
	DeletePersistedCustomerID(ctx context.Context, sessionID string) error
	PersistedRegularUserID(ctx context.Context, sessionID string) (uuid.UUID, bool)
	SetPersistedRegularUserID(ctx context.Context, sessionID string, id uuid.UUID) error
	DeletePersistedRegularUserID(ctx context.Context, sessionID string) error

	// Clear removes every cache entry bound to the session ID.
	Clear(ctx context.Context, sessionID string) error
}

// TTLs defines expiry for the two cache tiers.
type TTLs struct {
	Session   time.Duration
	Persisted time.Duration
}

// RedisCache implements Cache on a Redis client.
type RedisCache struct {
	client *redis.Client
	ttls   TTLs
	log    *logger.Logger
}

// NewRedisCache creates a Redis-backed session cache.
func NewRedisCache(client *redis.Client, ttls TTLs, log *logger.Logger) *RedisCache {
	return &RedisCache{client: client, ttls: ttls, log: log}
}

func sessionCustomerKey(sid string) string    { return fmt.Sprintf("sess:%s:customer", sid) }
func sessionRegularKey(sid string) string     { return fmt.Sprintf("sess:%s:regular_user", sid) }
func persistedCustomerKey(sid string) string  { return fmt.Sprintf("persist:%s:customer_id", sid) }
func persistedRegularKey(sid string) string   { return fmt.Sprintf("persist:%s:regular_user_id", sid) }

func (c *RedisCache) Customer(ctx context.Context, sessionID string) *accounts.CustomerRecord {
	var record accounts.CustomerRecord
	if !c.getJSON(ctx, sessionCustomerKey(sessionID), &record) {
		return nil
	}
	return &record
}

func (c *RedisCache) SetCustomer(ctx context.Context, sessionID string, record accounts.CustomerRecord) error {
	return c.setJSON(ctx, sessionCustomerKey(sessionID), record, c.ttls.Session)
}

func (c *RedisCache) RegularUser(ctx context.Context, sessionID string) *accounts.RegularUserRecord {
	var record accounts.RegularUserRecord
	if !c.getJSON(ctx, sessionRegularKey(sessionID), &record) {
		return nil
	}
	return &record
}

func (c *RedisCache) SetRegularUser(ctx context.Context, sessionID string, record accounts.RegularUserRecord) error {
	return c.setJSON(ctx, sessionRegularKey(sessionID), record, c.ttls.Session)
}

func (c *RedisCache) PersistedCustomerID(ctx context.Context, sessionID string) (uuid.UUID, bool) {
	return c.getID(ctx, persistedCustomerKey(sessionID))
}

func (c *RedisCache) SetPersistedCustomerID(ctx context.Context, sessionID string, id uuid.UUID) error {
	return c.client.Set(ctx, persistedCustomerKey(sessionID), id.String(), c.ttls.Persisted).Err()
}

func (c *RedisCache) DeletePersistedCustomerID(ctx context.Context, sessionID string) error {
	return c.client.Del(ctx, persistedCustomerKey(sessionID)).Err()
}

func (c *RedisCache) PersistedRegularUserID(ctx context.Context, sessionID string) (uuid.UUID, bool) {
	return c.getID(ctx, persistedRegularKey(sessionID))
}

func (c *RedisCache) SetPersistedRegularUserID(ctx context.Context, sessionID string, id uuid.UUID) error {
	return c.client.Set(ctx, persistedRegularKey(sessionID), id.String(), c.ttls.Persisted).Err()
}

func (c *RedisCache) DeletePersistedRegularUserID(ctx context.Context, sessionID string) error {
	return c.client.Del(ctx, persistedRegularKey(sessionID)).Err()
}

func (c *RedisCache) Clear(ctx context.Context, sessionID string) error {
	return c.client.Del(ctx,
		sessionCustomerKey(sessionID),
		sessionRegularKey(sessionID),
		persistedCustomerKey(sessionID),
		persistedRegularKey(sessionID),
	).Err()
}

func (c *RedisCache) getJSON(ctx context.Context, key string, out interface{}) bool {
	raw, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		c.log.StoreError("session_cache_get", key, err)
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		// Corrupt entry: treated as absent so resolution continues down
		// the precedence chain.
		c.log.StoreError("session_cache_decode", key, err)
		return false
	}
	return true
}

func (c *RedisCache) setJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, raw, ttl).Err()
}

func (c *RedisCache) getID(ctx context.Context, key string) (uuid.UUID, bool) {
	raw, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, false
	}
	if err != nil {
		c.log.StoreError("session_cache_get", key, err)
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		c.log.StoreError("session_cache_decode", key, err)
		return uuid.Nil, false
	}
	return id, true
}

var _ Cache = (*RedisCache)(nil)
