package store

import (
	"context"
	"testing"

	"ticketdesk_backend/platform/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, logger.New("development")), mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	st, _ := newTestRedisStore(t)
	ctx := context.Background()

	in := []Ticket{
		{ID: "t1", Title: "first", Company: "Nike", Status: StatusOpen},
		{ID: "t2", Title: "second", Company: "Adidas", Status: StatusDone},
	}
	if err := st.Set(ctx, DefaultKey, in); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := st.Get(ctx, DefaultKey)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got) != 2 || got[0].ID != "t1" || got[1].Status != StatusDone {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestRedisStoreMissingKeyIsEmpty(t *testing.T) {
	st, _ := newTestRedisStore(t)

	got, err := st.Get(context.Background(), "nothing-here")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty list for missing key, got %d", len(got))
	}
}

func TestRedisStoreCorruptPayloadTreatedAsEmpty(t *testing.T) {
	st, mr := newTestRedisStore(t)

	if err := mr.Set(redisKey(DefaultKey), "{not json"); err != nil {
		t.Fatalf("seed corrupt payload: %v", err)
	}

	got, err := st.Get(context.Background(), DefaultKey)
	if err != nil {
		t.Fatalf("corrupt payload must not surface an error, got %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty list for corrupt payload, got %d", len(got))
	}
}

func TestMemoryStoreCopiesOnReadAndWrite(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	in := []Ticket{{ID: "t1", Status: StatusOpen, History: []HistoryEntry{{ID: "h1"}}}}
	if err := st.Set(ctx, DefaultKey, in); err != nil {
		t.Fatalf("Set: %v", err)
	}
	in[0].History[0].ID = "mutated"

	got, err := st.Get(ctx, DefaultKey)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got[0].History[0].ID != "h1" {
		t.Fatal("store aliased the caller's slice")
	}

	got[0].ID = "also-mutated"
	again, _ := st.Get(ctx, DefaultKey)
	if again[0].ID != "t1" {
		t.Fatal("store returned an aliased slice")
	}
}
