package cartstore

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type fakeSnapshotKV struct {
	data map[string]string
	ttls map[string]time.Duration
}

func newFakeSnapshotKV() *fakeSnapshotKV {
	return &fakeSnapshotKV{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeSnapshotKV) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	f.data[key] = value.(string)
	f.ttls[key] = ttl
	return nil
}

func (f *fakeSnapshotKV) Get(_ context.Context, key string) (string, error) {
	raw, ok := f.data[key]
	if !ok {
		return "", redis.Nil
	}
	return raw, nil
}

func (f *fakeSnapshotKV) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

func (f *fakeSnapshotKV) SnapshotKey(sessionID string) string {
	return "gh:snapshot:" + sessionID
}

func TestRedisPersistenceRoundTrip(t *testing.T) {
	kv := newFakeSnapshotKV()
	persist, err := NewRedisPersistence(kv, "session-1")
	if err != nil {
		t.Fatalf("new persistence: %v", err)
	}

	payload := []byte(`{"id":"cart-1"}`)
	if err := persist.SaveSnapshot(context.Background(), payload); err != nil {
		t.Fatalf("save: %v", err)
	}
	if kv.ttls["gh:snapshot:session-1"] != snapshotTTL {
		t.Fatalf("expected snapshot ttl, got %v", kv.ttls["gh:snapshot:session-1"])
	}

	loaded, err := persist.LoadSnapshot(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(loaded) != string(payload) {
		t.Fatalf("expected %s, got %s", payload, loaded)
	}

	if err := persist.ClearSnapshot(context.Background()); err != nil {
		t.Fatalf("clear: %v", err)
	}
	loaded, err = persist.LoadSnapshot(context.Background())
	if err != nil || loaded != nil {
		t.Fatalf("expected empty hint after clear, got %s err %v", loaded, err)
	}
}

func TestRedisPersistenceMissingKeyIsNoHint(t *testing.T) {
	persist, err := NewRedisPersistence(newFakeSnapshotKV(), "session-2")
	if err != nil {
		t.Fatalf("new persistence: %v", err)
	}

	loaded, err := persist.LoadSnapshot(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded != nil {
		t.Fatalf("expected nil hint, got %s", loaded)
	}
}

func TestNewRedisPersistenceValidation(t *testing.T) {
	if _, err := NewRedisPersistence(nil, "session-1"); err == nil {
		t.Fatal("expected error for nil kv")
	}
	if _, err := NewRedisPersistence(newFakeSnapshotKV(), ""); err == nil {
		t.Fatal("expected error for empty session id")
	}
}
