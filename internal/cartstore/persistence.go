package cartstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// snapshotTTL bounds how long a stale hint survives an abandoned session.
const snapshotTTL = 7 * 24 * time.Hour

// SnapshotKV is the subset of the redis client the persistence adapter uses.
type SnapshotKV interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	SnapshotKey(sessionID string) string
}

// RedisPersistence stores the session's cart snapshot hint as a single JSON
// blob in redis, keyed by session id. A missing key reads as no hint.
type RedisPersistence struct {
	kv        SnapshotKV
	sessionID string
}

var _ SnapshotPersistence = (*RedisPersistence)(nil)

// NewRedisPersistence builds a persistence adapter scoped to one session.
func NewRedisPersistence(kv SnapshotKV, sessionID string) (*RedisPersistence, error) {
	if kv == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if sessionID == "" {
		return nil, fmt.Errorf("session id required")
	}
	return &RedisPersistence{kv: kv, sessionID: sessionID}, nil
}

func (p *RedisPersistence) SaveSnapshot(ctx context.Context, data []byte) error {
	return p.kv.Set(ctx, p.kv.SnapshotKey(p.sessionID), string(data), snapshotTTL)
}

func (p *RedisPersistence) LoadSnapshot(ctx context.Context) ([]byte, error) {
	raw, err := p.kv.Get(ctx, p.kv.SnapshotKey(p.sessionID))
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []byte(raw), nil
}

func (p *RedisPersistence) ClearSnapshot(ctx context.Context) error {
	return p.kv.Del(ctx, p.kv.SnapshotKey(p.sessionID))
}
