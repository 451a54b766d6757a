package access

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// ReplayGuard tracks consumed token signatures for the freshness window,
// making tokens truly single-use. The freshness check alone only bounds
// the replay window; the guard closes it.
type ReplayGuard interface {
	// MarkUsed records the signature and reports whether this was its
	// first use.
	MarkUsed(ctx context.Context, signature string) (bool, error)
}

// RedisReplayGuard backs the guard with Redis SET NX + TTL, so multiple
// service instances share one view of consumed tokens.
type RedisReplayGuard struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

func NewRedisReplayGuard(client *redis.Client) *RedisReplayGuard {
	// Keep entries a little past the freshness window; a token that old
	// fails verification anyway, so the guard no longer needs it.
	return &RedisReplayGuard{client: client, keyPrefix: "roomgate:token:", ttl: FreshnessWindow + maxClockSkew}
}

func (g *RedisReplayGuard) MarkUsed(ctx context.Context, signature string) (bool, error) {
	first, err := g.client.SetNX(ctx, g.keyPrefix+signature, "1", g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis: mark token used: %w", err)
	}
	return first, nil
}

// MemoryReplayGuard is the in-process implementation for tests and
// single-node dev runs.
type MemoryReplayGuard struct {
	mu   sync.Mutex
	seen map[string]time.Time
	ttl  time.Duration
	now  func() time.Time
}

func NewMemoryReplayGuard() *MemoryReplayGuard {
	return &MemoryReplayGuard{
		seen: make(map[string]time.Time),
		ttl:  FreshnessWindow + maxClockSkew,
		now:  time.Now,
	}
}

func (g *MemoryReplayGuard) MarkUsed(_ context.Context, signature string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	for sig, exp := range g.seen {
		if exp.Before(now) {
			delete(g.seen, sig)
		}
	}

	if _, ok := g.seen[signature]; ok {
		return false, nil
	}
	g.seen[signature] = now.Add(g.ttl)
	return true, nil
}
