package analytics

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Variant is one of the two experiment buckets controlling marketing copy.
type Variant string

const (
	VariantA Variant = "A"
	VariantB Variant = "B"
)

// VariantStore assigns and persists a visitor's A/B bucket. Assignment is
// uniformly random on first read and stable afterwards.
type VariantStore interface {
	Assign(ctx context.Context, visitorID string) (Variant, error)
}

func randomVariant() Variant {
	if rand.IntN(2) == 0 {
		return VariantA
	}
	return VariantB
}

func variantKey(visitorID string) string {
	return "ab_variant:" + visitorID
}

// RedisVariantStore persists variants in Redis with no expiry.
type RedisVariantStore struct {
	redis *redis.Client
}

// NewRedisVariantStore creates a Redis-backed variant store.
func NewRedisVariantStore(client *redis.Client) *RedisVariantStore {
	if client == nil {
		panic("analytics: redis client cannot be nil")
	}
	return &RedisVariantStore{redis: client}
}

// Assign returns the stored variant, writing a fresh random one only if the
// key does not exist yet. SetNX keeps concurrent first reads consistent.
func (s *RedisVariantStore) Assign(ctx context.Context, visitorID string) (Variant, error) {
	key := variantKey(visitorID)

	candidate := randomVariant()
	if err := s.redis.SetNX(ctx, key, string(candidate), 0).Err(); err != nil {
		return "", fmt.Errorf("analytics: failed to assign variant: %w", err)
	}

	stored, err := s.redis.Get(ctx, key).Result()
	if err != nil {
		return "", fmt.Errorf("analytics: failed to read variant: %w", err)
	}

	switch Variant(stored) {
	case VariantA, VariantB:
		return Variant(stored), nil
	default:
		// Corrupt value: fall back to A rather than failing the event.
		return VariantA, nil
	}
}

// MemoryVariantStore keeps assignments in-process. Used in development and
// tests when Redis is not configured.
type MemoryVariantStore struct {
	mu       sync.Mutex
	variants map[string]Variant
}

// NewMemoryVariantStore creates an in-memory variant store.
func NewMemoryVariantStore() *MemoryVariantStore {
	return &MemoryVariantStore{variants: make(map[string]Variant)}
}

func (s *MemoryVariantStore) Assign(_ context.Context, visitorID string) (Variant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.variants[visitorID]; ok {
		return v, nil
	}
	v := randomVariant()
	s.variants[visitorID] = v
	return v, nil
}
