// README: Most-recent-result slot, in Redis or in process memory.
package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const latestKeyPrefix = "analysis:latest:%s"

type RedisSlot struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewRedisSlot stores the latest record per client; a zero ttl keeps it until replaced.
func NewRedisSlot(redis *redis.Client, ttl time.Duration) *RedisSlot {
	return &RedisSlot{redis: redis, ttl: ttl}
}

func (s *RedisSlot) Set(ctx context.Context, rec Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	return s.redis.Set(ctx, latestKey(rec.ClientID), payload, s.ttl).Err()
}

func (s *RedisSlot) Get(ctx context.Context, clientID string) (*Record, error) {
	val, err := s.redis.Get(ctx, latestKey(clientID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal(val, &rec); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return &rec, nil
}

func latestKey(clientID string) string {
	return fmt.Sprintf(latestKeyPrefix, clientID)
}

// MemorySlot is the in-process LatestSlot used when Redis is not configured.
type MemorySlot struct {
	mu      sync.RWMutex
	records map[string]Record
}

func NewMemorySlot() *MemorySlot {
	return &MemorySlot{records: make(map[string]Record)}
}

func (s *MemorySlot) Set(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.ClientID] = rec
	return nil
}

func (s *MemorySlot) Get(_ context.Context, clientID string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[clientID]
	if !ok {
		return nil, ErrNotFound
	}
	return &rec, nil
}
