package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"transit/internal/domain"
)

// CacheStore caches computed driver statistics in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// Cache TTL constants
const (
	StatsCacheTTL   = 60 * time.Second // per-driver aggregates
	RankingCacheTTL = 5 * time.Minute  // leaderboard changes slowly
)

// Key prefixes
const (
	statsCachePrefix = "cache:stats:"
	rankingCacheKey  = "cache:ranking"
)

// GetDriverStats retrieves cached stats for a driver. A cache miss
// returns nil, nil.
func (s *CacheStore) GetDriverStats(ctx context.Context, driverID string) (*domain.DriverStats, error) {
	data, err := s.client.Get(ctx, statsCachePrefix+driverID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var stats domain.DriverStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// SetDriverStats stores a driver's stats in cache.
func (s *CacheStore) SetDriverStats(ctx context.Context, stats *domain.DriverStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, statsCachePrefix+stats.DriverID, data, StatsCacheTTL).Err()
}

// InvalidateDriverStats removes a driver's cached stats.
func (s *CacheStore) InvalidateDriverStats(ctx context.Context, driverID string) error {
	return s.client.Del(ctx, statsCachePrefix+driverID).Err()
}

// GetRanking retrieves the cached leaderboard. A cache miss returns nil, nil.
func (s *CacheStore) GetRanking(ctx context.Context) ([]*domain.RankingEntry, error) {
	data, err := s.client.Get(ctx, rankingCacheKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var entries []*domain.RankingEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// SetRanking stores the leaderboard in cache.
func (s *CacheStore) SetRanking(ctx context.Context, entries []*domain.RankingEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, rankingCacheKey, data, RankingCacheTTL).Err()
}
