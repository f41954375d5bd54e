package service

import (
	"context"

	"transit/internal/domain"
	"transit/internal/repository"
)

// StatsCache caches computed driver statistics. Implemented by the redis
// cache store; nil disables caching.
type StatsCache interface {
	GetDriverStats(ctx context.Context, driverID string) (*domain.DriverStats, error)
	SetDriverStats(ctx context.Context, stats *domain.DriverStats) error
	GetRanking(ctx context.Context) ([]*domain.RankingEntry, error)
	SetRanking(ctx context.Context, entries []*domain.RankingEntry) error
}

// StatsService computes driver statistics and the union leaderboard.
// Aggregates are derived in-process from the rating and trip tables.
type StatsService struct {
	ratingRepo repository.RatingRepository
	tripRepo   repository.TripRepository
	cache      StatsCache
}

// NewStatsService creates a new StatsService.
func NewStatsService(ratingRepo repository.RatingRepository, tripRepo repository.TripRepository, cache StatsCache) *StatsService {
	return &StatsService{
		ratingRepo: ratingRepo,
		tripRepo:   tripRepo,
		cache:      cache,
	}
}

// DriverStats computes a driver's aggregate statistics, using the cache
// when available.
func (s *StatsService) DriverStats(ctx context.Context, driverID string) (*domain.DriverStats, error) {
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}

	if s.cache != nil {
		cached, err := s.cache.GetDriverStats(ctx, driverID)
		if err == nil && cached != nil {
			return cached, nil
		}
	}

	stats, err := s.ratingRepo.Aggregate(ctx, driverID)
	if err != nil {
		return nil, err
	}

	trips, err := s.tripRepo.CountCompletedByDriver(ctx, driverID)
	if err != nil {
		return nil, err
	}
	stats.TripsCompleted = trips

	if s.cache != nil {
		_ = s.cache.SetDriverStats(ctx, stats)
	}

	return stats, nil
}

// defaultRankingLimit bounds the leaderboard size.
const defaultRankingLimit = 10

// Ranking retrieves the top drivers, using the cache when available.
func (s *StatsService) Ranking(ctx context.Context, limit int) ([]*domain.RankingEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = defaultRankingLimit
	}

	if s.cache != nil && limit == defaultRankingLimit {
		cached, err := s.cache.GetRanking(ctx)
		if err == nil && cached != nil {
			return cached, nil
		}
	}

	entries, err := s.ratingRepo.Ranking(ctx, limit)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && limit == defaultRankingLimit {
		_ = s.cache.SetRanking(ctx, entries)
	}

	return entries, nil
}
