package stats

import (
	"context"
	"time"
)

type Service struct {
	repo  Repository
	cache *Cache
}

func NewService(repo Repository, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// Dashboard serves the aggregate snapshot, cached until TTL or the next
// version bump.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	key, err := s.cache.BuildKey(ctx, "stats", "dashboard")
	if err != nil {
		return nil, err
	}

	var d Dashboard
	err = s.cache.FetchJSON(ctx, key, &d, func(ctx context.Context) (interface{}, error) {
		return s.repo.Dashboard(ctx, time.Now())
	})
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Refresh drops all cached snapshots.
func (s *Service) Refresh(ctx context.Context) error {
	return s.cache.Bump(ctx)
}
