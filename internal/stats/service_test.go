package stats

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	dashboard Dashboard
	calls     int
}

func (m *mockRepo) Dashboard(ctx context.Context, now time.Time) (*Dashboard, error) {
	m.calls++
	out := m.dashboard
	return &out, nil
}

func newTestService(t *testing.T, repo Repository) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewService(repo, NewCache(client, time.Minute))
}

func TestDashboardCaches(t *testing.T) {
	repo := &mockRepo{dashboard: Dashboard{
		CustomersByStage:   map[string]int{"WARM": 3, "BOOKED": 1},
		QuotationsByStatus: map[string]int{"SENT": 2},
		OrdersByStatus:     map[string]int{"PENDING": 1},
		QuotationPipeline:  25000,
		OutstandingAmount:  8000,
		ReceivedThisMonth:  12000,
		DueFollowUps:       4,
	}}
	svc := newTestService(t, repo)
	ctx := context.Background()

	first, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.calls)
	assert.Equal(t, 3, first.CustomersByStage["WARM"])
	assert.InDelta(t, 25000.0, first.QuotationPipeline, 1e-9)

	second, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.calls, "second read must hit the cache")
	assert.Equal(t, first, second)
}

func TestRefreshInvalidates(t *testing.T) {
	repo := &mockRepo{dashboard: Dashboard{DueFollowUps: 1}}
	svc := newTestService(t, repo)
	ctx := context.Background()

	_, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, repo.calls)

	repo.dashboard.DueFollowUps = 9
	require.NoError(t, svc.Refresh(ctx))

	d, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls)
	assert.Equal(t, 9, d.DueFollowUps)
}

func TestDashboardWithoutRedis(t *testing.T) {
	repo := &mockRepo{dashboard: Dashboard{DueFollowUps: 2}}
	svc := NewService(repo, NewCache(nil, time.Minute))

	d, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, d.DueFollowUps)

	_, err = svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls, "nil cache degrades to loader-only")
}
