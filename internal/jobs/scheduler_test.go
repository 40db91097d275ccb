package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"io.winapps.casportfolio/internal/metrics"
	entrymodels "io.winapps.casportfolio/internal/models/entry"
	"io.winapps.casportfolio/internal/store"
)

type countingStore struct {
	store.Store
	mu    sync.Mutex
	lists []string
	err   error
}

func (c *countingStore) List(ctx context.Context, kind *entrymodels.Kind) ([]entrymodels.Entry, error) {
	c.mu.Lock()
	key := "all"
	if kind != nil {
		key = string(*kind)
	}
	c.lists = append(c.lists, key)
	c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	return c.Store.List(ctx, kind)
}

func TestNewSchedulerRegistersJobs(t *testing.T) {
	s, err := NewScheduler(store.NewMemory(), Config{SummarySpec: "5 0 * * *", CacheWarmSpec: "@every 10m", WarmCache: true}, zap.NewNop().Sugar())
	require.NoError(t, err)
	assert.Equal(t, 2, s.Jobs())

	s, err = NewScheduler(store.NewMemory(), Config{SummarySpec: "5 0 * * *", CacheWarmSpec: "@every 10m"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Jobs(), "cache warm needs a cache")
}

func TestNewSchedulerRejectsBadSpec(t *testing.T) {
	_, err := NewScheduler(store.NewMemory(), Config{SummarySpec: "every day"}, nil)
	assert.Error(t, err)

	_, err = NewScheduler(store.NewMemory(), Config{CacheWarmSpec: "@sometimes", WarmCache: true}, nil)
	assert.Error(t, err)
}

func TestSummaryPublishesGauges(t *testing.T) {
	mem := store.NewMemory()
	ctx := context.Background()
	now := time.Now()
	yesterday := now.AddDate(0, 0, -1)
	for _, d := range []*time.Time{nil, &yesterday} {
		_, err := mem.Create(ctx, entrymodels.NewEntry{Kind: entrymodels.KindService, Title: "t", Description: "d", EntryDate: d})
		require.NoError(t, err)
	}

	s, err := NewScheduler(mem, Config{Location: time.UTC, Goal: 4}, nil)
	require.NoError(t, err)
	s.now = func() time.Time { return now }

	summary, err := s.Summary(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 2, summary.Streak)
	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.StreakDays))
	assert.Equal(t, float64(summary.MonthCount), testutil.ToFloat64(metrics.MonthEntries))
}

func TestSummaryStoreFailure(t *testing.T) {
	s, err := NewScheduler(&countingStore{Store: store.NewMemory(), err: errors.New("down")}, Config{}, nil)
	require.NoError(t, err)

	_, err = s.Summary(context.Background())
	assert.Error(t, err)

	before := testutil.ToFloat64(metrics.JobRuns.WithLabelValues("daily_summary", "failure"))
	s.run("daily_summary", s.runSummary)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.JobRuns.WithLabelValues("daily_summary", "failure")))
}

func TestWarmCacheListsEveryStrand(t *testing.T) {
	cs := &countingStore{Store: store.NewMemory()}
	s, err := NewScheduler(cs, Config{}, nil)
	require.NoError(t, err)

	require.NoError(t, s.WarmCache(context.Background()))
	assert.Equal(t, []string{"all", "creativity", "activity", "service", "conversation"}, cs.lists)
}

func TestStartStop(t *testing.T) {
	s, err := NewScheduler(store.NewMemory(), Config{SummarySpec: "@every 1h"}, nil)
	require.NoError(t, err)

	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
