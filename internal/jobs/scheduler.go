// Package jobs runs the periodic background work: the daily progress summary
// and refilling the entry list cache.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"io.winapps.casportfolio/internal/dashboard"
	"io.winapps.casportfolio/internal/metrics"
	entrymodels "io.winapps.casportfolio/internal/models/entry"
	"io.winapps.casportfolio/internal/store"
)

const jobTimeout = time.Minute

type Config struct {
	SummarySpec   string
	CacheWarmSpec string
	// WarmCache is only worth scheduling when a list cache sits in front of the store
	WarmCache bool
	Location  *time.Location
	Goal      int
}

type Scheduler struct {
	cron   *cron.Cron
	store  store.Store
	cfg    Config
	now    func() time.Time
	logger *zap.SugaredLogger
}

// NewScheduler registers the jobs without starting them
func NewScheduler(s store.Store, cfg Config, logger *zap.SugaredLogger) (*Scheduler, error) {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	cl := cronLogger{logger}
	sch := &Scheduler{
		cron: cron.New(
			cron.WithLocation(cfg.Location),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
			cron.WithLogger(cl),
		),
		store:  s,
		cfg:    cfg,
		now:    time.Now,
		logger: logger,
	}

	if cfg.SummarySpec != "" {
		if _, err := sch.cron.AddFunc(cfg.SummarySpec, func() { sch.run("daily_summary", sch.runSummary) }); err != nil {
			return nil, fmt.Errorf("invalid SUMMARY_CRON %q: %w", cfg.SummarySpec, err)
		}
	}
	if cfg.WarmCache && cfg.CacheWarmSpec != "" {
		if _, err := sch.cron.AddFunc(cfg.CacheWarmSpec, func() { sch.run("cache_warm", sch.WarmCache) }); err != nil {
			return nil, fmt.Errorf("invalid CACHE_WARM_CRON %q: %w", cfg.CacheWarmSpec, err)
		}
	}
	return sch, nil
}

// Start runs the scheduler in its own goroutine
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop prevents new runs and waits for running jobs or ctx, whichever ends first
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.logger.Warnw("scheduled jobs still running at shutdown")
	}
}

// Jobs reports how many jobs are registered
func (s *Scheduler) Jobs() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) run(name string, job func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	start := time.Now()
	if err := job(ctx); err != nil {
		metrics.JobRuns.WithLabelValues(name, "failure").Inc()
		s.logger.Errorw("scheduled job failed", "job", name, "error", err, "duration_ms", time.Since(start).Milliseconds())
		return
	}
	metrics.JobRuns.WithLabelValues(name, "success").Inc()
	s.logger.Debugw("scheduled job finished", "job", name, "duration_ms", time.Since(start).Milliseconds())
}

func (s *Scheduler) runSummary(ctx context.Context) error {
	_, err := s.Summary(ctx)
	return err
}

// Summary computes the current progress, publishes it as gauges and logs it
func (s *Scheduler) Summary(ctx context.Context) (dashboard.Summary, error) {
	entries, err := s.store.List(ctx, nil)
	if err != nil {
		return dashboard.Summary{}, fmt.Errorf("failed to list entries: %w", err)
	}

	summary := dashboard.Summarize(entries, s.now(), s.cfg.Location, dashboard.Filter{}, s.cfg.Goal)
	metrics.StreakDays.Set(float64(summary.Streak))
	metrics.MonthEntries.Set(float64(summary.MonthCount))

	fields := []interface{}{
		"total", summary.Total,
		"month_count", summary.MonthCount,
		"goal", summary.Goal,
		"goal_percent", summary.GoalPercent,
		"streak_days", summary.Streak,
	}
	for _, k := range entrymodels.Kinds {
		fields = append(fields, "count_"+string(k), summary.Counts[k])
	}
	s.logger.Infow("daily summary", fields...)
	return summary, nil
}

// WarmCache lists every strand and the full list so the cache is filled
func (s *Scheduler) WarmCache(ctx context.Context) error {
	if _, err := s.store.List(ctx, nil); err != nil {
		return fmt.Errorf("failed to warm entry list: %w", err)
	}
	for _, k := range entrymodels.Kinds {
		if _, err := s.store.List(ctx, &k); err != nil {
			return fmt.Errorf("failed to warm %s list: %w", k, err)
		}
	}
	return nil
}

// cronLogger adapts zap to cron.Logger
type cronLogger struct {
	logger *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debugw("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Errorw("cron: "+msg, append(keysAndValues, "error", err)...)
}
