package jobs

import (
	"context"
	"sort"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
	"realestate.backend/pkg/logger"
	"realestate.backend/pkg/metrics"
)

// TokenPurger deletes expired single-use tokens
type TokenPurger interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// TokenCleanupJob periodically purges expired verification and reset tokens
type TokenCleanupJob struct {
	purgers   map[string]TokenPurger
	interval  time.Duration
	scheduler *gocron.Scheduler
}

// NewTokenCleanupJob creates the job. purgers is keyed by token kind.
func NewTokenCleanupJob(purgers map[string]TokenPurger, interval time.Duration) *TokenCleanupJob {
	if interval <= 0 {
		interval = time.Hour
	}
	return &TokenCleanupJob{
		purgers:   purgers,
		interval:  interval,
		scheduler: gocron.NewScheduler(time.UTC),
	}
}

// Start schedules the purge and runs it once immediately
func (j *TokenCleanupJob) Start(ctx context.Context) error {
	logger.Info(ctx, "Starting token cleanup job", zap.Duration("interval", j.interval))

	j.scheduler.SingletonModeAll()
	if _, err := j.scheduler.Every(j.interval).Do(func() {
		j.purge(ctx)
	}); err != nil {
		return err
	}
	j.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler
func (j *TokenCleanupJob) Stop() {
	j.scheduler.Stop()
	logger.Info(context.Background(), "Token cleanup job stopped")
}

func (j *TokenCleanupJob) purge(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	kinds := make([]string, 0, len(j.purgers))
	for kind := range j.purgers {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)

	for _, kind := range kinds {
		n, err := j.purgers[kind].DeleteExpired(ctx)
		if err != nil {
			logger.Error(ctx, "Failed to purge expired tokens", zap.String("kind", kind), zap.Error(err))
			continue
		}
		if n == 0 {
			continue
		}
		metrics.TokensPurged.WithLabelValues(kind).Add(float64(n))
		logger.Info(ctx, "Purged expired tokens", zap.String("kind", kind), zap.Int64("count", n))
	}
}
