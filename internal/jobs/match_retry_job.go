package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fulfillment/internal/core/application/matching"
	"fulfillment/internal/pkg/errs"

	"github.com/robfig/cron/v3"
)

const (
	DefaultMatchRetryInterval = 60 * time.Second
	MinMatchRetryInterval     = time.Second
)

// Sweeper runs one matching cycle over the pending set.
type Sweeper interface {
	RunCycle(ctx context.Context) (matching.CycleReport, error)
}

// MatchRetryJob drives the matching sweep on a fixed cadence.
// A cycle that is still running when the next tick fires is skipped.
type MatchRetryJob struct {
	sweeper  Sweeper
	interval time.Duration
	cron     *cron.Cron
	logger   *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// NewMatchRetryJob creates the sweep job. Intervals below one second are rejected.
func NewMatchRetryJob(sweeper Sweeper, interval time.Duration, logger *slog.Logger) (*MatchRetryJob, error) {
	if sweeper == nil {
		return nil, errs.NewValueIsRequiredError("sweeper")
	}
	if interval < MinMatchRetryInterval {
		return nil, errs.NewValueIsOutOfRangeError("interval", interval, MinMatchRetryInterval, "unbounded")
	}

	logger = logger.With("component", "match_retry_job")
	ctx, cancel := context.WithCancel(context.Background())
	return &MatchRetryJob{
		sweeper:  sweeper,
		interval: interval,
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

// Start schedules the sweep every interval.
func (j *MatchRetryJob) Start() error {
	_, err := j.cron.AddFunc(fmt.Sprintf("@every %s", j.interval), func() {
		j.RunOnce(j.ctx)
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Match retry job started", "interval", j.interval.String())
	return nil
}

// RunOnce executes a single sweep and logs its outcome.
func (j *MatchRetryJob) RunOnce(ctx context.Context) {
	report, err := j.sweeper.RunCycle(ctx)
	if err != nil {
		if ctx.Err() != nil {
			j.logger.InfoContext(context.Background(), "Match retry cycle interrupted", "remaining", report.Remaining)
			return
		}
		j.logger.ErrorContext(ctx, "Match retry cycle failed", "error", err)
		return
	}
	if report.Skipped {
		j.logger.DebugContext(ctx, "Match retry cycle skipped, previous cycle still running")
	}
}

// Stop cancels the running cycle, if any, and waits for it to return.
func (j *MatchRetryJob) Stop() {
	j.cancel()
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Match retry job stopped")
}
