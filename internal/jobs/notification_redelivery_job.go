package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fulfillment/internal/pkg/errs"

	"github.com/robfig/cron/v3"
)

// Redeliverer retries notifications whose first write failed.
type Redeliverer interface {
	Redeliver(ctx context.Context) (delivered, remaining int)
}

// NotificationRedeliveryJob drains the notification backlog on a fixed cadence.
type NotificationRedeliveryJob struct {
	redeliverer Redeliverer
	interval    time.Duration
	cron        *cron.Cron
	logger      *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// NewNotificationRedeliveryJob creates the redelivery job. Intervals below one
// second are rejected.
func NewNotificationRedeliveryJob(redeliverer Redeliverer, interval time.Duration, logger *slog.Logger) (*NotificationRedeliveryJob, error) {
	if redeliverer == nil {
		return nil, errs.NewValueIsRequiredError("redeliverer")
	}
	if interval < MinMatchRetryInterval {
		return nil, errs.NewValueIsOutOfRangeError("interval", interval, MinMatchRetryInterval, "unbounded")
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &NotificationRedeliveryJob{
		redeliverer: redeliverer,
		interval:    interval,
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		logger: logger.With("component", "notification_redelivery_job"),
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

func (j *NotificationRedeliveryJob) Start() error {
	_, err := j.cron.AddFunc(fmt.Sprintf("@every %s", j.interval), func() {
		j.RunOnce(j.ctx)
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Notification redelivery job started", "interval", j.interval.String())
	return nil
}

// RunOnce retries the backlog once.
func (j *NotificationRedeliveryJob) RunOnce(ctx context.Context) {
	delivered, remaining := j.redeliverer.Redeliver(ctx)
	if remaining > 0 {
		j.logger.WarnContext(ctx, "Notifications still awaiting redelivery", "delivered", delivered, "remaining", remaining)
	}
}

func (j *NotificationRedeliveryJob) Stop() {
	j.cancel()
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Notification redelivery job stopped")
}
