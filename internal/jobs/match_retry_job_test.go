package jobs_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"fulfillment/internal/core/application/matching"
	"fulfillment/internal/jobs"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sweeperFunc func(ctx context.Context) (matching.CycleReport, error)

func (f sweeperFunc) RunCycle(ctx context.Context) (matching.CycleReport, error) {
	return f(ctx)
}

func TestNewMatchRetryJob(t *testing.T) {
	logger, _ := testutil.NewLogger()
	noop := sweeperFunc(func(context.Context) (matching.CycleReport, error) {
		return matching.CycleReport{}, nil
	})

	t.Run("should reject a missing sweeper", func(t *testing.T) {
		_, err := jobs.NewMatchRetryJob(nil, time.Second, logger)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should reject sub-second intervals", func(t *testing.T) {
		_, err := jobs.NewMatchRetryJob(noop, 500*time.Millisecond, logger)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("should accept the default interval", func(t *testing.T) {
		job, err := jobs.NewMatchRetryJob(noop, jobs.DefaultMatchRetryInterval, logger)
		require.NoError(t, err)
		assert.NotNil(t, job)
	})
}

func TestMatchRetryJob_RunsOnSchedule(t *testing.T) {
	logger, _ := testutil.NewLogger()
	var runs atomic.Int32
	job, err := jobs.NewMatchRetryJob(sweeperFunc(func(context.Context) (matching.CycleReport, error) {
		runs.Add(1)
		return matching.CycleReport{}, nil
	}), time.Second, logger)
	require.NoError(t, err)

	manager := jobs.NewJobManager(job)
	require.NoError(t, manager.StartAll())
	defer manager.StopAll()

	assert.Eventually(t, func() bool { return runs.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)
}

func TestMatchRetryJob_SkipsWhileCycleRuns(t *testing.T) {
	logger, _ := testutil.NewLogger()
	var runs atomic.Int32
	release := make(chan struct{})
	job, err := jobs.NewMatchRetryJob(sweeperFunc(func(ctx context.Context) (matching.CycleReport, error) {
		runs.Add(1)
		select {
		case <-release:
		case <-ctx.Done():
		}
		return matching.CycleReport{}, nil
	}), time.Second, logger)
	require.NoError(t, err)
	require.NoError(t, job.Start())

	require.Eventually(t, func() bool { return runs.Load() == 1 }, 3*time.Second, 50*time.Millisecond)
	time.Sleep(2500 * time.Millisecond)
	assert.Equal(t, int32(1), runs.Load())

	close(release)
	job.Stop()
}

func TestMatchRetryJob_StopCancelsRunningCycle(t *testing.T) {
	logger, _ := testutil.NewLogger()
	started := make(chan struct{})
	var once sync.Once
	var cancelled atomic.Bool
	job, err := jobs.NewMatchRetryJob(sweeperFunc(func(ctx context.Context) (matching.CycleReport, error) {
		once.Do(func() { close(started) })
		<-ctx.Done()
		cancelled.Store(true)
		return matching.CycleReport{Remaining: 2}, ctx.Err()
	}), time.Second, logger)
	require.NoError(t, err)
	require.NoError(t, job.Start())

	select {
	case <-started:
	case <-time.After(3 * time.Second):
		t.Fatal("cycle did not start")
	}
	job.Stop()

	assert.True(t, cancelled.Load())
}

func TestMatchRetryJob_RunOnce(t *testing.T) {
	t.Run("should log store failures as errors", func(t *testing.T) {
		logger, logs := testutil.NewLogger()
		job, err := jobs.NewMatchRetryJob(sweeperFunc(func(context.Context) (matching.CycleReport, error) {
			return matching.CycleReport{}, errors.New("connection refused")
		}), time.Second, logger)
		require.NoError(t, err)

		job.RunOnce(context.Background())

		assert.True(t, logs.Contains("level=ERROR", "Match retry cycle failed", "connection refused"))
	})

	t.Run("should not log an error for a skipped cycle", func(t *testing.T) {
		logger, logs := testutil.NewLogger()
		job, err := jobs.NewMatchRetryJob(sweeperFunc(func(context.Context) (matching.CycleReport, error) {
			return matching.CycleReport{Skipped: true}, nil
		}), time.Second, logger)
		require.NoError(t, err)

		job.RunOnce(context.Background())

		assert.False(t, logs.Contains("level=ERROR"))
	})
}

type stubJob struct {
	name   string
	err    error
	events *[]string
}

func (j stubJob) Start() error {
	if j.err != nil {
		return j.err
	}
	*j.events = append(*j.events, "start "+j.name)
	return nil
}

func (j stubJob) Stop() {
	*j.events = append(*j.events, "stop "+j.name)
}

func TestJobManager(t *testing.T) {
	t.Run("should stop jobs in reverse order", func(t *testing.T) {
		var events []string
		manager := jobs.NewJobManager(stubJob{name: "a", events: &events}, stubJob{name: "b", events: &events})

		require.NoError(t, manager.StartAll())
		manager.StopAll()

		assert.Equal(t, []string{"start a", "start b", "stop b", "stop a"}, events)
	})

	t.Run("should stop started jobs when one fails", func(t *testing.T) {
		var events []string
		manager := jobs.NewJobManager(
			stubJob{name: "a", events: &events},
			stubJob{name: "b", err: errors.New("bad schedule"), events: &events},
		)

		err := manager.StartAll()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad schedule")
		assert.Equal(t, []string{"start a", "stop a"}, events)
	})
}
