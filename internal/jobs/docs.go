// Package jobs provides scheduled background tasks for the fulfillment service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// MatchRetryJob runs the matching engine sweep over pending match requests,
// by default every 60 seconds.
//
// NotificationRedeliveryJob stores notifications whose first write failed,
// on the same cadence.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	retry, err := jobs.NewMatchRetryJob(engine, cfg.MatchRetryInterval, logger)
//	if err != nil {
//		return err
//	}
//	jobManager := jobs.NewJobManager(retry)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Cycles never overlap: the cron chain skips a tick while the previous cycle
// runs, and the engine itself refuses a second concurrent cycle.
//
// # Error Handling
//
// - An empty courier pool is an expected outcome and is not logged as an error
// - Store failures during a cycle are logged; the affected requests stay pending
// - Failed job starts will stop any already running jobs
package jobs
