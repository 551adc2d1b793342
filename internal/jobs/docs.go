// Package jobs provides scheduled background tasks for the marketplace service.
//
// Jobs are cron-based (github.com/robfig/cron/v3, six-field expressions with
// seconds).
//
// # Available Jobs
//
// 1. ChannelSweepJob - removes store channel members whose connection closed
// without a clean disconnect. Fan-out prunes such members too; the sweep
// covers stores that see no events.
//
// 2. OutboxRelayJob - relays committed order events from the outbox table to
// Kafka, keyed by order id. Only created when KAFKA_HOST is set. Runs that
// would overlap a still running relay are skipped.
//
// # Usage
//
//	jobManager := jobs.NewJobManager(sweepJob, relayJob)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// - A failed relay leaves the rows pending; the next run retries them
// - Failed job starts will stop any already running jobs
package jobs
