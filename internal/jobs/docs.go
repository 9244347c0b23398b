// Package jobs provides scheduled background tasks for the ordering system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required for the ordering service.
//
// # Available Jobs
//
// 1. SubscriptionTerminationJob - Runs hourly to cancel subscription orders whose validity period has ended
// 2. ItemCleanupJob - Runs hourly to revoke access to order items whose download window has expired
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(terminateSubscriptionsHandler, cleanExpiredItemsHandler, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Scheduling
//
// The termination job runs at the top of every hour and the cleanup job at
// half past, keeping the two database sweeps apart. Both sweeps are
// idempotent, so a missed or repeated run is harmless.
//
// # Error Handling
//
// - Both jobs log errors and keep their schedule; the next run retries the sweep
// - Failed job starts will stop any already running jobs
package jobs
