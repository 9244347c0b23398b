package jobs

import (
	"fmt"
	"log/slog"

	"ordering/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	subscriptionTerminationJob *SubscriptionTerminationJob
	itemCleanupJob             *ItemCleanupJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes command handlers as dependencies to wire up the job execution.
func NewJobManager(
	terminateSubscriptionsHandler commands.TerminateSubscriptionsCommandHandler,
	cleanExpiredItemsHandler commands.CleanExpiredItemsCommandHandler,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		subscriptionTerminationJob: NewSubscriptionTerminationJob(terminateSubscriptionsHandler, logger),
		itemCleanupJob:             NewItemCleanupJob(cleanExpiredItemsHandler, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.subscriptionTerminationJob.Start(); err != nil {
		return fmt.Errorf("failed to start subscription termination job: %w", err)
	}

	if err := jm.itemCleanupJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.subscriptionTerminationJob.Stop()
		return fmt.Errorf("failed to start item cleanup job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.itemCleanupJob.Stop()
	jm.subscriptionTerminationJob.Stop()
}
