package jobs

import (
	"context"
	"log/slog"

	"ordering/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// ItemCleanupJob expires order items whose produced files passed their
// retention period, deleting the files and withdrawing the download
// URLs. Runs half past every hour, offset from the subscription
// termination job.
type ItemCleanupJob struct {
	handler commands.CleanExpiredItemsCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewItemCleanupJob creates a job for cleaning up expired items.
func NewItemCleanupJob(handler commands.CleanExpiredItemsCommandHandler,
	logger *slog.Logger) *ItemCleanupJob {
	return &ItemCleanupJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "item_cleanup_job"),
	}
}

// Start begins the item cleanup job to run half past every hour.
func (j *ItemCleanupJob) Start() error {
	_, err := j.cron.AddFunc("0 30 * * * *", func() {
		ctx := context.Background()
		cmd := commands.NewCleanExpiredItemsCommand()

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Item cleanup job failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Item cleanup job started (running hourly)")
	return nil
}

// Stop stops the item cleanup job.
func (j *ItemCleanupJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Item cleanup job stopped")
}
