package jobs

import (
	"context"
	"log/slog"

	"ordering/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// SubscriptionTerminationJob terminates subscription orders whose
// validity period has ended. Runs hourly; termination is idempotent so
// a missed run is caught up by the next one.
type SubscriptionTerminationJob struct {
	handler commands.TerminateSubscriptionsCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewSubscriptionTerminationJob creates a job for terminating expired
// subscriptions.
func NewSubscriptionTerminationJob(handler commands.TerminateSubscriptionsCommandHandler,
	logger *slog.Logger) *SubscriptionTerminationJob {
	return &SubscriptionTerminationJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "subscription_termination_job"),
	}
}

// Start begins the subscription termination job to run at the top of
// every hour.
func (j *SubscriptionTerminationJob) Start() error {
	_, err := j.cron.AddFunc("0 0 * * * *", func() {
		ctx := context.Background()
		cmd := commands.NewTerminateSubscriptionsCommand()

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Subscription termination job failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Subscription termination job started (running hourly)")
	return nil
}

// Stop stops the subscription termination job.
func (j *SubscriptionTerminationJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Subscription termination job stopped")
}
