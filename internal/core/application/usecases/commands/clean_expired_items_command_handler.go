package commands

import (
	"context"
	"time"

	"ordering/internal/core/ports"
)

// CleanExpiredItemsCommandHandler reclaims the storage behind items
// whose availability window has passed. Each reclaimed item is marked
// unavailable so result access stops reporting it.
type CleanExpiredItemsCommandHandler struct {
	uowFactory UoWFactory
	processor  ports.ItemProcessor
}

// NewCleanExpiredItemsCommandHandler creates a handler for item cleanup
// sweeps.
func NewCleanExpiredItemsCommandHandler(uowFactory UoWFactory,
	processor ports.ItemProcessor) CleanExpiredItemsCommandHandler {
	return CleanExpiredItemsCommandHandler{
		uowFactory: uowFactory,
		processor:  processor,
	}
}

// Handle processes the cleanup sweep.
// An item whose file removal fails is skipped and picked up again on
// the next sweep; the remaining items are still processed.
func (h *CleanExpiredItemsCommandHandler) Handle(ctx context.Context,
	cmd CleanExpiredItemsCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	batchRepo := uow.BatchRepository()
	expired, err := batchRepo.GetExpiredItems(ctx, time.Now().UTC())
	if err != nil {
		return err
	}

	for _, item := range expired {
		if cleanErr := h.processor.CleanItem(ctx, item.URL()); cleanErr != nil {
			continue
		}
		item.Expire()
		if err = batchRepo.UpdateItem(ctx, item); err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
