package batchrepo

import (
	"context"
	"errors"
	"time"

	"ordering/internal/core/domain/model/batch"
	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBatchRepository implements BatchRepository using GORM.
type GormBatchRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormBatchRepository creates a new GORM batch repository.
func NewGormBatchRepository(db *gorm.DB, tracker aggregateTracker) *GormBatchRepository {
	return &GormBatchRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new batch to the database together with its items.
func (r *GormBatchRepository) Add(ctx context.Context, aggregate *batch.Batch) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing batch and upserts its items. All columns are
// written, including cleared ones, so status rollovers and force-
// recreated subscription items persist correctly.
func (r *GormBatchRepository) Update(ctx context.Context, aggregate *batch.Batch) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&BatchDTO{}).
		Where("id = ?", dto.ID).
		Select("*").Omit("Items").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	if len(dto.Items) > 0 {
		err := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{UpdateAll: true}).
			Create(&dto.Items).Error
		if err != nil {
			return err
		}
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a batch by ID, items included.
func (r *GormBatchRepository) Get(ctx context.Context, id kernel.UUID) (*batch.Batch, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return r.first(ctx, r.db, id.Bytes())
}

// GetByItem retrieves the batch holding the given order item and
// row-locks the batch for the duration of the surrounding transaction.
// Concurrent completions of sibling items serialize on this lock.
func (r *GormBatchRepository) GetByItem(ctx context.Context, orderItemID kernel.UUID) (*batch.Batch, error) {
	if err := orderItemID.Validate(); err != nil {
		return nil, err
	}

	var itemDTO OrderItemDTO
	err := r.db.WithContext(ctx).First(&itemDTO, "id = ?", orderItemID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("orderItemId", orderItemID.String())
		}
		return nil, err
	}

	return r.first(ctx, r.db.Clauses(clause.Locking{Strength: "UPDATE"}), itemDTO.BatchID)
}

// GetByOrder retrieves all batches of an order ordered by their index,
// items included.
func (r *GormBatchRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) ([]*batch.Batch, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []BatchDTO
	err := r.db.WithContext(ctx).Preload("Items").
		Where("order_id = ?", orderID.Bytes()).
		Order("batch_index, created_on").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	batches := make([]*batch.Batch, 0, len(dtos))
	for _, dto := range dtos {
		b, toErr := toDomain(dto)
		if toErr != nil {
			return nil, toErr
		}
		batches = append(batches, b)
	}
	return batches, nil
}

// GetSubscriptionBatch retrieves the batch materializing the given
// timeslot of a subscription order for one collection.
func (r *GormBatchRepository) GetSubscriptionBatch(ctx context.Context, orderID kernel.UUID,
	timeslot time.Time, collection string) (*batch.Batch, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dto BatchDTO
	err := r.db.WithContext(ctx).Preload("Items").
		Where("order_id = ? AND timeslot = ? AND collection = ?",
			orderID.Bytes(), timeslot.UTC(), collection).
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("timeslot", timeslot.UTC().Format(time.RFC3339))
		}
		return nil, err
	}

	return toDomain(dto)
}

// DeleteByOrder removes all batches of an order. Item rows go with
// their batch through the cascade constraint.
func (r *GormBatchRepository) DeleteByOrder(ctx context.Context, orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Delete(&BatchDTO{}, "order_id = ?", orderID.Bytes()).Error
}

// DeleteItems removes the items of a batch, keeping the batch row.
func (r *GormBatchRepository) DeleteItems(ctx context.Context, batchID kernel.UUID) error {
	if err := batchID.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Delete(&OrderItemDTO{}, "batch_id = ?", batchID.Bytes()).Error
}

// GetExpiredItems retrieves items whose produced files passed their
// retention period and are still marked available.
func (r *GormBatchRepository) GetExpiredItems(ctx context.Context, now time.Time) ([]*batch.OrderItem, error) {
	var dtos []OrderItemDTO
	err := r.db.WithContext(ctx).
		Where("available = ? AND expires_on IS NOT NULL AND expires_on < ?", true, now).
		Order("expires_on").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	items := make([]*batch.OrderItem, 0, len(dtos))
	for _, dto := range dtos {
		item, toErr := itemToDomain(dto)
		if toErr != nil {
			return nil, toErr
		}
		items = append(items, item)
	}
	return items, nil
}

// UpdateItem persists changes to a single order item outside of a full
// batch update.
func (r *GormBatchRepository) UpdateItem(ctx context.Context, item *batch.OrderItem) error {
	if err := item.Validate(); err != nil {
		return err
	}

	var existing OrderItemDTO
	err := r.db.WithContext(ctx).First(&existing, "id = ?", item.ID().Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NewObjectNotFoundError("orderItemId", item.ID().String())
		}
		return err
	}

	batchID, err := kernel.UUIDFromBytes(existing.BatchID[:])
	if err != nil {
		return err
	}

	dto := itemFromDomain(batchID, item)
	return r.db.WithContext(ctx).Model(&OrderItemDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Updates(&dto).Error
}

// CountActiveItemsByUser counts the order items of a user that are not
// yet terminal. Used to enforce the active items quota at submission.
func (r *GormBatchRepository) CountActiveItemsByUser(ctx context.Context, userID kernel.UUID) (int, error) {
	if err := userID.Validate(); err != nil {
		return 0, err
	}

	var count int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT count(*)
		FROM order_items oi
		JOIN batches b ON oi.batch_id = b.id
		JOIN orders o ON b.order_id = o.id
		WHERE o.user_id = ? AND oi.status IN ?
	`, userID.Bytes(), []int{
		int(order.Submitted),
		int(order.Accepted),
		int(order.InProduction),
		int(order.Suspended),
	}).Scan(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *GormBatchRepository) first(ctx context.Context, db *gorm.DB,
	id uuid.UUID) (*batch.Batch, error) {
	var dto BatchDTO
	err := db.WithContext(ctx).Preload("Items").First(&dto, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("batchId", id.String())
		}
		return nil, err
	}
	return toDomain(dto)
}
