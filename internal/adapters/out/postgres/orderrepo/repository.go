package orderrepo

import (
	"context"
	"errors"
	"time"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order to the database together with its item
// specifications.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
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

// Update saves an existing order to the database. Item specifications
// are immutable after submission, so only the order row is written.
// All columns are written, including cleared ones.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ?", dto.ID).
		Select("*").Omit("Items").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order by ID, item specifications included.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.get(ctx, r.db, id)
}

// GetForUpdate retrieves an order and row-locks it for the duration of
// the surrounding transaction, serializing concurrent status
// aggregation for the same order.
func (r *GormOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.get(ctx, r.db.Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormOrderRepository) get(ctx context.Context, db *gorm.DB, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := db.WithContext(ctx).Preload("Items").First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("orderId", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetExpiredSubscriptions retrieves subscription orders whose validity
// period ended before the given moment and that are still active.
func (r *GormOrderRepository) GetExpiredSubscriptions(ctx context.Context, now time.Time) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.db.WithContext(ctx).Preload("Items").
		Where("order_type = ?", int(order.TypeSubscription)).
		Where("subscription_end IS NOT NULL AND subscription_end < ?", now).
		Where("status NOT IN ?", []int{
			int(order.Cancelled),
			int(order.Terminated),
			int(order.Completed),
			int(order.Failed),
		}).
		Order("created_on").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, toErr := toDomain(dto)
		if toErr != nil {
			return nil, toErr
		}
		orders = append(orders, o)
	}
	return orders, nil
}
