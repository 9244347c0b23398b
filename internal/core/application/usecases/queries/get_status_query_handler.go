package queries

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetStatusQueryHandler reads order status snapshots straight from the
// database, bypassing the aggregates. Reports are read-only; nothing is
// locked or mutated.
//
// Example:
//
//	handler := NewGetStatusQueryHandler(db)
//	query, _ := NewGetStatusFilterQuery(user, StatusFilter{
//	    Statuses: []string{"InProduction"},
//	}, order.PresentationBrief)
//
//	statuses, err := handler.Handle(ctx, query)
//	if err != nil {
//	    log.Printf("Failed to get order statuses: %v", err)
//	    return err
//	}
type GetStatusQueryHandler struct {
	db *gorm.DB
}

// NewGetStatusQueryHandler creates a handler for order status queries.
// Requires a GORM database connection for query execution.
func NewGetStatusQueryHandler(db *gorm.DB) GetStatusQueryHandler {
	return GetStatusQueryHandler{db: db}
}

const orderStatusColumns = `
	id,
	user_id,
	order_type,
	status,
	additional_status_info,
	mission_specific_status_info,
	reference,
	priority,
	status_notification,
	created_on,
	status_changed_on,
	completed_on
`

// Handle executes the status query.
//
// In by-id mode the result holds exactly one snapshot; an unknown order
// id fails with an invalid order identifier error and an order owned by
// another user fails with an authorization error. In filter mode the
// result holds every matching order of the requesting user, oldest
// first, and may be empty.
func (h GetStatusQueryHandler) Handle(
	ctx context.Context,
	query GetStatusQuery,
) ([]OrderStatusResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	if query.OrderID() != nil {
		return h.handleByID(ctx, query)
	}
	return h.handleByFilter(ctx, query)
}

func (h GetStatusQueryHandler) handleByID(
	ctx context.Context,
	query GetStatusQuery,
) ([]OrderStatusResponse, error) {
	orderID := *query.OrderID()

	rows, err := h.db.WithContext(ctx).Raw(
		`SELECT `+orderStatusColumns+` FROM orders WHERE id = ?`,
		orderID.Bytes(),
	).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return nil, err
		}
		return nil, errs.NewInvalidOrderIdentifierError(orderID.String())
	}

	snapshot, ownerID, err := scanOrderStatus(rows)
	if err != nil {
		return nil, err
	}
	if !ownerID.IsEqual(query.User().ID()) {
		return nil, errs.NewAuthorizationFailedError("orderId")
	}

	if query.Presentation() == order.PresentationFull {
		if err = h.attachItems(ctx, &snapshot); err != nil {
			return nil, err
		}
	}
	return []OrderStatusResponse{snapshot}, nil
}

func (h GetStatusQueryHandler) handleByFilter(
	ctx context.Context,
	query GetStatusQuery,
) ([]OrderStatusResponse, error) {
	conditions := []string{"user_id = ?"}
	args := []any{query.User().ID().Bytes()}

	if query.Reference() != "" {
		conditions = append(conditions, "reference = ?")
		args = append(args, query.Reference())
	}
	if query.LastUpdate() != nil {
		conditions = append(conditions, "status_changed_on >= ?")
		args = append(args, *query.LastUpdate())
	}
	if query.LastUpdateEnd() != nil {
		conditions = append(conditions, "status_changed_on <= ?")
		args = append(args, *query.LastUpdateEnd())
	}
	if len(query.Statuses()) > 0 {
		statuses := make([]int, 0, len(query.Statuses()))
		for _, s := range query.Statuses() {
			statuses = append(statuses, int(s))
		}
		conditions = append(conditions, "status IN ?")
		args = append(args, statuses)
	}

	rows, err := h.db.WithContext(ctx).Raw(
		`SELECT `+orderStatusColumns+` FROM orders WHERE `+
			strings.Join(conditions, " AND ")+` ORDER BY created_on`,
		args...,
	).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snapshots := make([]OrderStatusResponse, 0)
	for rows.Next() {
		snapshot, _, scanErr := scanOrderStatus(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		snapshots = append(snapshots, snapshot)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	if query.Presentation() == order.PresentationFull {
		for i := range snapshots {
			if err = h.attachItems(ctx, &snapshots[i]); err != nil {
				return nil, err
			}
		}
	}
	return snapshots, nil
}

func scanOrderStatus(rows *sql.Rows) (OrderStatusResponse, kernel.UUID, error) {
	var (
		id              uuid.UUID
		userID          uuid.UUID
		orderType       int
		status          int
		additionalInfo  string
		missionInfo     string
		reference       string
		priority        string
		notification    string
		createdOn       time.Time
		statusChangedOn sql.NullTime
		completedOn     sql.NullTime
	)

	err := rows.Scan(
		&id,
		&userID,
		&orderType,
		&status,
		&additionalInfo,
		&missionInfo,
		&reference,
		&priority,
		&notification,
		&createdOn,
		&statusChangedOn,
		&completedOn,
	)
	if err != nil {
		return OrderStatusResponse{}, kernel.UUID{}, err
	}

	orderID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return OrderStatusResponse{}, kernel.UUID{}, err
	}
	ownerID, err := kernel.UUIDFromBytes(userID[:])
	if err != nil {
		return OrderStatusResponse{}, kernel.UUID{}, err
	}

	return OrderStatusResponse{
		OrderID:                   orderID,
		OrderType:                 order.Type(orderType).String(),
		Reference:                 reference,
		Status:                    order.Status(status).String(),
		AdditionalStatusInfo:      additionalInfo,
		MissionSpecificStatusInfo: missionInfo,
		Priority:                  priority,
		StatusNotification:        notification,
		CreatedOn:                 createdOn,
		StatusChangedOn:           nullableTime(statusChangedOn),
		CompletedOn:               nullableTime(completedOn),
	}, ownerID, nil
}

// attachItems fills the per-item detail of a snapshot. Production items
// are reported when any batch exists; otherwise the order's item
// specifications are reported with the order's own status, so a freshly
// submitted order still shows what was asked for.
func (h GetStatusQueryHandler) attachItems(
	ctx context.Context,
	snapshot *OrderStatusResponse,
) error {
	items, err := h.loadProductionItems(ctx, snapshot.OrderID)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		items, err = h.loadSpecificationItems(ctx, snapshot)
		if err != nil {
			return err
		}
	}
	snapshot.Items = items
	return nil
}

func (h GetStatusQueryHandler) loadProductionItems(
	ctx context.Context,
	orderID kernel.UUID,
) ([]ItemStatusResponse, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			oi.item_id,
			oi.collection,
			oi.identifier,
			oi.status,
			oi.additional_status_info,
			oi.mission_specific_status_info,
			oi.url,
			oi.expires_on,
			oi.downloads
		FROM order_items oi
		JOIN batches b ON oi.batch_id = b.id
		WHERE b.order_id = ?
		ORDER BY oi.created_on, oi.item_id
	`, orderID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]ItemStatusResponse, 0)
	for rows.Next() {
		var (
			item      ItemStatusResponse
			status    int
			expiresOn sql.NullTime
		)
		err = rows.Scan(
			&item.ItemID,
			&item.Collection,
			&item.Identifier,
			&status,
			&item.AdditionalStatusInfo,
			&item.MissionSpecificStatusInfo,
			&item.URL,
			&expiresOn,
			&item.Downloads,
		)
		if err != nil {
			return nil, err
		}
		item.Status = order.Status(status).String()
		item.ExpiresOn = nullableTime(expiresOn)
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (h GetStatusQueryHandler) loadSpecificationItems(
	ctx context.Context,
	snapshot *OrderStatusResponse,
) ([]ItemStatusResponse, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			item_id,
			collection,
			identifier
		FROM item_specifications
		WHERE order_id = ?
		ORDER BY item_id
	`, snapshot.OrderID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]ItemStatusResponse, 0)
	for rows.Next() {
		var item ItemStatusResponse
		if err = rows.Scan(&item.ItemID, &item.Collection, &item.Identifier); err != nil {
			return nil, err
		}
		item.Status = snapshot.Status
		item.AdditionalStatusInfo = snapshot.AdditionalStatusInfo
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func nullableTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	value := t.Time
	return &value
}
