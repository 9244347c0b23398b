package queries

import (
	"errors"
	"time"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/pkg/errs"
	"ordering/internal/pkg/guard"
)

var (
	ErrGetStatusQueryIsNotConstructed = errors.New(
		"GetStatusQuery must be created via NewGetStatusQuery or NewGetStatusFilterQuery constructor",
	)
)

// GetStatusQuery reports the lifecycle state of one order or of every
// order of the requesting user that matches a filter.
//
// The query runs in one of two modes:
//   - by order id: ownership is enforced, an unknown id is reported as
//     an invalid order identifier
//   - by filter: reference, last-update window and status list, always
//     scoped to the requesting user
//
// Example:
//
//	query, err := NewGetStatusQuery(user, orderID, order.PresentationFull)
//	if err != nil {
//	    return err
//	}
//	handler := NewGetStatusQueryHandler(db)
//
//	statuses, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get order status: %w", err)
//	}
//
//	for _, s := range statuses {
//	    fmt.Printf("Order %s is %s\n", s.OrderID, s.Status)
//	}
type GetStatusQuery struct {
	user kernel.User

	// orderID selects by-id mode when set; nil means filter mode.
	orderID *kernel.UUID

	reference     string
	lastUpdate    *time.Time
	lastUpdateEnd *time.Time
	statuses      []order.Status

	presentation order.Presentation

	guard guard.ConstructorGuard
}

// StatusFilter narrows a filter-mode status query. Every field is
// optional; zero values do not constrain the result.
type StatusFilter struct {
	// Reference matches the client-assigned order reference exactly.
	Reference string

	// LastUpdate keeps orders whose status changed at or after this moment.
	LastUpdate *time.Time

	// LastUpdateEnd keeps orders whose status changed at or before this moment.
	LastUpdateEnd *time.Time

	// Statuses keeps orders currently in one of the named statuses,
	// given as protocol strings.
	Statuses []string
}

// NewGetStatusQuery creates a by-id status query.
//
// An empty presentation defaults to brief.
//
// Errors:
//   - errs.ValueIsRequiredError: if user or orderID is a zero value
//   - errs.ValueIsInvalidError: if presentation is not a known mode
func NewGetStatusQuery(user kernel.User, orderID kernel.UUID,
	presentation order.Presentation) (GetStatusQuery, error) {
	if err := user.Validate(); err != nil {
		return GetStatusQuery{}, errs.NewValueIsRequiredError("user")
	}
	if err := orderID.Validate(); err != nil {
		return GetStatusQuery{}, errs.NewValueIsRequiredError("orderId")
	}
	presentation, err := normalizePresentation(presentation)
	if err != nil {
		return GetStatusQuery{}, err
	}

	return GetStatusQuery{
		user:         user,
		orderID:      &orderID,
		presentation: presentation,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

// NewGetStatusFilterQuery creates a filter-mode status query scoped to
// the requesting user.
//
// Errors:
//   - errs.ValueIsRequiredError: if user is a zero value
//   - errs.ValueIsInvalidError: if presentation or any filter status is
//     not a known value
func NewGetStatusFilterQuery(user kernel.User, filter StatusFilter,
	presentation order.Presentation) (GetStatusQuery, error) {
	if err := user.Validate(); err != nil {
		return GetStatusQuery{}, errs.NewValueIsRequiredError("user")
	}
	presentation, err := normalizePresentation(presentation)
	if err != nil {
		return GetStatusQuery{}, err
	}

	statuses := make([]order.Status, 0, len(filter.Statuses))
	for _, s := range filter.Statuses {
		status, parseErr := order.ParseStatus(s)
		if parseErr != nil {
			return GetStatusQuery{}, parseErr
		}
		statuses = append(statuses, status)
	}

	return GetStatusQuery{
		user:          user,
		reference:     filter.Reference,
		lastUpdate:    filter.LastUpdate,
		lastUpdateEnd: filter.LastUpdateEnd,
		statuses:      statuses,
		presentation:  presentation,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

func normalizePresentation(p order.Presentation) (order.Presentation, error) {
	if p == "" {
		return order.PresentationBrief, nil
	}
	if err := p.Validate(); err != nil {
		return "", err
	}
	return p, nil
}

// User returns the requesting account.
func (q GetStatusQuery) User() kernel.User {
	return q.user
}

// OrderID returns the requested order, or nil in filter mode.
func (q GetStatusQuery) OrderID() *kernel.UUID {
	return q.orderID
}

// Reference returns the order reference filter, which may be empty.
func (q GetStatusQuery) Reference() string {
	return q.reference
}

// LastUpdate returns the lower bound of the last-update window, or nil.
func (q GetStatusQuery) LastUpdate() *time.Time {
	return q.lastUpdate
}

// LastUpdateEnd returns the upper bound of the last-update window, or nil.
func (q GetStatusQuery) LastUpdateEnd() *time.Time {
	return q.lastUpdateEnd
}

// Statuses returns the status filter, which may be empty.
func (q GetStatusQuery) Statuses() []order.Status {
	return q.statuses
}

// Presentation returns the requested level of detail.
func (q GetStatusQuery) Presentation() order.Presentation {
	return q.presentation
}

// Validate ensures the query was created through a constructor.
func (q GetStatusQuery) Validate() error {
	return q.guard.Validate(ErrGetStatusQueryIsNotConstructed)
}

// OrderStatusResponse is the status snapshot of one order.
type OrderStatusResponse struct {
	OrderID                   kernel.UUID
	OrderType                 string
	Reference                 string
	Status                    string
	AdditionalStatusInfo      string
	MissionSpecificStatusInfo string
	Priority                  string
	StatusNotification        string
	CreatedOn                 time.Time
	StatusChangedOn           *time.Time
	CompletedOn               *time.Time

	// Items is populated only for the full presentation. Orders that
	// have not produced anything yet report their item specifications
	// with the order's own status.
	Items []ItemStatusResponse
}

// ItemStatusResponse is the status snapshot of one order item.
type ItemStatusResponse struct {
	ItemID                    string
	Collection                string
	Identifier                string
	Status                    string
	AdditionalStatusInfo      string
	MissionSpecificStatusInfo string
	URL                       string
	ExpiresOn                 *time.Time
	Downloads                 int
}
