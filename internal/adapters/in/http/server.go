package http

import (
	"net/http"
	"time"

	"ordering/internal/core/application/usecases/commands"
	"ordering/internal/core/application/usecases/queries"
	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/domain/services"
	"ordering/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server exposes the ordering operations over HTTP. It translates the
// wire payloads into commands and queries and maps ordering errors onto
// HTTP statuses.
//
// The caller identity arrives in the X-User-Id, X-User-Name and
// X-User-Email headers, set by the authenticating gateway in front of
// the service.
type Server struct {
	// Command handlers
	submitOrderHandler             commands.SubmitOrderCommandHandler
	cancelOrderHandler             commands.CancelOrderCommandHandler
	moderateOrderHandler           commands.ModerateOrderCommandHandler
	describeResultAccessHandler    commands.DescribeResultAccessCommandHandler
	createSubscriptionBatchHandler commands.CreateSubscriptionBatchCommandHandler

	// Query handlers
	getStatusHandler       queries.GetStatusQueryHandler
	getOptionsHandler      queries.GetOptionsQueryHandler
	getCapabilitiesHandler queries.GetCapabilitiesQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	submitOrderHandler commands.SubmitOrderCommandHandler,
	cancelOrderHandler commands.CancelOrderCommandHandler,
	moderateOrderHandler commands.ModerateOrderCommandHandler,
	describeResultAccessHandler commands.DescribeResultAccessCommandHandler,
	createSubscriptionBatchHandler commands.CreateSubscriptionBatchCommandHandler,
	getStatusHandler queries.GetStatusQueryHandler,
	getOptionsHandler queries.GetOptionsQueryHandler,
	getCapabilitiesHandler queries.GetCapabilitiesQueryHandler,
) *Server {
	return &Server{
		submitOrderHandler:             submitOrderHandler,
		cancelOrderHandler:             cancelOrderHandler,
		moderateOrderHandler:           moderateOrderHandler,
		describeResultAccessHandler:    describeResultAccessHandler,
		createSubscriptionBatchHandler: createSubscriptionBatchHandler,
		getStatusHandler:               getStatusHandler,
		getOptionsHandler:              getOptionsHandler,
		getCapabilitiesHandler:         getCapabilitiesHandler,
	}
}

// RegisterRoutes attaches all ordering endpoints to the Echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.GET("/capabilities", s.GetCapabilities)
	api.GET("/collections/:collection/options", s.GetOptions)

	api.POST("/orders", s.SubmitOrder)
	api.GET("/orders", s.GetOrders)
	api.GET("/orders/:orderId", s.GetOrder)
	api.GET("/orders/:orderId/results", s.DescribeResultAccess)
	api.POST("/orders/:orderId/cancel", s.CancelOrder)
	api.POST("/orders/:orderId/moderate", s.ModerateOrder)
	api.POST("/orders/:orderId/subscription-batches", s.CreateSubscriptionBatch)
}

// SubmitOrder handles POST /api/v1/orders - submits a new order.
func (s *Server) SubmitOrder(ctx echo.Context) error {
	user, err := userFromRequest(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	var payload submitRequest
	if err := ctx.Bind(&payload); err != nil {
		return writeError(ctx, errs.NewNoApplicableCodeError("invalid request body"))
	}

	cmd, err := commands.NewSubmitOrderCommand(user, payload.toOrderRequest())
	if err != nil {
		return writeError(ctx, err)
	}

	result, err := s.submitOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, submitResponse{
		OrderID:  result.OrderID.String(),
		Status:   result.Status.String(),
		Warnings: result.Warnings,
	})
}

// GetOrder handles GET /api/v1/orders/:orderId - reports one order.
func (s *Server) GetOrder(ctx echo.Context) error {
	user, err := userFromRequest(ctx)
	if err != nil {
		return writeError(ctx, err)
	}
	orderID, err := orderIDFromPath(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	query, err := queries.NewGetStatusQuery(user, orderID, order.Presentation(ctx.QueryParam("presentation")))
	if err != nil {
		return writeError(ctx, err)
	}

	statuses, err := s.getStatusHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, statuses[0])
}

// GetOrders handles GET /api/v1/orders - reports the caller's orders,
// optionally narrowed by reference, status and update period.
func (s *Server) GetOrders(ctx echo.Context) error {
	user, err := userFromRequest(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	filter := queries.StatusFilter{
		Reference: ctx.QueryParam("reference"),
	}
	if statuses, ok := ctx.QueryParams()["status"]; ok {
		filter.Statuses = statuses
	}
	if filter.LastUpdate, err = timeParam(ctx, "lastUpdate"); err != nil {
		return writeError(ctx, err)
	}
	if filter.LastUpdateEnd, err = timeParam(ctx, "lastUpdateEnd"); err != nil {
		return writeError(ctx, err)
	}

	query, err := queries.NewGetStatusFilterQuery(user, filter, order.Presentation(ctx.QueryParam("presentation")))
	if err != nil {
		return writeError(ctx, err)
	}

	statuses, err := s.getStatusHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, statuses)
}

// DescribeResultAccess handles GET /api/v1/orders/:orderId/results -
// reports where the ready items of an order can be retrieved from.
func (s *Server) DescribeResultAccess(ctx echo.Context) error {
	user, err := userFromRequest(ctx)
	if err != nil {
		return writeError(ctx, err)
	}
	orderID, err := orderIDFromPath(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewDescribeResultAccessCommand(orderID, user.ID(),
		ctx.QueryParam("subFunction"))
	if err != nil {
		return writeError(ctx, err)
	}

	items, err := s.describeResultAccessHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]itemAccessResponse, len(items))
	for i, item := range items {
		response[i] = itemAccessResponse{
			ItemID:     item.ItemID,
			Collection: item.Collection,
			Identifier: item.Identifier,
			URL:        item.URL,
			ExpiresOn:  item.ExpiresOn,
		}
	}
	return ctx.JSON(http.StatusOK, response)
}

// CancelOrder handles POST /api/v1/orders/:orderId/cancel - cancels one
// of the caller's orders.
func (s *Server) CancelOrder(ctx echo.Context) error {
	user, err := userFromRequest(ctx)
	if err != nil {
		return writeError(ctx, err)
	}
	orderID, err := orderIDFromPath(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	var payload cancelRequest
	if err := ctx.Bind(&payload); err != nil {
		return writeError(ctx, errs.NewNoApplicableCodeError("invalid request body"))
	}

	cmd, err := commands.NewCancelOrderCommand(orderID, user.ID(), payload.Reason)
	if err != nil {
		return writeError(ctx, err)
	}

	if err := s.cancelOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// ModerateOrder handles POST /api/v1/orders/:orderId/moderate - records
// an operator's moderation decision on a submitted order.
func (s *Server) ModerateOrder(ctx echo.Context) error {
	orderID, err := orderIDFromPath(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	var payload moderateRequest
	if err := ctx.Bind(&payload); err != nil {
		return writeError(ctx, errs.NewNoApplicableCodeError("invalid request body"))
	}

	cmd, err := commands.NewModerateOrderCommand(orderID, payload.Approve, payload.Reason)
	if err != nil {
		return writeError(ctx, err)
	}

	if err := s.moderateOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// CreateSubscriptionBatch handles POST /api/v1/orders/:orderId/subscription-batches -
// materializes a subscription timeslot into a batch of order items. The
// endpoint is invoked by the catalogue ingestion hook when new products
// arrive, and by operators to reprocess a timeslot with force set.
func (s *Server) CreateSubscriptionBatch(ctx echo.Context) error {
	orderID, err := orderIDFromPath(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	var payload subscriptionBatchRequest
	if err := ctx.Bind(&payload); err != nil {
		return writeError(ctx, errs.NewNoApplicableCodeError("invalid request body"))
	}

	cmd, err := commands.NewCreateSubscriptionBatchCommand(orderID, payload.Timeslot,
		payload.Collection, payload.Force)
	if err != nil {
		return writeError(ctx, err)
	}

	if err := s.createSubscriptionBatchHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}
	return ctx.NoContent(http.StatusAccepted)
}

// GetOptions handles GET /api/v1/collections/:collection/options -
// reports the processing and delivery options of a collection.
func (s *Server) GetOptions(ctx echo.Context) error {
	query, err := queries.NewGetOptionsQuery(ctx.Param("collection"),
		ctx.QueryParam("orderType"))
	if err != nil {
		return writeError(ctx, err)
	}

	options, err := s.getOptionsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, options)
}

// GetCapabilities handles GET /api/v1/capabilities - reports the
// operations, order types, collections and ceilings of the deployment.
func (s *Server) GetCapabilities(ctx echo.Context) error {
	capabilities, err := s.getCapabilitiesHandler.Handle(ctx.Request().Context(),
		queries.NewGetCapabilitiesQuery())
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, capabilities)
}

// userFromRequest builds the caller identity from the gateway headers.
func userFromRequest(ctx echo.Context) (kernel.User, error) {
	userID, err := kernel.UUIDFromString(ctx.Request().Header.Get("X-User-Id"))
	if err != nil {
		return kernel.User{}, errs.NewAuthorizationFailedError("identity")
	}

	user, err := kernel.NewUser(userID,
		ctx.Request().Header.Get("X-User-Name"),
		ctx.Request().Header.Get("X-User-Email"))
	if err != nil {
		return kernel.User{}, errs.NewAuthorizationFailedError("identity")
	}
	return user, nil
}

func orderIDFromPath(ctx echo.Context) (kernel.UUID, error) {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return kernel.UUID{}, errs.NewInvalidParameterValueError("orderId", ctx.Param("orderId"))
	}
	return orderID, nil
}

func timeParam(ctx echo.Context, name string) (*time.Time, error) {
	raw := ctx.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, errs.NewInvalidParameterValueError(name, raw)
	}
	return &parsed, nil
}

// writeError maps an error onto the HTTP response. Ordering errors keep
// their protocol code; everything else is reported as a bad request so
// client mistakes never masquerade as server failures.
func writeError(ctx echo.Context, err error) error {
	if oe, ok := errs.AsOrderingError(err); ok {
		return ctx.JSON(httpStatus(oe.Code), errorResponse{
			Code:    string(oe.Code),
			Message: oe.Text,
			Locator: oe.Locator,
		})
	}
	return ctx.JSON(http.StatusBadRequest, errorResponse{
		Code:    string(errs.CodeNoApplicableCode),
		Message: err.Error(),
	})
}

func httpStatus(code errs.Code) int {
	switch code {
	case errs.CodeInvalidOrderIdentifier:
		return http.StatusNotFound
	case errs.CodeAuthorizationFailed:
		return http.StatusForbidden
	case errs.CodeQuotaExceeded:
		return http.StatusTooManyRequests
	case errs.CodeServerError:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Locator string `json:"locator,omitempty"`
}

type submitResponse struct {
	OrderID  string   `json:"orderId"`
	Status   string   `json:"status"`
	Warnings []string `json:"warnings,omitempty"`
}

type itemAccessResponse struct {
	ItemID     string     `json:"itemId"`
	Collection string     `json:"collection"`
	Identifier string     `json:"identifier,omitempty"`
	URL        string     `json:"url"`
	ExpiresOn  *time.Time `json:"expiresOn,omitempty"`
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

type subscriptionBatchRequest struct {
	Timeslot   time.Time `json:"timeslot"`
	Collection string    `json:"collection,omitempty"`
	Force      bool      `json:"force,omitempty"`
}

type moderateRequest struct {
	Approve bool   `json:"approve"`
	Reason  string `json:"reason,omitempty"`
}

type optionPayload struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type deliveryOptionPayload struct {
	Type                string `json:"type"`
	Protocol            string `json:"protocol,omitempty"`
	Copies              int    `json:"copies,omitempty"`
	Annotation          string `json:"annotation,omitempty"`
	SpecialInstructions string `json:"specialInstructions,omitempty"`
}

type addressPayload struct {
	FirstName             string `json:"firstName,omitempty"`
	LastName              string `json:"lastName,omitempty"`
	CompanyRef            string `json:"companyRef,omitempty"`
	StreetAddress         string `json:"streetAddress,omitempty"`
	City                  string `json:"city,omitempty"`
	State                 string `json:"state,omitempty"`
	PostalCode            string `json:"postalCode,omitempty"`
	Country               string `json:"country,omitempty"`
	PostBox               string `json:"postBox,omitempty"`
	TelephoneNumber       string `json:"telephoneNumber,omitempty"`
	FacsimileTelephoneNum string `json:"facsimileTelephoneNumber,omitempty"`
}

type itemPayload struct {
	ItemID         string                 `json:"itemId"`
	Collection     string                 `json:"collection,omitempty"`
	CollectionID   string                 `json:"collectionId,omitempty"`
	Identifier     string                 `json:"identifier,omitempty"`
	Remark         string                 `json:"remark,omitempty"`
	Options        []optionPayload        `json:"options,omitempty"`
	SceneSelection []optionPayload        `json:"sceneSelection,omitempty"`
	Payment        string                 `json:"payment,omitempty"`
	DeliveryOption *deliveryOptionPayload `json:"deliveryOption,omitempty"`
}

type submitRequest struct {
	OrderType          string                 `json:"orderType"`
	Reference          string                 `json:"reference,omitempty"`
	Remark             string                 `json:"remark,omitempty"`
	Packaging          string                 `json:"packaging,omitempty"`
	Priority           string                 `json:"priority,omitempty"`
	StatusNotification string                 `json:"statusNotification,omitempty"`
	Extensions         []string               `json:"extensions,omitempty"`
	Options            []optionPayload        `json:"options,omitempty"`
	DeliveryOption     *deliveryOptionPayload `json:"deliveryOption,omitempty"`
	DeliveryAddress    *addressPayload        `json:"deliveryAddress,omitempty"`
	InvoiceAddress     *addressPayload        `json:"invoiceAddress,omitempty"`
	Items              []itemPayload          `json:"items"`
	SubscriptionBegin  *time.Time             `json:"subscriptionBegin,omitempty"`
	SubscriptionEnd    *time.Time             `json:"subscriptionEnd,omitempty"`
}

func (r submitRequest) toOrderRequest() services.OrderRequest {
	request := services.OrderRequest{
		OrderType:          r.OrderType,
		Reference:          r.Reference,
		Remark:             r.Remark,
		Packaging:          r.Packaging,
		Priority:           r.Priority,
		StatusNotification: r.StatusNotification,
		Extensions:         r.Extensions,
		Options:            toOptionRequests(r.Options),
		DeliveryOption:     toDeliveryRequest(r.DeliveryOption),
		DeliveryAddress:    toAddress(r.DeliveryAddress),
		InvoiceAddress:     toAddress(r.InvoiceAddress),
		SubscriptionBegin:  r.SubscriptionBegin,
		SubscriptionEnd:    r.SubscriptionEnd,
	}

	for _, item := range r.Items {
		request.Items = append(request.Items, services.ItemRequest{
			ItemID:         item.ItemID,
			Collection:     item.Collection,
			CollectionID:   item.CollectionID,
			Identifier:     item.Identifier,
			Remark:         item.Remark,
			Options:        toOptionRequests(item.Options),
			SceneSelection: toOptionRequests(item.SceneSelection),
			Payment:        item.Payment,
			DeliveryOption: toDeliveryRequest(item.DeliveryOption),
		})
	}
	return request
}

func toOptionRequests(payloads []optionPayload) []services.OptionRequest {
	if len(payloads) == 0 {
		return nil
	}
	options := make([]services.OptionRequest, len(payloads))
	for i, payload := range payloads {
		options[i] = services.OptionRequest{Name: payload.Name, Value: payload.Value}
	}
	return options
}

func toDeliveryRequest(payload *deliveryOptionPayload) *services.DeliveryOptionRequest {
	if payload == nil {
		return nil
	}
	return &services.DeliveryOptionRequest{
		Type:                payload.Type,
		Protocol:            payload.Protocol,
		Copies:              payload.Copies,
		Annotation:          payload.Annotation,
		SpecialInstructions: payload.SpecialInstructions,
	}
}

func toAddress(payload *addressPayload) *order.Address {
	if payload == nil {
		return nil
	}
	return &order.Address{
		FirstName:             payload.FirstName,
		LastName:              payload.LastName,
		CompanyRef:            payload.CompanyRef,
		StreetAddress:         payload.StreetAddress,
		City:                  payload.City,
		State:                 payload.State,
		PostalCode:            payload.PostalCode,
		Country:               payload.Country,
		PostBox:               payload.PostBox,
		TelephoneNumber:       payload.TelephoneNumber,
		FacsimileTelephoneNum: payload.FacsimileTelephoneNum,
	}
}
