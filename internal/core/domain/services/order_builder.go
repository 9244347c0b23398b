package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/ports"
	"ordering/internal/pkg/errs"
)

// DateRangeOption is the processing option that bounds a subscription
// in time. When a subscription request does not carry it, the builder
// synthesizes it from the requested validity period.
const DateRangeOption = "DateRange"

// OrderBuilder is a domain service that turns a raw submission request
// into a valid Order aggregate. It owns the whole submission-time
// validation pipeline:
//
//   - order type resolution, including the massive order reference
//   - per-type enablement and per-collection enablement checks
//   - option parsing against the deployment configuration
//   - delivery option validation and the delivery fallback rule
//   - item count ceilings and the per-user active items quota
//
// Building never persists anything. A failed build rejects the whole
// submission; there are no partially accepted orders.
type OrderBuilder struct {
	settings  ports.Settings
	processor ports.ItemProcessor
}

// NewOrderBuilder creates a new OrderBuilder instance.
func NewOrderBuilder(settings ports.Settings, processor ports.ItemProcessor) OrderBuilder {
	return OrderBuilder{
		settings:  settings,
		processor: processor,
	}
}

// Build validates a submission and constructs the Order aggregate.
//
// Parameters:
//   - req: the decoded submission payload
//   - user: the submitting account
//   - activeItems: how many items the user currently has in production,
//     used to enforce the active items quota
//
// Returns:
//   - the constructed order, not yet persisted
//   - warnings: non-fatal notes to echo back in the acknowledgement
//   - error: an errs.OrderingError describing the first rejection
func (b OrderBuilder) Build(ctx context.Context, req OrderRequest, user kernel.User,
	activeItems int) (*order.Order, []string, error) {
	orderType, err := b.resolveOrderType(req)
	if err != nil {
		return nil, nil, err
	}

	typeCfg, ok := b.settings.OrderType(orderType)
	if !ok || !typeCfg.Enabled {
		return nil, nil, notSupportedError(orderType)
	}

	if req.Packaging != "" {
		return nil, nil, errs.NewServerError("packaging is not implemented")
	}

	if err = b.validateItemCount(orderType, len(req.Items)); err != nil {
		return nil, nil, err
	}

	o, err := order.NewOrder(kernel.NewUUID(), user, orderType)
	if err != nil {
		return nil, nil, err
	}
	o.SetReference(req.Reference)
	o.SetRemark(req.Remark)
	if err = o.SetPriority(order.Priority(req.Priority)); err != nil {
		return nil, nil, errs.NewInvalidParameterValueError("priority", req.Priority)
	}
	if err = o.SetStatusNotification(order.StatusNotification(req.StatusNotification)); err != nil {
		return nil, nil, errs.NewInvalidParameterValueError("statusNotification", req.StatusNotification)
	}
	if req.DeliveryAddress != nil {
		o.SetDeliveryAddress(*req.DeliveryAddress)
	}
	if req.InvoiceAddress != nil {
		o.SetInvoiceAddress(*req.InvoiceAddress)
	}
	for _, extension := range req.Extensions {
		o.AddExtension(extension)
	}
	if orderType == order.TypeSubscription {
		if err = o.SetSubscriptionPeriod(req.SubscriptionBegin, req.SubscriptionEnd); err != nil {
			return nil, nil, errs.NewInvalidParameterValueError("subscriptionPeriod", "")
		}
	}

	typeSections := make([]ports.CollectionTypeConfig, 0, len(req.Items))
	for _, itemReq := range req.Items {
		section, spec, itemErr := b.buildItem(ctx, itemReq, orderType)
		if itemErr != nil {
			return nil, nil, itemErr
		}
		if err = o.AddItemSpecification(spec); err != nil {
			return nil, nil, errs.NewInvalidParameterValueErrorFromDomain("orderItem", err)
		}
		typeSections = append(typeSections, section)
	}

	if err = b.attachOrderOptions(ctx, o, req.Options, typeSections); err != nil {
		return nil, nil, err
	}
	if err = b.attachOrderDelivery(o, req.DeliveryOption, typeSections); err != nil {
		return nil, nil, err
	}
	for _, spec := range o.ItemSpecifications() {
		if _, ok = o.DeliveryOptionFor(spec); !ok {
			return nil, nil, errs.NewInvalidParameterValueError("deliveryOptions",
				fmt.Sprintf("no delivery option for item %s", spec.ItemID()))
		}
	}

	var warnings []string
	if orderType == order.TypeSubscription {
		warnings, err = b.ensureDateRange(o, req)
		if err != nil {
			return nil, nil, err
		}
	}

	itemCount := len(o.ItemSpecifications())
	if orderType == order.TypeMassive {
		if err = b.planMassiveOrder(ctx, o); err != nil {
			return nil, nil, err
		}
	}

	if b.settings.MaxActiveItems > 0 && activeItems+itemCount > b.settings.MaxActiveItems {
		return nil, nil, errs.NewQuotaExceededError(fmt.Sprintf(
			"%d items awaiting production, request for %d more exceeds the limit of %d",
			activeItems, itemCount, b.settings.MaxActiveItems))
	}

	return o, warnings, nil
}

// resolveOrderType parses the requested order type, turning a product
// order carrying the massive order reference into a massive order.
func (b OrderBuilder) resolveOrderType(req OrderRequest) (order.Type, error) {
	orderType, err := order.ParseType(req.OrderType)
	if err != nil {
		return order.TypeUnknown, errs.NewInvalidParameterValueError("orderType", req.OrderType)
	}
	if orderType == order.TypeProduct && req.Reference == order.MassiveOrderReference {
		orderType = order.TypeMassive
	}
	return orderType, nil
}

func (b OrderBuilder) validateItemCount(orderType order.Type, count int) error {
	if count == 0 {
		return errs.NewInvalidParameterValueError("orderItem", "order has no items")
	}
	switch orderType {
	case order.TypeMassive, order.TypeSubscription, order.TypeTasking:
		if count != 1 {
			return errs.NewInvalidParameterValueError("orderItem", fmt.Sprintf(
				"%s orders must have exactly one item specification", orderType))
		}
	default:
		if b.settings.MaxOrderItems > 0 && count > b.settings.MaxOrderItems {
			return errs.NewNoApplicableCodeError(fmt.Sprintf(
				"orders cannot have more than %d items", b.settings.MaxOrderItems))
		}
	}
	return nil
}

// buildItem validates one item request and constructs its specification.
func (b OrderBuilder) buildItem(ctx context.Context, itemReq ItemRequest,
	orderType order.Type) (ports.CollectionTypeConfig, *order.ItemSpecification, error) {
	if itemReq.ItemID == "" {
		return ports.CollectionTypeConfig{}, nil, errs.NewInvalidParameterValueError("itemId", "")
	}
	if (orderType == order.TypeProduct || orderType == order.TypeMassive) && itemReq.Identifier == "" {
		return ports.CollectionTypeConfig{}, nil,
			errs.NewInvalidParameterValueError("productId", itemReq.ItemID)
	}

	collection, err := b.resolveCollection(ctx, itemReq)
	if err != nil {
		return ports.CollectionTypeConfig{}, nil, err
	}
	section := collection.TypeConfig(orderType)
	if !section.Enabled {
		return ports.CollectionTypeConfig{}, nil, notSupportedError(orderType)
	}

	spec, err := order.NewItemSpecification(kernel.NewUUID(), itemReq.ItemID,
		collection.Name, itemReq.Identifier, itemReq.Remark)
	if err != nil {
		return ports.CollectionTypeConfig{}, nil,
			errs.NewInvalidParameterValueErrorFromDomain("orderItem", err)
	}
	spec.SetPayment(itemReq.Payment)

	options, err := b.parseOptions(ctx, itemReq.Options, section)
	if err != nil {
		return ports.CollectionTypeConfig{}, nil, err
	}
	for _, option := range options {
		if err = spec.AttachOption(option); err != nil {
			return ports.CollectionTypeConfig{}, nil, err
		}
	}
	scene, err := b.parseOptions(ctx, itemReq.SceneSelection, section)
	if err != nil {
		return ports.CollectionTypeConfig{}, nil, err
	}
	for _, option := range scene {
		if err = spec.AttachSceneSelectionOption(option); err != nil {
			return ports.CollectionTypeConfig{}, nil, err
		}
	}

	if itemReq.DeliveryOption != nil {
		deliveryOption, deliveryErr := b.buildDeliveryOption(*itemReq.DeliveryOption, section)
		if deliveryErr != nil {
			return ports.CollectionTypeConfig{}, nil, deliveryErr
		}
		if err = spec.SetDeliveryOption(deliveryOption); err != nil {
			return ports.CollectionTypeConfig{}, nil, err
		}
	}

	return section, spec, nil
}

// resolveCollection finds the collection an item request targets. When
// the request names neither the collection nor its catalogue
// identifier, the collection is resolved from the ordered product.
func (b OrderBuilder) resolveCollection(ctx context.Context,
	itemReq ItemRequest) (ports.CollectionConfig, error) {
	switch {
	case itemReq.Collection != "":
		if cfg, ok := b.settings.Collection(itemReq.Collection); ok {
			return cfg, nil
		}
		return ports.CollectionConfig{}, errs.NewInvalidParameterValueError("collectionId", itemReq.Collection)
	case itemReq.CollectionID != "":
		if cfg, ok := b.settings.CollectionByID(itemReq.CollectionID); ok {
			return cfg, nil
		}
		return ports.CollectionConfig{}, errs.NewInvalidParameterValueError("collectionId", itemReq.CollectionID)
	default:
		name, err := b.processor.ResolveCollection(ctx, itemReq.Identifier)
		if err != nil {
			return ports.CollectionConfig{}, errs.NewInvalidParameterValueError("productId", itemReq.Identifier)
		}
		if cfg, ok := b.settings.Collection(name); ok {
			return cfg, nil
		}
		return ports.CollectionConfig{}, errs.NewInvalidParameterValueError("collectionId", name)
	}
}

// parseOptions validates raw options against the deployment
// configuration and parses their values into canonical form.
func (b OrderBuilder) parseOptions(ctx context.Context, raw []OptionRequest,
	section ports.CollectionTypeConfig) ([]order.SelectedOption, error) {
	grouped := make(map[string][]string)
	names := make([]string, 0, len(raw))
	for _, optionReq := range raw {
		if _, seen := grouped[optionReq.Name]; !seen {
			names = append(names, optionReq.Name)
		}
		grouped[optionReq.Name] = append(grouped[optionReq.Name], optionReq.Value)
	}

	options := make([]order.SelectedOption, 0, len(names))
	for _, name := range names {
		cfg, ok := b.settings.Option(name)
		if !ok || !section.AllowsOption(name) {
			return nil, errs.NewInvalidParameterValueError("option", name)
		}
		values := grouped[name]
		if !cfg.MultipleEntries && len(values) > 1 {
			return nil, errs.NewInvalidParameterValueError("option", name)
		}
		parsed := make([]string, 0, len(values))
		for _, value := range values {
			canonical, err := b.parseOptionValue(ctx, cfg, value)
			if err != nil {
				return nil, err
			}
			parsed = append(parsed, canonical)
		}
		option, err := order.NewSelectedOption(name, strings.Join(parsed, " "))
		if err != nil {
			return nil, err
		}
		options = append(options, option)
	}
	return options, nil
}

func (b OrderBuilder) parseOptionValue(ctx context.Context, cfg ports.OptionConfig,
	value string) (string, error) {
	canonical, err := b.processor.ParseOption(ctx, cfg.Name, value)
	if err != nil {
		return "", errs.NewInvalidParameterValueError("option", cfg.Name)
	}
	if len(cfg.Choices) == 0 {
		return canonical, nil
	}
	for _, choice := range cfg.Choices {
		if canonical == choice {
			return canonical, nil
		}
	}
	return "", errs.NewInvalidParameterValueError("option", cfg.Name)
}

// attachOrderOptions parses the order-wide options. They must be
// accepted by every collection the order touches.
func (b OrderBuilder) attachOrderOptions(ctx context.Context, o *order.Order,
	raw []OptionRequest, sections []ports.CollectionTypeConfig) error {
	if len(raw) == 0 {
		return nil
	}
	for _, section := range sections {
		options, err := b.parseOptions(ctx, raw, section)
		if err != nil {
			return err
		}
		if o.Options() == nil {
			for _, option := range options {
				if err = o.AttachOption(option); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// attachOrderDelivery validates the order-level delivery option against
// every collection the order touches.
func (b OrderBuilder) attachOrderDelivery(o *order.Order, req *DeliveryOptionRequest,
	sections []ports.CollectionTypeConfig) error {
	if req == nil {
		return nil
	}
	var deliveryOption order.DeliveryOption
	for i, section := range sections {
		option, err := b.buildDeliveryOption(*req, section)
		if err != nil {
			return err
		}
		if i == 0 {
			deliveryOption = option
		}
	}
	return o.SetDeliveryOption(deliveryOption)
}

func (b OrderBuilder) buildDeliveryOption(req DeliveryOptionRequest,
	section ports.CollectionTypeConfig) (order.DeliveryOption, error) {
	deliveryType, err := order.ParseDeliveryType(req.Type)
	if err != nil {
		return order.DeliveryOption{}, errs.NewInvalidParameterValueError("deliveryOptions", req.Type)
	}
	if !section.AllowsDelivery(deliveryType, req.Protocol) {
		return order.DeliveryOption{}, errs.NewInvalidParameterValueError("deliveryOptions", req.Protocol)
	}
	option, err := order.NewDeliveryOption(deliveryType, req.Protocol, req.Copies,
		req.Annotation, req.SpecialInstructions)
	if err != nil {
		return order.DeliveryOption{}, errs.NewInvalidParameterValueErrorFromDomain("deliveryOptions", err)
	}
	return option, nil
}

// ensureDateRange synthesizes the DateRange option of a subscription
// item from the requested validity period when the client omitted it.
func (b OrderBuilder) ensureDateRange(o *order.Order, req OrderRequest) ([]string, error) {
	spec := o.ItemSpecifications()[0]
	if _, ok := order.FindOption(spec.Options(), DateRangeOption); ok {
		return nil, nil
	}

	begin := time.Now().UTC()
	if req.SubscriptionBegin != nil {
		begin = req.SubscriptionBegin.UTC()
	}
	end := begin.AddDate(1, 0, 0)
	if req.SubscriptionEnd != nil {
		end = req.SubscriptionEnd.UTC()
	}
	option, err := order.NewSelectedOption(DateRangeOption, fmt.Sprintf("%s %s",
		begin.Format(time.RFC3339), end.Format(time.RFC3339)))
	if err != nil {
		return nil, err
	}
	if err = spec.AttachOption(option); err != nil {
		return nil, err
	}
	warning := fmt.Sprintf("The %s option was not specified, defaulting to %s",
		DateRangeOption, option.Value())
	return []string{warning}, nil
}

// planMassiveOrder estimates the item count of a massive order, applies
// the massive ceiling and records the expected batch count.
func (b OrderBuilder) planMassiveOrder(ctx context.Context, o *order.Order) error {
	spec := o.ItemSpecifications()[0]
	begin, end, err := b.processor.OrderDuration(ctx, spec)
	if err != nil {
		return errs.NewServerErrorWithCause("could not compute the massive order duration", err)
	}
	total, err := b.processor.EstimateItems(ctx, spec.Collection(), begin, end)
	if err != nil {
		return errs.NewServerErrorWithCause("could not estimate the massive order size", err)
	}
	if b.settings.MassiveOrderMaxSize > 0 && total > b.settings.MassiveOrderMaxSize {
		return errs.NewQuotaExceededError(fmt.Sprintf(
			"estimated %d items exceed the massive order limit of %d",
			total, b.settings.MassiveOrderMaxSize))
	}

	itemsPerBatch := b.settings.MassiveItemsPerBatch
	if itemsPerBatch <= 0 {
		itemsPerBatch = total
	}
	batches := 0
	if total > 0 {
		batches = (total + itemsPerBatch - 1) / itemsPerBatch
	}
	return o.SetEstimatedBatches(batches)
}

func notSupportedError(orderType order.Type) *errs.OrderingError {
	switch orderType {
	case order.TypeSubscription:
		return errs.NewSubscriptionNotSupportedError()
	case order.TypeTasking:
		return errs.NewFutureProductNotSupportedError()
	default:
		return errs.NewProductOrderingNotSupportedError()
	}
}
