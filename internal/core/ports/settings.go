package ports

import (
	"ordering/internal/core/domain/model/order"
)

// OptionConfig declares one processing option the deployment supports.
type OptionConfig struct {
	// Name of the option as it appears in requests.
	Name string

	// Description is shown by the capability and options operations.
	Description string

	// Choices restricts the accepted values. Empty means any value the
	// item processor can parse is accepted.
	Choices []string

	// MultipleEntries allows a request to repeat the option; the parsed
	// values are joined into a single space-separated value.
	MultipleEntries bool
}

// CollectionTypeConfig enables one order type for a collection and
// scopes which options and delivery channels it accepts.
type CollectionTypeConfig struct {
	Enabled bool

	// Options names the entries of Settings.ProcessingOptions that
	// items of this collection and order type may use.
	Options []string

	// OnlineDataAccessProtocols lists the accepted protocols for
	// online data access delivery, e.g. "http", "ftp".
	OnlineDataAccessProtocols []string

	// OnlineDataDeliveryProtocols lists the accepted protocols for
	// online data delivery.
	OnlineDataDeliveryProtocols []string

	// MediaDeliveryMedia lists the accepted physical media, e.g. "DVD".
	MediaDeliveryMedia []string
}

// CollectionConfig describes one orderable product collection.
type CollectionConfig struct {
	// Name of the collection as it appears in requests.
	Name string

	// CatalogueEndpoint is the catalogue service the item processor
	// resolves products of this collection against.
	CatalogueEndpoint string

	// CollectionID is the catalogue identifier of the collection.
	CollectionID string

	// SubscriptionPeriod is the length of one subscription timeslot in
	// hours. Zero means daily.
	SubscriptionPeriodHours int

	ProductOrders      CollectionTypeConfig
	MassiveOrders      CollectionTypeConfig
	SubscriptionOrders CollectionTypeConfig
	TaskingOrders      CollectionTypeConfig
}

// TypeConfig returns the per-order-type section of the collection.
func (c CollectionConfig) TypeConfig(t order.Type) CollectionTypeConfig {
	switch t {
	case order.TypeProduct:
		return c.ProductOrders
	case order.TypeMassive:
		return c.MassiveOrders
	case order.TypeSubscription:
		return c.SubscriptionOrders
	case order.TypeTasking:
		return c.TaskingOrders
	default:
		return CollectionTypeConfig{}
	}
}

// AllowsOption reports whether the named processing option is declared
// for this collection and order type.
func (c CollectionTypeConfig) AllowsOption(name string) bool {
	for _, o := range c.Options {
		if o == name {
			return true
		}
	}
	return false
}

// AllowsDelivery reports whether the delivery channel and protocol are
// accepted for this collection and order type.
func (c CollectionTypeConfig) AllowsDelivery(deliveryType order.DeliveryType, protocol string) bool {
	var accepted []string
	switch deliveryType {
	case order.DeliveryOnlineDataAccess:
		accepted = c.OnlineDataAccessProtocols
	case order.DeliveryOnlineDataDelivery:
		accepted = c.OnlineDataDeliveryProtocols
	case order.DeliveryMedia:
		accepted = c.MediaDeliveryMedia
	default:
		return false
	}
	for _, p := range accepted {
		if p == protocol {
			return true
		}
	}
	return false
}

// OrderTypeConfig holds the deployment-wide policy for one order type.
type OrderTypeConfig struct {
	Enabled bool

	// AutomaticApproval skips human moderation: submitted orders are
	// approved and dispatched immediately.
	AutomaticApproval bool

	// NotifyCreation asks for an operator notification on every
	// submission that needs moderation.
	NotifyCreation bool

	// ItemAvailabilityDays is how long produced files are kept before
	// they expire.
	ItemAvailabilityDays int
}

// Settings is the injected deployment configuration. It is resolved
// once at startup and passed as a value to every component that needs
// it; nothing reads configuration ambiently.
type Settings struct {
	// SiteDomain is used when rendering item download locations.
	SiteDomain string

	// MaxOrderItems caps the number of items in a single non-massive
	// order.
	MaxOrderItems int

	// MaxActiveItems caps the number of items a user may have in
	// production at once, across all orders.
	MaxActiveItems int

	// MassiveOrderMaxSize caps the estimated item count of a massive
	// order.
	MassiveOrderMaxSize int

	// MassiveItemsPerBatch is how many items one massive batch holds.
	MassiveItemsPerBatch int

	// MaxProcessingAttempts bounds retries of a failing item.
	MaxProcessingAttempts int

	OrderTypes map[order.Type]OrderTypeConfig

	Collections []CollectionConfig

	ProcessingOptions []OptionConfig
}

// OrderType returns the policy for the given order type.
func (s Settings) OrderType(t order.Type) (OrderTypeConfig, bool) {
	cfg, ok := s.OrderTypes[t]
	return cfg, ok
}

// Collection finds a collection by name.
func (s Settings) Collection(name string) (CollectionConfig, bool) {
	for _, c := range s.Collections {
		if c.Name == name {
			return c, true
		}
	}
	return CollectionConfig{}, false
}

// CollectionByID finds a collection by its catalogue identifier.
func (s Settings) CollectionByID(collectionID string) (CollectionConfig, bool) {
	for _, c := range s.Collections {
		if c.CollectionID == collectionID {
			return c, true
		}
	}
	return CollectionConfig{}, false
}

// Option finds a processing option declaration by name.
func (s Settings) Option(name string) (OptionConfig, bool) {
	for _, o := range s.ProcessingOptions {
		if o.Name == name {
			return o, true
		}
	}
	return OptionConfig{}, false
}
