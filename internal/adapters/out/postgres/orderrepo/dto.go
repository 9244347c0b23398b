// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"time"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// The request side of an order (addresses, options, delivery choice) is stored
// as JSON documents; item specifications get their own table so status queries
// can report them without deserializing the whole order.
type OrderDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;index"`
	UserName  string
	UserEmail string

	OrderType int
	Status    int `gorm:"index"`

	AdditionalStatusInfo      string
	MissionSpecificStatusInfo string

	Reference          string
	Remark             string
	Priority           string
	Packaging          string
	StatusNotification string

	CreatedOn               time.Time
	StatusChangedOn         *time.Time
	CompletedOn             *time.Time
	LastResultAccessRequest *time.Time

	SubscriptionBegin *time.Time
	SubscriptionEnd   *time.Time

	EstimatedBatches int

	Extensions      []string             `gorm:"serializer:json;type:jsonb"`
	Options         []SelectedOptionDTO  `gorm:"serializer:json;type:jsonb"`
	Delivery        *DeliveryOptionDTO   `gorm:"serializer:json;type:jsonb"`
	DeliveryAddress *order.Address       `gorm:"serializer:json;type:jsonb"`
	InvoiceAddress  *order.Address       `gorm:"serializer:json;type:jsonb"`
	Items           []ItemSpecificationDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// ItemSpecificationDTO represents one requested item of an order.
type ItemSpecificationDTO struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID uuid.UUID `gorm:"type:uuid;index"`

	ItemID     string
	Collection string
	Identifier string
	Remark     string

	Options        []SelectedOptionDTO `gorm:"serializer:json;type:jsonb"`
	SceneSelection []SelectedOptionDTO `gorm:"serializer:json;type:jsonb"`
	Payment        string
	Delivery       *DeliveryOptionDTO `gorm:"serializer:json;type:jsonb"`
}

// TableName specifies the database table name for item specifications.
func (ItemSpecificationDTO) TableName() string {
	return "item_specifications"
}

// SelectedOptionDTO is the JSON shape of one selected processing option.
type SelectedOptionDTO struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// DeliveryOptionDTO is the JSON shape of a delivery option.
type DeliveryOptionDTO struct {
	Type                int    `json:"type"`
	Protocol            string `json:"protocol"`
	Copies              int    `json:"copies"`
	Annotation          string `json:"annotation,omitempty"`
	SpecialInstructions string `json:"specialInstructions,omitempty"`
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	items := make([]ItemSpecificationDTO, 0, len(aggregate.ItemSpecifications()))
	for _, spec := range aggregate.ItemSpecifications() {
		items = append(items, specFromDomain(aggregate.ID(), spec))
	}

	return OrderDTO{
		ID:        aggregate.ID().Bytes(),
		UserID:    aggregate.User().ID().Bytes(),
		UserName:  aggregate.User().Name(),
		UserEmail: aggregate.User().Email(),

		OrderType: int(aggregate.Type()),
		Status:    int(aggregate.Status()),

		AdditionalStatusInfo:      aggregate.AdditionalStatusInfo(),
		MissionSpecificStatusInfo: aggregate.MissionSpecificStatusInfo(),

		Reference:          aggregate.Reference(),
		Remark:             aggregate.Remark(),
		Priority:           string(aggregate.Priority()),
		Packaging:          aggregate.Packaging(),
		StatusNotification: string(aggregate.StatusNotification()),

		CreatedOn:               aggregate.CreatedOn(),
		StatusChangedOn:         aggregate.StatusChangedOn(),
		CompletedOn:             aggregate.CompletedOn(),
		LastResultAccessRequest: aggregate.LastResultAccessRequest(),

		SubscriptionBegin: subscriptionBegin(aggregate),
		SubscriptionEnd:   subscriptionEnd(aggregate),

		EstimatedBatches: aggregate.EstimatedBatches(),

		Extensions:      aggregate.Extensions(),
		Options:         optionsFromDomain(aggregate.Options()),
		Delivery:        deliveryFromDomain(aggregate.DeliveryOption()),
		DeliveryAddress: aggregate.DeliveryAddress(),
		InvoiceAddress:  aggregate.InvoiceAddress(),
		Items:           items,
	}
}

func subscriptionBegin(aggregate *order.Order) *time.Time {
	begin, _ := aggregate.SubscriptionPeriod()
	return begin
}

func subscriptionEnd(aggregate *order.Order) *time.Time {
	_, end := aggregate.SubscriptionPeriod()
	return end
}

func specFromDomain(orderID kernel.UUID, spec *order.ItemSpecification) ItemSpecificationDTO {
	return ItemSpecificationDTO{
		ID:             spec.ID().Bytes(),
		OrderID:        orderID.Bytes(),
		ItemID:         spec.ItemID(),
		Collection:     spec.Collection(),
		Identifier:     spec.Identifier(),
		Remark:         spec.Remark(),
		Options:        optionsFromDomain(spec.Options()),
		SceneSelection: optionsFromDomain(spec.SceneSelection()),
		Payment:        spec.Payment(),
		Delivery:       deliveryFromDomain(spec.DeliveryOption()),
	}
}

func optionsFromDomain(options []order.SelectedOption) []SelectedOptionDTO {
	if len(options) == 0 {
		return nil
	}
	dtos := make([]SelectedOptionDTO, 0, len(options))
	for _, o := range options {
		dtos = append(dtos, SelectedOptionDTO{Name: o.Name(), Value: o.Value()})
	}
	return dtos
}

func deliveryFromDomain(option *order.DeliveryOption) *DeliveryOptionDTO {
	if option == nil {
		return nil
	}
	return &DeliveryOptionDTO{
		Type:                int(option.Type()),
		Protocol:            option.Protocol(),
		Copies:              option.Copies(),
		Annotation:          option.Annotation(),
		SpecialInstructions: option.SpecialInstructions(),
	}
}

// toDomain converts a database DTO to an order domain aggregate.
// Reconstructs the complete aggregate including item specifications using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	userID, err := kernel.UUIDFromBytes(dto.UserID[:])
	if err != nil {
		return nil, err
	}
	user, err := kernel.NewUser(userID, dto.UserName, dto.UserEmail)
	if err != nil {
		return nil, err
	}

	options, err := optionsToDomain(dto.Options)
	if err != nil {
		return nil, err
	}
	delivery, err := deliveryToDomain(dto.Delivery)
	if err != nil {
		return nil, err
	}

	specs := make([]*order.ItemSpecification, 0, len(dto.Items))
	for _, item := range dto.Items {
		spec, specErr := specToDomain(item)
		if specErr != nil {
			return nil, specErr
		}
		specs = append(specs, spec)
	}

	return order.RestoreOrder(order.RestoreOrderParams{
		ID:                        id,
		User:                      user,
		OrderType:                 order.Type(dto.OrderType),
		Status:                    order.Status(dto.Status),
		AdditionalStatusInfo:      dto.AdditionalStatusInfo,
		MissionSpecificStatusInfo: dto.MissionSpecificStatusInfo,
		Reference:                 dto.Reference,
		Remark:                    dto.Remark,
		Priority:                  order.Priority(dto.Priority),
		Packaging:                 dto.Packaging,
		StatusNotification:        order.StatusNotification(dto.StatusNotification),
		CreatedOn:                 dto.CreatedOn,
		StatusChangedOn:           dto.StatusChangedOn,
		CompletedOn:               dto.CompletedOn,
		LastResultAccessRequest:   dto.LastResultAccessRequest,
		SubscriptionBegin:         dto.SubscriptionBegin,
		SubscriptionEnd:           dto.SubscriptionEnd,
		EstimatedBatches:          dto.EstimatedBatches,
		Extensions:                dto.Extensions,
		Options:                   options,
		DeliveryOption:            delivery,
		DeliveryAddress:           dto.DeliveryAddress,
		InvoiceAddress:            dto.InvoiceAddress,
		ItemSpecifications:        specs,
	}), nil
}

func specToDomain(dto ItemSpecificationDTO) (*order.ItemSpecification, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	options, err := optionsToDomain(dto.Options)
	if err != nil {
		return nil, err
	}
	sceneSelection, err := optionsToDomain(dto.SceneSelection)
	if err != nil {
		return nil, err
	}
	delivery, err := deliveryToDomain(dto.Delivery)
	if err != nil {
		return nil, err
	}

	return order.RestoreItemSpecification(id, dto.ItemID, dto.Collection,
		dto.Identifier, dto.Remark, options, sceneSelection, dto.Payment, delivery), nil
}

func optionsToDomain(dtos []SelectedOptionDTO) ([]order.SelectedOption, error) {
	if len(dtos) == 0 {
		return nil, nil
	}
	options := make([]order.SelectedOption, 0, len(dtos))
	for _, dto := range dtos {
		option, err := order.NewSelectedOption(dto.Name, dto.Value)
		if err != nil {
			return nil, err
		}
		options = append(options, option)
	}
	return options, nil
}

func deliveryToDomain(dto *DeliveryOptionDTO) (*order.DeliveryOption, error) {
	if dto == nil {
		return nil, nil
	}
	option, err := order.NewDeliveryOption(order.DeliveryType(dto.Type), dto.Protocol,
		dto.Copies, dto.Annotation, dto.SpecialInstructions)
	if err != nil {
		return nil, err
	}
	return &option, nil
}
