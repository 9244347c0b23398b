// Package batchrepo provides data transfer objects and mapping functions for
// batch persistence. A batch row owns its order item rows; both are mapped
// back into the batch aggregate on load.
package batchrepo

import (
	"time"

	"ordering/internal/core/domain/model/batch"
	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// BatchDTO represents the database structure for persisting batch aggregates.
type BatchDTO struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID uuid.UUID `gorm:"type:uuid;index"`

	// BatchIndex orders the batches of a massive order.
	BatchIndex int

	Status               int `gorm:"index"`
	AdditionalStatusInfo string

	CreatedOn   time.Time
	UpdatedOn   time.Time
	CompletedOn *time.Time

	Timeslot   *time.Time `gorm:"index"`
	Collection string

	Items []OrderItemDTO `gorm:"foreignKey:BatchID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for batch entities.
func (BatchDTO) TableName() string {
	return "batches"
}

// OrderItemDTO represents one production item of a batch.
type OrderItemDTO struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	BatchID uuid.UUID `gorm:"type:uuid;index"`
	SpecID  uuid.UUID `gorm:"type:uuid"`

	ItemID     string
	Collection string
	Identifier string
	Remark     string

	Status                    int `gorm:"index"`
	AdditionalStatusInfo      string
	MissionSpecificStatusInfo string

	CreatedOn       time.Time
	StatusChangedOn *time.Time
	CompletedOn     *time.Time

	URL       string `gorm:"column:url"`
	Available bool
	ExpiresOn *time.Time
	Downloads int

	Options        []SelectedOptionDTO `gorm:"serializer:json;type:jsonb"`
	SceneSelection []SelectedOptionDTO `gorm:"serializer:json;type:jsonb"`
	Payment        string
	Delivery       *DeliveryOptionDTO `gorm:"serializer:json;type:jsonb"`
}

// TableName specifies the database table name for order items.
func (OrderItemDTO) TableName() string {
	return "order_items"
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

// fromDomain converts a batch aggregate to its database representation.
func fromDomain(aggregate *batch.Batch) BatchDTO {
	items := make([]OrderItemDTO, 0, len(aggregate.Items()))
	for _, item := range aggregate.Items() {
		items = append(items, itemFromDomain(aggregate.ID(), item))
	}

	return BatchDTO{
		ID:                   aggregate.ID().Bytes(),
		OrderID:              aggregate.OrderID().Bytes(),
		BatchIndex:           aggregate.Index(),
		Status:               int(aggregate.Status()),
		AdditionalStatusInfo: aggregate.AdditionalStatusInfo(),
		CreatedOn:            aggregate.CreatedOn(),
		UpdatedOn:            aggregate.UpdatedOn(),
		CompletedOn:          aggregate.CompletedOn(),
		Timeslot:             aggregate.Timeslot(),
		Collection:           aggregate.Collection(),
		Items:                items,
	}
}

func itemFromDomain(batchID kernel.UUID, item *batch.OrderItem) OrderItemDTO {
	return OrderItemDTO{
		ID:      item.ID().Bytes(),
		BatchID: batchID.Bytes(),
		SpecID:  item.SpecID().Bytes(),

		ItemID:     item.ItemID(),
		Collection: item.Collection(),
		Identifier: item.Identifier(),
		Remark:     item.Remark(),

		Status:                    int(item.Status()),
		AdditionalStatusInfo:      item.AdditionalStatusInfo(),
		MissionSpecificStatusInfo: item.MissionSpecificStatusInfo(),

		CreatedOn:       item.CreatedOn(),
		StatusChangedOn: item.StatusChangedOn(),
		CompletedOn:     item.CompletedOn(),

		URL:       item.URL(),
		Available: item.IsAvailable(),
		ExpiresOn: item.ExpiresOn(),
		Downloads: item.Downloads(),

		Options:        optionsFromDomain(item.Options()),
		SceneSelection: optionsFromDomain(item.SceneSelection()),
		Payment:        item.Payment(),
		Delivery:       deliveryFromDomain(item.DeliveryOption()),
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

// toDomain converts a database DTO to a batch aggregate.
func toDomain(dto BatchDTO) (*batch.Batch, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	items := make([]*batch.OrderItem, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, itemErr := itemToDomain(itemDTO)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return batch.RestoreBatch(batch.RestoreBatchParams{
		ID:                   id,
		OrderID:              orderID,
		Index:                dto.BatchIndex,
		Status:               order.Status(dto.Status),
		AdditionalStatusInfo: dto.AdditionalStatusInfo,
		CreatedOn:            dto.CreatedOn,
		UpdatedOn:            dto.UpdatedOn,
		CompletedOn:          dto.CompletedOn,
		Timeslot:             dto.Timeslot,
		Collection:           dto.Collection,
		Items:                items,
	}), nil
}

func itemToDomain(dto OrderItemDTO) (*batch.OrderItem, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	specID, err := kernel.UUIDFromBytes(dto.SpecID[:])
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

	return batch.RestoreOrderItem(batch.RestoreOrderItemParams{
		ID:                        id,
		SpecID:                    specID,
		ItemID:                    dto.ItemID,
		Collection:                dto.Collection,
		Identifier:                dto.Identifier,
		Remark:                    dto.Remark,
		Status:                    order.Status(dto.Status),
		AdditionalStatusInfo:      dto.AdditionalStatusInfo,
		MissionSpecificStatusInfo: dto.MissionSpecificStatusInfo,
		CreatedOn:                 dto.CreatedOn,
		StatusChangedOn:           dto.StatusChangedOn,
		CompletedOn:               dto.CompletedOn,
		URL:                       dto.URL,
		Available:                 dto.Available,
		ExpiresOn:                 dto.ExpiresOn,
		Downloads:                 dto.Downloads,
		Options:                   options,
		SceneSelection:            sceneSelection,
		Payment:                   dto.Payment,
		DeliveryOption:            delivery,
	}), nil
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
