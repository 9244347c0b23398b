package cmd

import (
	"fmt"
	"os"

	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/ports"

	"gopkg.in/yaml.v3"
)

// The settings file mirrors ports.Settings but keys order type policies
// by the wire name (PRODUCT_ORDER, SUBSCRIPTION_ORDER, ...) instead of
// the internal enum.
type settingsFile struct {
	SiteDomain            string                         `yaml:"site_domain"`
	MaxOrderItems         int                            `yaml:"max_order_items"`
	MaxActiveItems        int                            `yaml:"max_active_items"`
	MassiveOrderMaxSize   int                            `yaml:"massive_order_max_size"`
	MassiveItemsPerBatch  int                            `yaml:"massive_items_per_batch"`
	MaxProcessingAttempts int                            `yaml:"max_processing_attempts"`
	OrderTypes            map[string]orderTypeSection    `yaml:"order_types"`
	Collections           []collectionSection            `yaml:"collections"`
	ProcessingOptions     []processingOptionSection      `yaml:"processing_options"`
}

type orderTypeSection struct {
	Enabled              bool `yaml:"enabled"`
	AutomaticApproval    bool `yaml:"automatic_approval"`
	NotifyCreation       bool `yaml:"notify_creation"`
	ItemAvailabilityDays int  `yaml:"item_availability_days"`
}

type collectionSection struct {
	Name                    string                `yaml:"name"`
	CatalogueEndpoint       string                `yaml:"catalogue_endpoint"`
	CollectionID            string                `yaml:"collection_id"`
	SubscriptionPeriodHours int                   `yaml:"subscription_period_hours"`
	ProductOrders           collectionTypeSection `yaml:"product_orders"`
	MassiveOrders           collectionTypeSection `yaml:"massive_orders"`
	SubscriptionOrders      collectionTypeSection `yaml:"subscription_orders"`
	TaskingOrders           collectionTypeSection `yaml:"tasking_orders"`
}

type collectionTypeSection struct {
	Enabled                     bool     `yaml:"enabled"`
	Options                     []string `yaml:"options"`
	OnlineDataAccessProtocols   []string `yaml:"online_data_access_protocols"`
	OnlineDataDeliveryProtocols []string `yaml:"online_data_delivery_protocols"`
	MediaDeliveryMedia          []string `yaml:"media_delivery_media"`
}

type processingOptionSection struct {
	Name            string   `yaml:"name"`
	Description     string   `yaml:"description"`
	Choices         []string `yaml:"choices"`
	MultipleEntries bool     `yaml:"multiple_entries"`
}

// LoadSettings reads the deployment configuration from a YAML file.
func LoadSettings(path string) (ports.Settings, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return ports.Settings{}, fmt.Errorf("read settings file: %w", err)
	}

	var file settingsFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return ports.Settings{}, fmt.Errorf("parse settings file: %w", err)
	}

	settings := ports.Settings{
		SiteDomain:            file.SiteDomain,
		MaxOrderItems:         file.MaxOrderItems,
		MaxActiveItems:        file.MaxActiveItems,
		MassiveOrderMaxSize:   file.MassiveOrderMaxSize,
		MassiveItemsPerBatch:  file.MassiveItemsPerBatch,
		MaxProcessingAttempts: file.MaxProcessingAttempts,
		OrderTypes:            make(map[order.Type]ports.OrderTypeConfig, len(file.OrderTypes)),
	}

	for name, section := range file.OrderTypes {
		orderType, err := order.ParseType(name)
		if err != nil {
			return ports.Settings{}, fmt.Errorf("settings order type %q: %w", name, err)
		}
		settings.OrderTypes[orderType] = ports.OrderTypeConfig{
			Enabled:              section.Enabled,
			AutomaticApproval:    section.AutomaticApproval,
			NotifyCreation:       section.NotifyCreation,
			ItemAvailabilityDays: section.ItemAvailabilityDays,
		}
	}

	for _, section := range file.Collections {
		settings.Collections = append(settings.Collections, ports.CollectionConfig{
			Name:                    section.Name,
			CatalogueEndpoint:       section.CatalogueEndpoint,
			CollectionID:            section.CollectionID,
			SubscriptionPeriodHours: section.SubscriptionPeriodHours,
			ProductOrders:           section.ProductOrders.toConfig(),
			MassiveOrders:           section.MassiveOrders.toConfig(),
			SubscriptionOrders:      section.SubscriptionOrders.toConfig(),
			TaskingOrders:           section.TaskingOrders.toConfig(),
		})
	}

	for _, section := range file.ProcessingOptions {
		settings.ProcessingOptions = append(settings.ProcessingOptions, ports.OptionConfig{
			Name:            section.Name,
			Description:     section.Description,
			Choices:         section.Choices,
			MultipleEntries: section.MultipleEntries,
		})
	}

	return settings, nil
}

func (s collectionTypeSection) toConfig() ports.CollectionTypeConfig {
	return ports.CollectionTypeConfig{
		Enabled:                     s.Enabled,
		Options:                     s.Options,
		OnlineDataAccessProtocols:   s.OnlineDataAccessProtocols,
		OnlineDataDeliveryProtocols: s.OnlineDataDeliveryProtocols,
		MediaDeliveryMedia:          s.MediaDeliveryMedia,
	}
}
