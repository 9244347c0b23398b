package processor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/domain/services"
	"ordering/internal/core/ports"

	"github.com/google/uuid"
)

// ExampleProcessor is a do-nothing item processor that documents the
// contract a real production backend has to fulfil. It produces no
// files; preparation and delivery return deterministic locations built
// from the configured site domain so that the rest of the pipeline can
// be exercised end to end.
type ExampleProcessor struct {
	settings ports.Settings
	logger   *slog.Logger
}

// NewExampleProcessor creates the example processor.
func NewExampleProcessor(settings ports.Settings, logger *slog.Logger) *ExampleProcessor {
	return &ExampleProcessor{
		settings: settings,
		logger:   logger.With("component", "example_processor"),
	}
}

// ParseOption accepts any raw value as-is, trimmed of surrounding
// whitespace. A real implementation decodes the request encoding of
// each option here.
func (p *ExampleProcessor) ParseOption(_ context.Context, _ string, rawValue string) (string, error) {
	return strings.TrimSpace(rawValue), nil
}

// ResolveCollection maps a product identifier to its collection by
// matching the configured collection names against the identifier
// prefix. A real implementation queries the catalogue of each
// configured endpoint instead.
func (p *ExampleProcessor) ResolveCollection(_ context.Context, identifier string) (string, error) {
	for _, collection := range p.settings.Collections {
		if strings.HasPrefix(strings.ToLower(identifier), strings.ToLower(collection.Name)) {
			return collection.Name, nil
		}
	}
	if len(p.settings.Collections) == 1 {
		return p.settings.Collections[0].Name, nil
	}
	return "", fmt.Errorf("could not resolve the collection of %q", identifier)
}

// OrderDuration reads the period covered by a massive order item from
// its date range option, defaulting to the thirty days before now when
// the option is absent.
func (p *ExampleProcessor) OrderDuration(_ context.Context,
	spec *order.ItemSpecification) (time.Time, time.Time, error) {
	raw, ok := order.FindOption(spec.Options(), services.DateRangeOption)
	if !ok {
		raw, ok = order.FindOption(spec.SceneSelection(), services.DateRangeOption)
	}
	if ok {
		parts := strings.Fields(raw)
		if len(parts) != 2 {
			return time.Time{}, time.Time{}, fmt.Errorf("malformed date range %q", raw)
		}
		begin, err := time.Parse(time.RFC3339, parts[0])
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("malformed date range %q: %w", raw, err)
		}
		end, err := time.Parse(time.RFC3339, parts[1])
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("malformed date range %q: %w", raw, err)
		}
		return begin, end, nil
	}

	end := time.Now().UTC()
	return end.AddDate(0, 0, -30), end, nil
}

// EstimateItems pretends every day of the period yields one product.
func (p *ExampleProcessor) EstimateItems(_ context.Context, _ string, begin time.Time,
	end time.Time) (int, error) {
	if !end.After(begin) {
		return 0, nil
	}
	return int(end.Sub(begin).Hours()/24) + 1, nil
}

// BatchItemIdentifiers fabricates sequential identifiers for one batch
// of a massive order.
func (p *ExampleProcessor) BatchItemIdentifiers(_ context.Context, collection string,
	_ time.Time, _ time.Time, batchIndex int, itemsPerBatch int) ([]string, error) {
	identifiers := make([]string, 0, itemsPerBatch)
	for i := 0; i < itemsPerBatch; i++ {
		identifiers = append(identifiers,
			fmt.Sprintf("%s-%d-%d", collection, batchIndex, i))
	}
	return identifiers, nil
}

// SubscriptionItemIdentifiers fabricates one identifier per timeslot.
func (p *ExampleProcessor) SubscriptionItemIdentifiers(_ context.Context, collection string,
	timeslot time.Time, _ []order.SelectedOption) ([]string, error) {
	return []string{
		fmt.Sprintf("%s-%s", collection, timeslot.UTC().Format("20060102T150405")),
	}, nil
}

// PrepareItem pretends to produce the item and returns a staging
// location.
func (p *ExampleProcessor) PrepareItem(ctx context.Context,
	item ports.ProcessableItem) (string, error) {
	p.logger.DebugContext(ctx, "Pretending to produce an item",
		"order_id", item.OrderID.String(), "item_id", item.ItemID)
	return fmt.Sprintf("/staging/%s/%s", item.OrderID.String(), item.ItemID), nil
}

// DeliverItem publishes the prepared item under the configured site
// domain and returns the retrieval URL.
func (p *ExampleProcessor) DeliverItem(ctx context.Context, item ports.ProcessableItem,
	preparedLocation string) (string, error) {
	p.logger.DebugContext(ctx, "Pretending to deliver an item",
		"order_id", item.OrderID.String(), "item_id", item.ItemID,
		"prepared", preparedLocation)

	token := uuid.NewSHA1(uuid.NameSpaceURL,
		[]byte(item.OrderID.String()+"/"+item.ItemID))
	return fmt.Sprintf("https://%s/downloads/%s/%s/%s",
		p.settings.SiteDomain, item.OrderID.String(), token.String(), item.ItemID), nil
}

// CleanItem pretends to delete the produced file.
func (p *ExampleProcessor) CleanItem(ctx context.Context, url string) error {
	p.logger.DebugContext(ctx, "Pretending to delete a produced file", "url", url)
	return nil
}
