// Package event publishes storefront activity to Kafka.
package event

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/utafrali/storefront/internal/domain"
	pkgkafka "github.com/utafrali/storefront/pkg/kafka"
	"github.com/utafrali/storefront/pkg/logger"
)

const (
	TopicProductDeleted = "storefront.product.deleted"
	TopicCartItemAdded  = "storefront.cart.item_added"
	TopicCartCleared    = "storefront.cart.cleared"
)

const (
	AggregateTypeProduct = "product"
	AggregateTypeCart    = "cart"
	SourceStorefront     = "storefront"
)

// Publisher announces what visitors did. Failures are reported to the
// caller, which logs them; they never reach the visitor.
type Publisher interface {
	PublishProductDeleted(ctx context.Context, productID int) error
	PublishCartItemAdded(ctx context.Context, item domain.CartItem) error
	PublishCartCleared(ctx context.Context, session string) error
}

type ProductDeletedData struct {
	ProductID int `json:"product_id"`
}

type CartItemAddedData struct {
	CartItemID   *int    `json:"cart_item_id,omitempty"`
	ProductID    int     `json:"product_id"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	Quantity     int     `json:"quantity"`
	ProductImage string  `json:"product_image,omitempty"`
}

type CartClearedData struct {
	Session string `json:"session"`
}

// EventWriter is the part of pkg/kafka.Producer used here.
type EventWriter interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Producer publishes storefront events through Kafka.
type Producer struct {
	kafka  EventWriter
	logger *slog.Logger
}

var _ Publisher = (*Producer)(nil)

func NewProducer(kafka EventWriter, logger *slog.Logger) *Producer {
	return &Producer{kafka: kafka, logger: logger}
}

func (p *Producer) PublishProductDeleted(ctx context.Context, productID int) error {
	id := strconv.Itoa(productID)
	return p.publish(ctx, TopicProductDeleted, "product.deleted", id, AggregateTypeProduct, ProductDeletedData{ProductID: productID})
}

func (p *Producer) PublishCartItemAdded(ctx context.Context, item domain.CartItem) error {
	data := CartItemAddedData{
		CartItemID:   item.ID,
		ProductID:    item.ProductID,
		Name:         item.Name,
		Price:        item.Price,
		Quantity:     item.Quantity,
		ProductImage: item.ProductImage,
	}
	return p.publish(ctx, TopicCartItemAdded, "cart.item_added", strconv.Itoa(item.ProductID), AggregateTypeCart, data)
}

func (p *Producer) PublishCartCleared(ctx context.Context, session string) error {
	return p.publish(ctx, TopicCartCleared, "cart.cleared", session, AggregateTypeCart, CartClearedData{Session: session})
}

func (p *Producer) publish(ctx context.Context, topic, eventType, aggregateID, aggregateType string, data any) error {
	event, err := pkgkafka.NewEvent(SourceStorefront, eventType,
		pkgkafka.Aggregate{Type: aggregateType, ID: aggregateID}, data,
		pkgkafka.WithCorrelationID(logger.CorrelationIDFromContext(ctx)),
		pkgkafka.WithMetadata("session_id", logger.SessionIDFromContext(ctx)),
	)
	if err != nil {
		return fmt.Errorf("create %s event: %w", eventType, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", eventType, err)
	}

	p.logger.DebugContext(ctx, "published storefront event",
		slog.String("event_type", eventType),
		slog.String("aggregate_id", aggregateID),
	)
	return nil
}

// Noop discards events. It is used when Kafka is disabled.
type Noop struct{}

var _ Publisher = Noop{}

func (Noop) PublishProductDeleted(context.Context, int) error            { return nil }
func (Noop) PublishCartItemAdded(context.Context, domain.CartItem) error { return nil }
func (Noop) PublishCartCleared(context.Context, string) error            { return nil }
