// Package events holds the payloads published on the catalog subjects.
package events

import (
	"encoding/json"
	"time"

	"github.com/abgdnv/catalog/pkg/messaging"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/propagation"
)

// ProductCreatedEvent is published once a product has been committed.
// Carrier holds the trace context of the request that produced the event.
type ProductCreatedEvent struct {
	Carrier   propagation.MapCarrier `json:"carrier,omitempty"`
	ProductID uuid.UUID              `json:"product_id"`
	Name      string                 `json:"name"`
	SKU       string                 `json:"sku"`
	Price     string                 `json:"price"`
	CreatedAt time.Time              `json:"created_at"`
}

func (e ProductCreatedEvent) Subject() string {
	return messaging.ProductCreatedSubject
}

func (e ProductCreatedEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}

type ProductDeletedEvent struct {
	Carrier             propagation.MapCarrier `json:"carrier,omitempty"`
	ProductID           uuid.UUID              `json:"product_id"`
	DeactivatedVariants int64                  `json:"deactivated_variants"`
	DeletedAt           time.Time              `json:"deleted_at"`
}

func (e ProductDeletedEvent) Subject() string {
	return messaging.ProductDeletedSubject
}

func (e ProductDeletedEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}

// StockChangedEvent reports a change of a product's aggregate stock.
type StockChangedEvent struct {
	Carrier       propagation.MapCarrier `json:"carrier,omitempty"`
	ProductID     uuid.UUID              `json:"product_id"`
	PreviousStock int32                  `json:"previous_stock"`
	StockQuantity int32                  `json:"stock_quantity"`
	ChangedAt     time.Time              `json:"changed_at"`
}

func (e StockChangedEvent) Subject() string {
	return messaging.ProductStockChangedSubject
}

func (e StockChangedEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}
