// Package messaging defines the event publishing contract used by the services.
package messaging

import (
	"context"
)

const (
	ProductSubjects            = "catalog.product.*"
	ProductCreatedSubject      = "catalog.product.created"
	ProductDeletedSubject      = "catalog.product.deleted"
	ProductStockChangedSubject = "catalog.product.stock_changed"
)

type Event interface {
	Subject() string
	Payload() ([]byte, error)
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NoopPublisher discards every event. It is used when messaging is disabled.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }
