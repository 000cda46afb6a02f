package nats

import (
	"context"
	"fmt"

	"github.com/abgdnv/catalog/pkg/messaging"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// NatsPublisher publishes catalog events to JetStream as JSON messages.
type NatsPublisher struct {
	js jetstream.JetStream
}

func NewNatsPublisher(js jetstream.JetStream) *NatsPublisher {
	return &NatsPublisher{js: js}
}

// Publish waits for the stream acknowledgement. Every message carries a unique
// Nats-Msg-Id so the stream drops duplicates of a retried publish.
func (p *NatsPublisher) Publish(ctx context.Context, event messaging.Event) error {
	msg, err := newMsg(event)
	if err != nil {
		return err
	}
	if _, err = p.js.PublishMsg(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", msg.Subject, err)
	}
	return nil
}

func newMsg(event messaging.Event) (*nats.Msg, error) {
	data, err := event.Payload()
	if err != nil {
		return nil, fmt.Errorf("failed to get event payload: %w", err)
	}
	msg := nats.NewMsg(event.Subject())
	msg.Data = data
	msg.Header.Set(nats.MsgIdHdr, uuid.NewString())
	msg.Header.Set("Content-Type", "application/json")
	return msg, nil
}
