// Package pubsub publishes purchase lifecycle events for downstream consumers
// (receipt mail, analytics). Publishing is best-effort: the purchase workflow
// logs failures and keeps going.
package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"app/internal/config"

	"cloud.google.com/go/pubsub"
)

// PurchaseEvent is the payload published when a purchase completes.
type PurchaseEvent struct {
	PurchaseID  string    `json:"purchase_id"`
	CourseID    string    `json:"course_id"`
	UserID      string    `json:"user_id"`
	AmountCents int64     `json:"amount_cents"`
	CompletedAt time.Time `json:"completed_at"`
}

// Publisher defines an interface for publishing purchase events.
type Publisher interface {
	PublishPurchaseCompleted(ctx context.Context, event PurchaseEvent) (string, error)
}

// PubSubPublisher is an implementation of Publisher using Google Pub/Sub.
type PubSubPublisher struct {
	client *pubsub.Client
	topic  string
}

// NewPublisher creates a new PubSubPublisher using the GCP project and topic
// from config.
func NewPublisher(ctx context.Context, cfg *config.Config) (*PubSubPublisher, error) {
	client, err := pubsub.NewClient(ctx, cfg.GCPProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Pub/Sub client: %w", err)
	}
	return &PubSubPublisher{client: client, topic: cfg.PurchaseEventsTopic}, nil
}

// PublishPurchaseCompleted sends the event to the purchase events topic and
// returns the message ID.
func (p *PubSubPublisher) PublishPurchaseCompleted(ctx context.Context, event PurchaseEvent) (string, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return "", fmt.Errorf("failed to marshal purchase event: %w", err)
	}
	t := p.client.Topic(p.topic)
	result := t.Publish(ctx, &pubsub.Message{Data: data})
	id, err := result.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to publish message to topic %s: %w", p.topic, err)
	}
	return id, nil
}
