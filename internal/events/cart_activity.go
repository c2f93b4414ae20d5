package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/premaicommerce/hypestorefront/internal/cartsync"
	"github.com/premaicommerce/hypestorefront/internal/middleware"
	"github.com/premaicommerce/hypestorefront/internal/sequence"
)

const (
	CartLineChangedEventName    = "cart.linechanged"
	CartLineChangedEventVersion = 1
)

// CartLineChangedPayload records one confirmed quantity change on a cart
// line, with the quantity before and after so consumers need no prior state.
type CartLineChangedPayload struct {
	CartID      string    `json:"cartId"`
	VariantID   string    `json:"variantId"`
	LineItemID  string    `json:"lineItemId,omitempty"`
	Action      string    `json:"action"`
	OldQuantity int       `json:"oldQuantity"`
	NewQuantity int       `json:"newQuantity"`
	Timestamp   time.Time `json:"timestamp"`
}

type publishChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Publisher emits cart activity events to the storefront topic exchange.
// Publishing is best-effort: a broker failure is logged, never surfaced into
// the mutation path.
type Publisher struct {
	ch      publishChannel
	seqRepo *sequence.Repository
	logger  *log.Logger
}

func NewPublisher(conn *amqp.Connection, seqRepo *sequence.Repository, logger *log.Logger) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := declareEventsExchange(ch); err != nil {
		return nil, fmt.Errorf("declare events exchange: %w", err)
	}

	return &Publisher{ch: ch, seqRepo: seqRepo, logger: logger}, nil
}

func (p *Publisher) Close() error {
	if c, ok := p.ch.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

// RecordLineChange implements cartsync.ActivityRecorder.
func (p *Publisher) RecordLineChange(ctx context.Context, change cartsync.LineChange) {
	if err := p.publishCartLineChanged(ctx, change); err != nil {
		p.logger.Printf("publish cart.linechanged: %v", err)
	}
}

func (p *Publisher) publishCartLineChanged(ctx context.Context, change cartsync.LineChange) error {
	var seq int64
	if p.seqRepo != nil {
		next, err := p.seqRepo.Next(ctx, change.CartID)
		if err != nil {
			return fmt.Errorf("sequence for cart %s: %w", change.CartID, err)
		}
		seq = next
	}

	env, err := BuildCartLineChangedEvent(change, EnvelopeOptions{
		EventID:       uuid.NewString(),
		CorrelationID: middleware.GetCorrelationID(ctx),
		Sequence:      seq,
		OccurredAt:    time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	return p.ch.PublishWithContext(ctx, EventsExchange, CartLineChangedRoutingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    env.EventID,
		Timestamp:    env.OccurredAt,
		Body:         body,
	})
}

type EnvelopeOptions struct {
	EventID       string
	CorrelationID string
	Sequence      int64
	OccurredAt    time.Time
}

// BuildCartLineChangedEvent wraps a line change in the v1 envelope. The
// partition key is the cart id so per-cart ordering survives routing.
func BuildCartLineChangedEvent(change cartsync.LineChange, opts EnvelopeOptions) (EventEnvelope, error) {
	payload := CartLineChangedPayload{
		CartID:      change.CartID,
		VariantID:   change.VariantID,
		LineItemID:  change.LineItemID,
		Action:      change.Action,
		OldQuantity: change.OldQuantity,
		NewQuantity: change.NewQuantity,
		Timestamp:   opts.OccurredAt,
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return EventEnvelope{}, fmt.Errorf("marshal payload: %w", err)
	}

	eventID := opts.EventID
	if eventID == "" {
		eventID = uuid.NewString()
	}
	occurred := opts.OccurredAt
	if occurred.IsZero() {
		occurred = time.Now().UTC()
	}

	return EventEnvelope{
		EventName:     CartLineChangedEventName,
		EventVersion:  CartLineChangedEventVersion,
		EventID:       eventID,
		CorrelationID: opts.CorrelationID,
		Producer:      producerName,
		PartitionKey:  change.CartID,
		Sequence:      opts.Sequence,
		OccurredAt:    occurred,
		Payload:       raw,
	}, nil
}
