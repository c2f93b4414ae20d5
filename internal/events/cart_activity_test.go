package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/premaicommerce/hypestorefront/internal/cartsync"
)

func TestBuildCartLineChangedEvent(t *testing.T) {
	now := time.Date(2025, time.March, 5, 12, 0, 0, 0, time.UTC)
	change := cartsync.LineChange{
		CartID:      "cart_1",
		VariantID:   "v1",
		LineItemID:  "item_1",
		Action:      cartsync.ActionUpdated,
		OldQuantity: 1,
		NewQuantity: 2,
	}

	env, err := BuildCartLineChangedEvent(change, EnvelopeOptions{
		EventID:       "evt_1",
		CorrelationID: "corr_1",
		Sequence:      7,
		OccurredAt:    now,
	})
	if err != nil {
		t.Fatalf("build event: %v", err)
	}

	if env.EventName != CartLineChangedEventName {
		t.Fatalf("unexpected event name %s", env.EventName)
	}
	if env.EventVersion != CartLineChangedEventVersion {
		t.Fatalf("unexpected event version %d", env.EventVersion)
	}
	if env.EventID != "evt_1" {
		t.Fatalf("expected provided event id to be used, got %s", env.EventID)
	}
	if env.PartitionKey != change.CartID {
		t.Fatalf("expected partition key %s, got %s", change.CartID, env.PartitionKey)
	}
	if env.Sequence != 7 {
		t.Fatalf("expected sequence 7, got %d", env.Sequence)
	}
	if env.CorrelationID != "corr_1" {
		t.Fatalf("unexpected correlation id %s", env.CorrelationID)
	}
	if !env.OccurredAt.Equal(now) {
		t.Fatalf("unexpected occurredAt %s", env.OccurredAt)
	}
	if err := env.Validate(CartLineChangedEventName, CartLineChangedEventVersion); err != nil {
		t.Fatalf("envelope invalid: %v", err)
	}

	var payload CartLineChangedPayload
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.CartID != "cart_1" || payload.VariantID != "v1" || payload.LineItemID != "item_1" {
		t.Fatalf("unexpected payload ids: %+v", payload)
	}
	if payload.Action != cartsync.ActionUpdated || payload.OldQuantity != 1 || payload.NewQuantity != 2 {
		t.Fatalf("unexpected payload change: %+v", payload)
	}
}

func TestBuildCartLineChangedEventDefaults(t *testing.T) {
	env, err := BuildCartLineChangedEvent(cartsync.LineChange{
		CartID:      "cart_1",
		VariantID:   "v1",
		Action:      cartsync.ActionAdded,
		NewQuantity: 1,
	}, EnvelopeOptions{})
	if err != nil {
		t.Fatalf("build event: %v", err)
	}
	if env.EventID == "" {
		t.Fatal("expected generated event id")
	}
	if env.OccurredAt.IsZero() {
		t.Fatal("expected occurredAt to be set")
	}
}

func TestEnvelopeValidate(t *testing.T) {
	env := EventEnvelope{
		EventName:    CartLineChangedEventName,
		EventVersion: CartLineChangedEventVersion,
		EventID:      "evt_1",
		PartitionKey: "cart_1",
	}
	if err := env.Validate(CartLineChangedEventName, CartLineChangedEventVersion); err != nil {
		t.Fatalf("valid envelope rejected: %v", err)
	}

	bad := env
	bad.PartitionKey = ""
	if err := bad.Validate(CartLineChangedEventName, CartLineChangedEventVersion); err == nil {
		t.Fatal("expected missing partition key to be rejected")
	}

	bad = env
	bad.EventName = "other"
	if err := bad.Validate(CartLineChangedEventName, CartLineChangedEventVersion); err == nil {
		t.Fatal("expected wrong name to be rejected")
	}
}
