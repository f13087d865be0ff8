package events

import (
	"encoding/json"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
)

type capturePublisher struct {
	keys    [][]byte
	values  [][]byte
	headers [][]kafkago.Header
	full    bool
}

func (c *capturePublisher) Publish(key, value []byte, headers ...kafkago.Header) bool {
	if c.full {
		return false
	}
	c.keys = append(c.keys, key)
	c.values = append(c.values, value)
	c.headers = append(c.headers, headers)
	return true
}

func TestNotifierOrderCreated(t *testing.T) {
	pub := &capturePublisher{}
	n := &Notifier{Producer: pub, Service: "test-api"}

	n.OrderCreated(42, "Alice", 99.5, "pending", []ItemQty{{ProductID: 7, Quantity: 2}})

	if len(pub.values) != 1 {
		t.Fatalf("published %d messages, want 1", len(pub.values))
	}
	if string(pub.keys[0]) != "42" {
		t.Errorf("partition key = %q, want order id", pub.keys[0])
	}

	var env Envelope
	if err := json.Unmarshal(pub.values[0], &env); err != nil {
		t.Fatalf("envelope decode: %v", err)
	}
	if env.EventType != EventOrderCreated {
		t.Errorf("event_type = %q", env.EventType)
	}
	if env.EventID == "" {
		t.Error("event_id missing")
	}
	if env.EventVersion != 1 {
		t.Errorf("event_version = %d", env.EventVersion)
	}
	if env.CorrelationID != "42" {
		t.Errorf("correlation_id = %q", env.CorrelationID)
	}
	if env.Producer != "test-api" {
		t.Errorf("producer = %q", env.Producer)
	}

	var body OrderCreatedPayload
	if err := json.Unmarshal(env.Payload, &body); err != nil {
		t.Fatalf("payload decode: %v", err)
	}
	if body.OrderID != 42 || body.CustomerName != "Alice" || len(body.Items) != 1 {
		t.Errorf("payload = %+v", body)
	}

	if len(pub.headers[0]) != 2 || pub.headers[0][0].Key != "x-event-type" {
		t.Errorf("headers = %+v", pub.headers[0])
	}
}

func TestNotifierEventIDsUnique(t *testing.T) {
	pub := &capturePublisher{}
	n := &Notifier{Producer: pub, Service: "test-api"}

	n.OrderDeleted(1)
	n.OrderDeleted(1)

	var a, b Envelope
	if err := json.Unmarshal(pub.values[0], &a); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(pub.values[1], &b); err != nil {
		t.Fatal(err)
	}
	// Same order, same kind: consumers dedup on event_id, so replayed emits
	// must still carry distinct ids while correlation stays stable.
	if a.EventID == b.EventID {
		t.Error("event ids not unique")
	}
	if a.CorrelationID != b.CorrelationID {
		t.Error("correlation ids differ for the same order")
	}
}

func TestNotifierDroppedDoesNotPanic(t *testing.T) {
	n := &Notifier{Producer: &capturePublisher{full: true}, Service: "test-api"}
	n.OrderUpdated(9, 10.0, "updated") // must not panic or return anything
}
