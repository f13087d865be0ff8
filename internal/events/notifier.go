package events

import (
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/nroussel/orderdesk/internal/metrics"
)

// Publisher enqueues a message for asynchronous delivery. Returns false when
// the message could not be queued (outbox full or closed).
type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header) bool
}

// Notifier emits order lifecycle events. Fire-and-forget: no method returns an
// error, failures are logged and counted. Callers invoke it only after their
// transaction committed, so no event ever describes an aborted attempt.
type Notifier struct {
	Producer Publisher
	Service  string
	Metrics  *metrics.Registry
}

func (n *Notifier) OrderCreated(orderID int64, customerName string, totalAmount float64, status string, items []ItemQty) {
	n.emit(EventOrderCreated, orderID, OrderCreatedPayload{
		OrderID:      orderID,
		CustomerName: customerName,
		TotalAmount:  totalAmount,
		Status:       status,
		Items:        items,
	})
}

func (n *Notifier) OrderUpdated(orderID int64, totalAmount float64, status string) {
	n.emit(EventOrderUpdated, orderID, OrderUpdatedPayload{OrderID: orderID, TotalAmount: totalAmount, Status: status})
}

func (n *Notifier) OrderDeleted(orderID int64) {
	n.emit(EventOrderDeleted, orderID, OrderDeletedPayload{OrderID: orderID})
}

func (n *Notifier) emit(eventType string, orderID int64, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		slog.Error("event payload marshal", "event_type", eventType, "order_id", orderID, "err", err)
		return
	}
	ev := Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      n.Service,
		CorrelationID: formatID(orderID),
		Payload:       body,
	}
	value, err := json.Marshal(ev)
	if err != nil {
		slog.Error("event envelope marshal", "event_type", eventType, "order_id", orderID, "err", err)
		return
	}

	ok := n.Producer.Publish(PartitionKey(orderID), value,
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
	if !ok {
		slog.Warn("event dropped, outbox full", "event_type", eventType, "order_id", orderID)
		if n.Metrics != nil {
			n.Metrics.EventsDropped.Inc()
		}
		return
	}
	if n.Metrics != nil {
		n.Metrics.EventsPublished.Inc()
	}
}

func formatID(id int64) string { return strconv.FormatInt(id, 10) }
