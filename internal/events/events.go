package events

import (
	"encoding/json"
	"time"
)

const (
	// Topic carries every order lifecycle event, keyed by order id so one
	// order's events stay in partition order.
	Topic = "orders"

	EventOrderCreated = "OrderCreated"
	EventOrderUpdated = "OrderUpdated"
	EventOrderDeleted = "OrderDeleted"
)

// Envelope is the wire format for every event. Consumers dedup on event_id;
// correlation_id is always the order id.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id"`
	Payload       json.RawMessage `json:"payload"`
}

type ItemQty struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type OrderCreatedPayload struct {
	OrderID      int64     `json:"order_id"`
	CustomerName string    `json:"customer_name"`
	TotalAmount  float64   `json:"total_amount"`
	Status       string    `json:"status"`
	Items        []ItemQty `json:"items"`
}

type OrderUpdatedPayload struct {
	OrderID     int64   `json:"order_id"`
	TotalAmount float64 `json:"total_amount"`
	Status      string  `json:"status"`
}

type OrderDeletedPayload struct {
	OrderID int64 `json:"order_id"`
}

// PartitionKey keeps all events for one order on the same partition.
func PartitionKey(orderID int64) []byte {
	return []byte(formatID(orderID))
}
