package redisx

import "time"

const (
	// Cached order representation: order:{order_id} -> full order JSON.
	KeyOrder = "order:%d"

	// Projected order status, maintained by the projector from lifecycle
	// events: order_status:{order_id} -> status string.
	KeyOrderStatus = "order_status:%s"

	// Dedup for event consumers: dedup:{service}:{event_id}.
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLOrderCache  = 5 * time.Minute
	TTLStatusCache = 5 * time.Minute
	TTLDedup       = 48 * time.Hour
)
