package events

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/nroussel/orderdesk/internal/redisx"
)

// Requires a running Redis; set TEST_REDIS_ADDR to enable.

func testRedis(t *testing.T) *Projector {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	rdb := redisx.New(addr)
	t.Cleanup(func() { _ = rdb.Close() })
	return &Projector{Redis: rdb, ServiceName: fmt.Sprintf("projector-test-%d", time.Now().UnixNano())}
}

func message(t *testing.T, eventType string, orderID int64, payload any) kafkago.Message {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	env := Envelope{
		EventID:       fmt.Sprintf("ev-%s-%d-%d", eventType, orderID, time.Now().UnixNano()),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      "test",
		CorrelationID: fmt.Sprintf("%d", orderID),
		Payload:       body,
	}
	value, err := json.Marshal(env)
	if err != nil {
		t.Fatal(err)
	}
	return kafkago.Message{Key: PartitionKey(orderID), Value: value}
}

func TestProjectorStatusLifecycle(t *testing.T) {
	p := testRedis(t)
	ctx := context.Background()

	m := message(t, EventOrderCreated, 42, OrderCreatedPayload{OrderID: 42, Status: "pending"})
	if err := p.Handle(ctx, m); err != nil {
		t.Fatalf("handle created: %v", err)
	}
	key := fmt.Sprintf(redisx.KeyOrderStatus, "42")
	got, err := p.Redis.Get(ctx, key).Result()
	if err != nil || got != "pending" {
		t.Fatalf("status = %q err = %v, want pending", got, err)
	}

	// Replay of the exact same message is a no-op even after state moved on.
	if err := p.Redis.Set(ctx, key, "updated", redisx.TTLStatusCache).Err(); err != nil {
		t.Fatal(err)
	}
	if err := p.Handle(ctx, m); err != nil {
		t.Fatalf("handle replay: %v", err)
	}
	got, _ = p.Redis.Get(ctx, key).Result()
	if got != "updated" {
		t.Fatalf("replay re-applied stale status: %q", got)
	}

	if err := p.Handle(ctx, message(t, EventOrderDeleted, 42, OrderDeletedPayload{OrderID: 42})); err != nil {
		t.Fatalf("handle deleted: %v", err)
	}
	if n, _ := p.Redis.Exists(ctx, key).Result(); n != 0 {
		t.Fatal("status key survived deletion event")
	}
}

func TestProjectorMalformedMessageCommits(t *testing.T) {
	p := testRedis(t)
	if err := p.Handle(context.Background(), kafkago.Message{Value: []byte("not json")}); err != nil {
		t.Fatalf("malformed message must be dropped, got %v", err)
	}
}
