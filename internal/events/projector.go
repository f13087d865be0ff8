package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/nroussel/orderdesk/internal/redisx"
)

// Projector consumes the orders topic and keeps a per-order status projection
// in Redis. Delivery is at-least-once, so every event is deduped on event_id
// before it is applied; replays are dropped, never re-applied.
type Projector struct {
	Redis       *redis.Client
	ServiceName string
}

// Handle is wired as the consumer handler. Returning nil commits the offset.
func (p *Projector) Handle(ctx context.Context, m kafkago.Message) error {
	var env Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		// Malformed message: log and commit, retrying will not fix it.
		slog.Error("projector: bad envelope", "err", err)
		return nil
	}

	dkey := fmt.Sprintf(redisx.KeyDedup, p.ServiceName, env.EventID)
	seen, err := redisx.Exists(ctx, p.Redis, dkey)
	if err != nil {
		return err
	}
	if seen {
		return nil
	}

	skey := fmt.Sprintf(redisx.KeyOrderStatus, env.CorrelationID)
	switch env.EventType {
	case EventOrderCreated:
		var body OrderCreatedPayload
		if err := json.Unmarshal(env.Payload, &body); err != nil {
			slog.Error("projector: bad payload", "event_type", env.EventType, "err", err)
			return nil
		}
		if err := p.Redis.Set(ctx, skey, body.Status, redisx.TTLStatusCache).Err(); err != nil {
			return err
		}
	case EventOrderUpdated:
		var body OrderUpdatedPayload
		if err := json.Unmarshal(env.Payload, &body); err != nil {
			slog.Error("projector: bad payload", "event_type", env.EventType, "err", err)
			return nil
		}
		if err := p.Redis.Set(ctx, skey, body.Status, redisx.TTLStatusCache).Err(); err != nil {
			return err
		}
	case EventOrderDeleted:
		if err := p.Redis.Del(ctx, skey).Err(); err != nil {
			return err
		}
	default:
		return nil
	}

	return p.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()
}
