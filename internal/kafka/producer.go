package kafka

import (
	"context"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

// Producer decouples publishing from the request path: Publish only enqueues
// onto the inbox, a dedicated goroutine drains it to the broker. A slow or
// down broker can therefore never stall an HTTP handler or re-open a
// committed transaction.
type Producer struct {
	w       *kafka.Writer
	inbox   chan kafka.Message
	closeCh chan struct{}
}

func NewProducer(brokers []string, topic string, buf int) *Producer {
	return &Producer{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			WriteTimeout: 5 * time.Second,
		},
		inbox:   make(chan kafka.Message, buf),
		closeCh: make(chan struct{}),
	}
}

func (p *Producer) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				// Flush whatever is already queued, then stop. The inbox is
				// left open: late Publish calls fall into the full/ignored
				// path instead of panicking on a closed channel.
				for {
					select {
					case m := <-p.inbox:
						p.write(m)
						continue
					default:
					}
					break
				}
				_ = p.w.Close()
				close(p.closeCh)
				return
			case m, ok := <-p.inbox:
				if !ok {
					_ = p.w.Close()
					close(p.closeCh)
					return
				}
				p.write(m)
			}
		}
	}()
}

func (p *Producer) write(m kafka.Message) {
	if err := p.w.WriteMessages(context.Background(), m); err != nil {
		slog.Error("kafka write", "topic", p.w.Topic, "err", err)
	}
}

// Publish enqueues without blocking. Returns false when the inbox is full;
// the caller decides whether a drop matters.
func (p *Producer) Publish(key, value []byte, headers ...kafka.Header) bool {
	select {
	case p.inbox <- kafka.Message{Key: key, Value: value, Time: time.Now(), Headers: headers}:
		return true
	default:
		return false
	}
}

// Close stops accepting messages; the drain goroutine flushes what is left.
func (p *Producer) Close() { close(p.inbox) }

// WaitClosed blocks until the drain goroutine has flushed and exited.
func (p *Producer) WaitClosed() { <-p.closeCh }
