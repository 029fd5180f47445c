package event

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/livecommerce/backend/internal/domain/shared"
	"github.com/livecommerce/backend/internal/infrastructure/config"
	"github.com/livecommerce/backend/internal/infrastructure/logger"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ErrForwarderClosed is returned when writing after Close
var ErrForwarderClosed = errors.New("kafka forwarder closed")

// MessageWriter is the subset of *kafka.Writer used by the forwarder
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaForwarder subscribes to every domain event and republishes it to a
// Kafka topic as a JSON envelope keyed by aggregate id. Delivery is
// best-effort: events are queued without blocking the publisher and dropped
// with a warning when the queue is full.
type KafkaForwarder struct {
	writer     MessageWriter
	serializer *EventSerializer
	logger     *zap.Logger

	inbox   chan kafka.Message
	done    chan struct{}
	mu      sync.RWMutex
	closed  bool
	started bool
}

// NewKafkaWriter builds the writer used in production
func NewKafkaWriter(cfg config.KafkaConfig) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 50 * time.Millisecond,
	}
}

// NewKafkaForwarder creates a forwarder over writer with a queue of size buffer
func NewKafkaForwarder(writer MessageWriter, serializer *EventSerializer, log *zap.Logger, buffer int) *KafkaForwarder {
	if buffer <= 0 {
		buffer = 1
	}
	return &KafkaForwarder{
		writer:     writer,
		serializer: serializer,
		logger:     log.Named("kafka_forwarder"),
		inbox:      make(chan kafka.Message, buffer),
		done:       make(chan struct{}),
	}
}

// EventTypes returns nil so the forwarder receives every event
func (f *KafkaForwarder) EventTypes() []string {
	return nil
}

// Handle encodes the event and queues it for delivery
func (f *KafkaForwarder) Handle(ctx context.Context, evt shared.DomainEvent) error {
	value, err := f.serializer.Encode(evt, logger.GetRequestID(ctx))
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Key:   []byte(evt.AggregateID().String()),
		Value: value,
		Time:  evt.OccurredAt(),
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(evt.EventType())},
		},
	}

	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.closed {
		return ErrForwarderClosed
	}
	select {
	case f.inbox <- msg:
	default:
		f.logger.Warn("event queue full, dropping event",
			zap.String("event_type", evt.EventType()),
			zap.String("event_id", evt.EventID().String()),
		)
	}
	return nil
}

// Start runs the delivery loop until Close is called
func (f *KafkaForwarder) Start(ctx context.Context) {
	f.mu.Lock()
	if f.started {
		f.mu.Unlock()
		return
	}
	f.started = true
	f.mu.Unlock()

	go func() {
		defer close(f.done)
		for msg := range f.inbox {
			f.write(msg)
		}
	}()
}

// Close stops accepting events, flushes the queue and closes the writer.
// ctx bounds how long the flush may take.
func (f *KafkaForwarder) Close(ctx context.Context) error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil
	}
	f.closed = true
	close(f.inbox)
	started := f.started
	f.mu.Unlock()

	if started {
		select {
		case <-f.done:
		case <-ctx.Done():
			f.logger.Warn("flush interrupted", zap.Int("pending", len(f.inbox)))
		}
	}
	return f.writer.Close()
}

func (f *KafkaForwarder) write(msg kafka.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := f.writer.WriteMessages(ctx, msg); err != nil {
		f.logger.Error("publish event failed",
			zap.ByteString("key", msg.Key),
			zap.Error(err),
		)
	}
}

var _ shared.EventHandler = (*KafkaForwarder)(nil)
