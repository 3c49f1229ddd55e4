// internal/queue/kafka.go
package queue

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaQueue maps topics onto Kafka topics. Subscribers share a consumer
// group so each message is scored once.
type KafkaQueue struct {
	brokers    []string
	groupID    string
	writer     *kafka.Writer
	MaxRetries int
	Backoff    time.Duration
	logger     *slog.Logger

	mu      sync.Mutex
	readers []*kafka.Reader
}

func NewKafkaQueue(brokers []string, groupID string, logger *slog.Logger) *KafkaQueue {
	return &KafkaQueue{
		brokers: brokers,
		groupID: groupID,
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.LeastBytes{},
			AllowAutoTopicCreation: true,
		},
		MaxRetries: DefaultMaxRetries,
		Backoff:    500 * time.Millisecond,
		logger:     logger,
	}
}

func (q *KafkaQueue) Publish(ctx context.Context, topic string, payload []byte) error {
	return q.writer.WriteMessages(ctx, kafka.Message{Topic: topic, Value: payload})
}

// Subscribe reads topic in the background. Messages are committed after the
// handler succeeds or after MaxRetries failed attempts.
func (q *KafkaQueue) Subscribe(ctx context.Context, topic string, handler Handler) error {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers: q.brokers,
		GroupID: q.groupID,
		Topic:   topic,
	})
	q.mu.Lock()
	q.readers = append(q.readers, r)
	q.mu.Unlock()

	go func() {
		for {
			m, err := r.FetchMessage(ctx)
			if err != nil {
				if !errors.Is(err, context.Canceled) && !errors.Is(err, io.EOF) {
					q.logger.Error("kafka fetch failed", slog.String("topic", topic), slog.String("error", err.Error()))
				}
				return
			}
			q.deliver(ctx, topic, m.Value, handler)
			if err := r.CommitMessages(ctx, m); err != nil {
				q.logger.Error("kafka commit failed", slog.String("topic", topic), slog.String("error", err.Error()))
			}
		}
	}()
	return nil
}

func (q *KafkaQueue) deliver(ctx context.Context, topic string, payload []byte, handler Handler) {
	for attempt := 0; ; attempt++ {
		err := handler(ctx, payload)
		if err == nil {
			return
		}
		q.logger.Warn("kafka message failed",
			slog.String("topic", topic),
			slog.Int("attempt", attempt+1),
			slog.String("error", err.Error()),
		)
		if attempt >= q.MaxRetries {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Duration(attempt+1) * q.Backoff):
		}
	}
}

func (q *KafkaQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	var errs []error
	for _, r := range q.readers {
		errs = append(errs, r.Close())
	}
	errs = append(errs, q.writer.Close())
	return errors.Join(errs...)
}
