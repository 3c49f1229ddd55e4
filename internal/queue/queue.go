// internal/queue/queue.go
package queue

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Handler processes one message. A non-nil error asks the transport to
// retry the message.
type Handler func(ctx context.Context, payload []byte) error

// Queue interface
type Queue interface {
	Publish(ctx context.Context, topic string, payload []byte) error
	Subscribe(ctx context.Context, topic string, handler Handler) error
	Close() error
}

const DefaultMaxRetries = 3

// InMemoryQueue delivers messages to in-process subscribers with retry
type InMemoryQueue struct {
	mu         sync.Mutex
	handlers   map[string][]Handler
	wg         sync.WaitGroup
	MaxRetries int
	Backoff    time.Duration
	logger     *slog.Logger
}

// NewInMemoryQueue creates a new queue
func NewInMemoryQueue(logger *slog.Logger) *InMemoryQueue {
	return &InMemoryQueue{
		handlers:   make(map[string][]Handler),
		MaxRetries: DefaultMaxRetries,
		Backoff:    500 * time.Millisecond,
		logger:     logger,
	}
}

// job wraps a message payload with retry info
type job struct {
	topic      string
	payload    []byte
	retryCount int
}

// Publish sends a message to all subscribers
func (q *InMemoryQueue) Publish(ctx context.Context, topic string, payload []byte) error {
	q.mu.Lock()
	handlers := q.handlers[topic]
	q.mu.Unlock()

	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for topic %s", topic)
	}

	for _, handler := range handlers {
		q.wg.Add(1)
		go q.processJob(ctx, handler, job{topic: topic, payload: payload})
	}
	return nil
}

// processJob handles retries and errors
func (q *InMemoryQueue) processJob(ctx context.Context, handler Handler, j job) {
	defer q.wg.Done()
	for {
		err := handler(ctx, j.payload)
		if err == nil {
			return
		}

		j.retryCount++
		q.logger.Warn("job failed",
			slog.String("topic", j.topic),
			slog.Int("attempt", j.retryCount),
			slog.String("error", err.Error()),
		)
		if j.retryCount > q.MaxRetries {
			q.logger.Error("job permanently failed", slog.String("topic", j.topic), slog.Int("attempts", j.retryCount))
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Duration(j.retryCount) * q.Backoff):
		}
	}
}

// Subscribe adds a handler for a topic
func (q *InMemoryQueue) Subscribe(_ context.Context, topic string, handler Handler) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.handlers[topic] = append(q.handlers[topic], handler)
	return nil
}

// Close waits for in-flight jobs.
func (q *InMemoryQueue) Close() error {
	q.wg.Wait()
	return nil
}
