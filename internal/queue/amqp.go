// internal/queue/amqp.go
package queue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"
)

const retryHeader = "x-retry-count"

// AMQPQueue maps topics onto durable RabbitMQ queues on the default exchange.
type AMQPQueue struct {
	conn       *amqp.Connection
	ch         *amqp.Channel
	MaxRetries int
	logger     *slog.Logger
}

func DialAMQP(url string, logger *slog.Logger) (*AMQPQueue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.Qos(1, 0, false); err != nil {
		conn.Close()
		return nil, fmt.Errorf("set qos: %w", err)
	}
	return &AMQPQueue{conn: conn, ch: ch, MaxRetries: DefaultMaxRetries, logger: logger}, nil
}

func (q *AMQPQueue) declare(topic string) error {
	_, err := q.ch.QueueDeclare(
		topic, // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	return err
}

func (q *AMQPQueue) Publish(_ context.Context, topic string, payload []byte) error {
	return q.publish(topic, payload, 0)
}

func (q *AMQPQueue) publish(topic string, payload []byte, retries int) error {
	if err := q.declare(topic); err != nil {
		return fmt.Errorf("declare queue %s: %w", topic, err)
	}
	return q.ch.Publish(
		"",
		topic,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Headers:      amqp.Table{retryHeader: int32(retries)},
			Body:         payload,
		},
	)
}

// Subscribe consumes topic until ctx is done or the channel closes. Failed
// deliveries are republished with an incremented retry header and dropped
// once MaxRetries is exceeded.
func (q *AMQPQueue) Subscribe(ctx context.Context, topic string, handler Handler) error {
	if err := q.declare(topic); err != nil {
		return fmt.Errorf("declare queue %s: %w", topic, err)
	}
	msgs, err := q.ch.Consume(
		topic,
		"",
		false, // autoAck = false for reliability
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-msgs:
				if !ok {
					q.logger.Warn("amqp delivery channel closed", slog.String("topic", topic))
					return
				}
				q.deliver(ctx, topic, d, handler)
			}
		}
	}()
	return nil
}

func (q *AMQPQueue) deliver(ctx context.Context, topic string, d amqp.Delivery, handler Handler) {
	err := handler(ctx, d.Body)
	if err == nil {
		d.Ack(false)
		return
	}

	retries := retryCount(d.Headers)
	q.logger.Warn("delivery failed",
		slog.String("topic", topic),
		slog.Int("retry", retries),
		slog.String("error", err.Error()),
	)
	if retries >= q.MaxRetries {
		d.Nack(false, false)
		return
	}
	if err := q.publish(topic, d.Body, retries+1); err != nil {
		q.logger.Error("requeue failed", slog.String("error", err.Error()))
		d.Nack(false, true)
		return
	}
	d.Ack(false)
}

func retryCount(h amqp.Table) int {
	switch v := h[retryHeader].(type) {
	case int32:
		return int(v)
	case int64:
		return int(v)
	case int:
		return v
	}
	return 0
}

func (q *AMQPQueue) Close() error {
	if err := q.ch.Close(); err != nil {
		q.conn.Close()
		return err
	}
	return q.conn.Close()
}
