package events

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gofiber/fiber/v2/log"
	"github.com/streadway/amqp"
)

type (
	Publisher interface {
		Publish(ctx context.Context, queue string, payload any) error
		Close() error
	}

	Consumer interface {
		// Consume blocks until ctx is cancelled or the delivery channel closes.
		Consume(ctx context.Context, queue string, handler func(body []byte) error) error
	}

	RabbitMQ struct {
		mu      sync.Mutex
		conn    *amqp.Connection
		channel *amqp.Channel
	}

	noopPublisher struct{}
)

func NewRabbitMQ(url string) (*RabbitMQ, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		log.Errorf("failed to connect to rabbitmq: %v", err)
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		log.Errorf("failed to open a rabbitmq channel: %v", err)
		conn.Close()
		return nil, err
	}

	log.Info("connected to rabbitmq")
	return &RabbitMQ{conn: conn, channel: ch}, nil
}

func (r *RabbitMQ) declare(queue string) (amqp.Queue, error) {
	return r.channel.QueueDeclare(
		queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
}

func (r *RabbitMQ) Publish(_ context.Context, queue string, payload any) error {
	body, err := Encode(payload)
	if err != nil {
		return err
	}

	// amqp channels are not safe for concurrent publishing
	r.mu.Lock()
	defer r.mu.Unlock()

	q, err := r.declare(queue)
	if err != nil {
		log.Errorf("failed to declare queue %s: %v", queue, err)
		return err
	}

	if err := r.channel.Publish("", q.Name, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
	}); err != nil {
		log.Errorf("failed to publish to queue %s: %v", queue, err)
		return err
	}
	return nil
}

func (r *RabbitMQ) Consume(ctx context.Context, queue string, handler func(body []byte) error) error {
	r.mu.Lock()
	q, err := r.declare(queue)
	if err != nil {
		r.mu.Unlock()
		return err
	}
	msgs, err := r.channel.Consume(q.Name, "", false, false, false, false, nil)
	r.mu.Unlock()
	if err != nil {
		log.Errorf("failed to register consumer for queue %s: %v", queue, err)
		return err
	}

	log.Infof("waiting for messages on queue %s", q.Name)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			if err := handler(d.Body); err != nil {
				log.Errorf("failed to handle message on queue %s: %v", queue, err)
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (r *RabbitMQ) Close() error {
	var lastErr error
	if r.channel != nil {
		if err := r.channel.Close(); err != nil {
			lastErr = err
		}
	}
	if r.conn != nil {
		if err := r.conn.Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(_ context.Context, queue string, _ any) error {
	log.Debugf("event for queue %s dropped, no broker configured", queue)
	return nil
}

func (noopPublisher) Close() error {
	return nil
}

func Encode(payload any) ([]byte, error) {
	if body, ok := payload.([]byte); ok {
		return body, nil
	}
	return json.Marshal(payload)
}
