package queue

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"
)

// AMQPPhaseQueue publishes deferred phase jobs to RabbitMQ. The scheduled
// worker (cmd/worker) consumes them.
type AMQPPhaseQueue struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   amqp.Queue
}

func NewAMQPPhaseQueue(amqpURL string) (*AMQPPhaseQueue, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	q, err := ch.QueueDeclare(
		PhaseTopic, // name
		true,       // durable
		false,      // delete when unused
		false,      // exclusive
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	return &AMQPPhaseQueue{conn: conn, channel: ch, queue: q}, nil
}

func (a *AMQPPhaseQueue) PublishPhase(job PhaseJob) error {
	body, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return a.channel.Publish(
		"",           // exchange
		a.queue.Name, // routing key
		false,        // mandatory
		false,        // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

// Requeue republishes a failed job with an incremented retry counter. A bare
// Nack redelivery never touches headers, so retries are tracked by
// republishing instead.
func (a *AMQPPhaseQueue) Requeue(body []byte, retryCount int32) error {
	return a.channel.Publish(
		"",
		a.queue.Name,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
			Headers:     amqp.Table{"x-retry-count": retryCount},
		},
	)
}

// RetryCount reads the republish counter from a delivery's headers. Brokers
// hand integer headers back as int32 or int64 depending on origin.
func RetryCount(h amqp.Table) int32 {
	switch v := h["x-retry-count"].(type) {
	case int32:
		return v
	case int64:
		return int32(v)
	}
	return 0
}

// Consume returns the delivery stream for the phase queue. Acks are manual
// so the worker controls retries.
func (a *AMQPPhaseQueue) Consume() (<-chan amqp.Delivery, error) {
	return a.channel.Consume(
		a.queue.Name,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
}

func (a *AMQPPhaseQueue) Close() {
	if a.channel != nil {
		a.channel.Close()
	}
	if a.conn != nil {
		a.conn.Close()
	}
}

var _ PhasePublisher = (*AMQPPhaseQueue)(nil)
