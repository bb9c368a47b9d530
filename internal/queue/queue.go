// Package queue wraps the AMQP work queue used to hand ride-end jobs from
// the Ride Coordinator to the Ride Aggregator, with header-based bounded
// retry and poison-message discard.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/wihwin/helmet-core/internal/config"
)

const retryCountHeader = "x-retry-count"

// RideEndJob is the payload published when a ride transitions to ending.
// EndTime is captured by the publisher before the asynchronous publish
// step, not re-derived by the aggregator, so every consumer agrees on the
// moment the ride actually ended.
type RideEndJob struct {
	RideID  string    `json:"rideId"`
	EndTime time.Time `json:"endTime"`
}

// Client wraps a durable AMQP connection/channel pair.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
}

// Connect dials the broker and declares the durable work queue.
func Connect(cfg config.QueueConfig) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("queue: dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("queue: open channel: %w", err)
	}

	if err := ch.Qos(1, 0, false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("queue: set qos: %w", err)
	}

	_, err = ch.QueueDeclare(cfg.QueueName, true, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("queue: declare %s: %w", cfg.QueueName, err)
	}

	return &Client{conn: conn, channel: ch, queue: cfg.QueueName}, nil
}

// PublishRideEnd publishes a ride.end job as a persistent message.
func (c *Client) PublishRideEnd(ctx context.Context, job RideEndJob) error {
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("queue: marshal ride end job: %w", err)
	}

	return c.channel.PublishWithContext(ctx, "", c.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
		Headers:      amqp.Table{retryCountHeader: int32(0)},
	})
}

// Handler processes one delivered ride.end job. Returning an error causes
// the job to be requeued with its retry count incremented, until the count
// reaches the maxRetries bound passed to Consume, after which it is
// discarded as poison.
type Handler func(ctx context.Context, job RideEndJob) error

// Consume runs handler over deliveries until ctx is cancelled, acking on
// success and applying bounded retry on failure. maxRetries bounds the
// number of redeliveries (internal/config.AggregatorConfig.MaxRetries)
// before a message is discarded as poison.
func (c *Client) Consume(ctx context.Context, maxRetries int, handler Handler) error {
	deliveries, err := c.channel.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue: consume %s: %w", c.queue, err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("queue: delivery channel closed for %s", c.queue)
			}
			c.handleDelivery(ctx, d, maxRetries, handler)
		}
	}
}

func (c *Client) handleDelivery(ctx context.Context, d amqp.Delivery, maxRetries int, handler Handler) {
	var job RideEndJob
	if err := json.Unmarshal(d.Body, &job); err != nil {
		log.Printf("[queue] discarding unparsable message: %v", err)
		_ = d.Nack(false, false)
		return
	}

	if err := handler(ctx, job); err != nil {
		attempts := retryCount(d.Headers)
		if attempts >= maxRetries {
			log.Printf("[queue] ride %s exceeded %d retries, discarding: %v", job.RideID, maxRetries, err)
			_ = d.Nack(false, false)
			return
		}
		log.Printf("[queue] ride %s handler failed (retry %d): %v", job.RideID, attempts+1, err)
		c.requeueWithIncrementedRetry(ctx, d, job, attempts+1)
		return
	}

	_ = d.Ack(false)
}

// requeueWithIncrementedRetry republishes the job with an incremented
// x-retry-count header and acks the original delivery; amqp091-go has no
// built-in per-message retry counter, so the count is carried explicitly.
func (c *Client) requeueWithIncrementedRetry(ctx context.Context, d amqp.Delivery, job RideEndJob, attempts int) {
	body, err := json.Marshal(job)
	if err != nil {
		_ = d.Nack(false, false)
		return
	}

	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = c.channel.PublishWithContext(pubCtx, "", c.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
		Headers:      amqp.Table{retryCountHeader: int32(attempts)},
	})
	if err != nil {
		log.Printf("[queue] failed to republish ride %s retry %d: %v", job.RideID, attempts, err)
		_ = d.Nack(false, true)
		return
	}
	_ = d.Ack(false)
}

func retryCount(headers amqp.Table) int {
	v, ok := headers[retryCountHeader]
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case int32:
		return int(n)
	case int64:
		return int(n)
	case int:
		return n
	default:
		return 0
	}
}

// Close shuts down the channel and connection.
func (c *Client) Close() error {
	chErr := c.channel.Close()
	connErr := c.conn.Close()
	if chErr != nil {
		return chErr
	}
	return connErr
}
