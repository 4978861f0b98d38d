package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// PolicyPublisher publishes policy events to the policy_events queue.
type PolicyPublisher struct {
	conn              *Broker
	mu                sync.Mutex
	messagesPublished atomic.Int64
	messagesFailed    atomic.Int64
	lastPublishTime   atomic.Int64
}

// NewPolicyPublisher declares the queue and returns a publisher bound to it.
func NewPolicyPublisher(conn *Broker) (*PolicyPublisher, error) {
	_, err := conn.Channel.QueueDeclare(
		PolicyEventsQueue, // queue name
		true,              // durable
		false,             // delete when unused
		false,             // exclusive
		false,             // no-wait
		nil,               // arguments
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}
	return &PolicyPublisher{conn: conn}, nil
}

func (p *PolicyPublisher) PublishPolicyEvent(ctx context.Context, event PolicyEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		p.messagesFailed.Add(1)
		return fmt.Errorf("failed to marshal policy event: %w", err)
	}

	p.mu.Lock()
	err = p.conn.Channel.PublishWithContext(
		ctx,
		"",                // exchange
		PolicyEventsQueue, // routing key (queue name)
		false,             // mandatory
		false,             // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			MessageId:    event.ID,
			Type:         string(event.EventType),
			Body:         body,
			Timestamp:    event.OccurredAt,
		},
	)
	p.mu.Unlock()
	if err != nil {
		p.messagesFailed.Add(1)
		return fmt.Errorf("failed to publish policy event: %w", err)
	}

	p.messagesPublished.Add(1)
	p.lastPublishTime.Store(time.Now().UnixNano())

	slog.Info("Policy event published",
		"queue", PolicyEventsQueue,
		"event_type", event.EventType,
		"policy_id", event.PolicyID)
	return nil
}

// HealthCheck reports broker liveness and publish counters for /health.
func (p *PolicyPublisher) HealthCheck() PublisherHealthStatus {
	isHealthy := p.conn.Alive()

	var last time.Time
	if ns := p.lastPublishTime.Load(); ns > 0 {
		last = time.Unix(0, ns)
	}

	return PublisherHealthStatus{
		IsHealthy:         isHealthy,
		MessagesPublished: p.messagesPublished.Load(),
		MessagesFailed:    p.messagesFailed.Load(),
		LastPublishTime:   last,
		Queue:             PolicyEventsQueue,
	}
}

// PublisherHealthStatus is the publisher section of the health report.
type PublisherHealthStatus struct {
	IsHealthy         bool      `json:"is_healthy"`
	MessagesPublished int64     `json:"messages_published"`
	MessagesFailed    int64     `json:"messages_failed"`
	LastPublishTime   time.Time `json:"last_publish_time"`
	Queue             string    `json:"queue"`
}
