package event

import (
	"fmt"
	"log/slog"

	"insure-service/internal/config"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Broker is the single AMQP connection the service keeps open for policy
// events. Publishing goes through one channel, serialized by the publisher.
type Broker struct {
	Connection *amqp.Connection
	Channel    *amqp.Channel
}

func DialBroker(cfg config.RabbitMQConfig) (*Broker, error) {
	conn, err := amqp.Dial(cfg.URL())
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq %s:%s: %w", cfg.Host, cfg.Port, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}

	slog.Info("Policy event broker connected", "host", cfg.Host, "port", cfg.Port)
	return &Broker{Connection: conn, Channel: ch}, nil
}

// Alive is false once the server or the network has dropped the connection.
// Nothing reconnects it; publishing fails and is counted until restart.
func (b *Broker) Alive() bool {
	return b != nil && b.Connection != nil && !b.Connection.IsClosed()
}

func (b *Broker) Close() error {
	if b == nil {
		return nil
	}
	if b.Channel != nil {
		if err := b.Channel.Close(); err != nil {
			slog.Warn("Policy event channel close failed", "error", err)
		}
	}
	if b.Connection != nil {
		if err := b.Connection.Close(); err != nil {
			return fmt.Errorf("close rabbitmq connection: %w", err)
		}
	}
	slog.Info("Policy event broker closed")
	return nil
}
