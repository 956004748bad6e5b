package notifier

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gofrs/uuid"
	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// DefaultDialTimeout bounds the connection to the broker, handshake included.
const DefaultDialTimeout = 2 * time.Second

type rabbitmq struct {
	mu       sync.Mutex
	url      string
	exchange string
	timeout  time.Duration
	conn     *amqp.Connection
	channel  *amqp.Channel
}

// NewAMQP returns a Notifier publishing events on the given topic exchange.
// The routing key of a message is the event's kind.
// Connecting (and reconnecting) gives up after timeout, DefaultDialTimeout when zero.
func NewAMQP(url, exchange string, timeout time.Duration) (Notifier, error) {
	if timeout <= 0 {
		timeout = DefaultDialTimeout
	}

	n := &rabbitmq{
		url:      url,
		exchange: exchange,
		timeout:  timeout,
	}
	return n, n.connect()
}

func (n *rabbitmq) connect() error {
	conn, err := amqp.DialConfig(n.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(n.timeout),
	})
	if err != nil {
		return errors.Wrap(err, "could not connect to RabbitMQ")
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return errors.Wrap(err, "could not open channel")
	}

	err = channel.ExchangeDeclare(
		n.exchange, // name
		"topic",    // type
		true,       // durable
		false,      // auto-deleted
		false,      // internal
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return errors.Wrap(err, "could not declare exchange")
	}

	n.conn = conn
	n.channel = channel
	return nil
}

// Publish sends the event, reconnecting once if the connection was lost.
func (n *rabbitmq) Publish(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "could not marshal event")
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.conn == nil || n.conn.IsClosed() {
		logrus.Warn("RabbitMQ connection closed, reconnecting")
		if err = n.connect(); err != nil {
			return err
		}
	}

	err = n.channel.PublishWithContext(
		ctx,
		n.exchange, // exchange
		event.Kind, // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
			Timestamp:    time.Now(),
			MessageId:    uuid.Must(uuid.NewV4()).String(),
		},
	)
	if err != nil {
		return errors.Wrap(err, "could not publish event")
	}

	logrus.WithFields(logrus.Fields{
		"routing_key": event.Kind,
		"exchange":    n.exchange,
		"item_id":     event.ItemID,
	}).Debug("Event published")
	return nil
}

// Close closes the channel and the connection.
func (n *rabbitmq) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.channel != nil {
		if err := n.channel.Close(); err != nil {
			logrus.WithError(err).Error("Failed to close RabbitMQ channel")
		}
	}
	if n.conn != nil {
		return errors.Wrap(n.conn.Close(), "could not close RabbitMQ connection")
	}
	return nil
}
