package queue

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

// Publisher publishes booking events to RabbitMQ. A nil *Publisher is valid
// and publishes nothing, mirroring the optional-Redis convention: the broker
// is not required to run the API.
type Publisher struct {
	url string

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewPublisher connects to the broker and declares the booking events queue.
// Returns nil when url is empty.
func NewPublisher(url string) (*Publisher, error) {
	if url == "" {
		log.Warn().Msg("AMQP URL not configured, booking events disabled")
		return nil, nil
	}

	p := &Publisher{url: url}
	if err := p.connect(); err != nil {
		return nil, err
	}

	log.Info().Msg("Connected to RabbitMQ")
	return p, nil
}

func (p *Publisher) connect() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return err
	}

	// Durable so events survive broker restarts
	if _, err := ch.QueueDeclare(QueueBookingEvents, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return err
	}

	p.conn = conn
	p.ch = ch
	return nil
}

// PublishBookingEvent publishes an event, reconnecting once on a stale
// connection. Errors are returned for the caller to log; callers must not
// fail the originating request on a publish error.
func (p *Publisher) PublishBookingEvent(ctx context.Context, event BookingEvent) error {
	if p == nil {
		return nil
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.ch.PublishWithContext(ctx, "", QueueBookingEvents, false, false, pub)
	if err != nil {
		log.Warn().Err(err).Msg("Publish failed, reconnecting to RabbitMQ")
		if rerr := p.connect(); rerr != nil {
			return rerr
		}
		return p.ch.PublishWithContext(ctx, "", QueueBookingEvents, false, false, pub)
	}
	return nil
}

// Close closes the broker connection
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}
