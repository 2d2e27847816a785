package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

// Handler processes one booking event. A returned error rejects the message
// without requeueing it, to avoid tight redelivery loops.
type Handler func(ctx context.Context, event BookingEvent) error

// Consume connects to the broker and processes booking events until ctx is
// cancelled. It runs a reconnect loop with capped exponential backoff.
func Consume(ctx context.Context, url string, handler Handler) error {
	backoff := time.Second
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		conn, err := amqp.Dial(url)
		if err != nil {
			log.Error().Err(err).Dur("backoff", backoff).Msg("Failed to dial RabbitMQ, retrying")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		if err := consumeLoop(ctx, conn, handler); err != nil {
			if errors.Is(err, context.Canceled) {
				conn.Close()
				return err
			}
			log.Error().Err(err).Msg("Consume loop ended, reconnecting")
		}
		conn.Close()
		time.Sleep(2 * time.Second)
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, handler Handler) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer ch.Close()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Warn().Err(err).Msg("Failed to set QoS")
	}

	if _, err := ch.QueueDeclare(QueueBookingEvents, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(QueueBookingEvents, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			var event BookingEvent
			if err := json.Unmarshal(d.Body, &event); err != nil {
				log.Error().Err(err).Msg("Malformed booking event, rejecting")
				_ = d.Nack(false, false)
				continue
			}
			if err := handler(ctx, event); err != nil {
				log.Error().Err(err).Int64("booking_id", event.BookingID).Msg("Failed to handle booking event")
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}
