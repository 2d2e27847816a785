package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/barberqueue/barberqueue-api/internal/config"
	"github.com/barberqueue/barberqueue-api/internal/domain/notification"
	"github.com/barberqueue/barberqueue-api/internal/pkg/database"
	"github.com/barberqueue/barberqueue-api/internal/pkg/email"
	"github.com/barberqueue/barberqueue-api/internal/pkg/logger"
	"github.com/barberqueue/barberqueue-api/internal/pkg/queue"
)

// worker turns booking events into notification rows and transactional email
type worker struct {
	notifications *notification.Service
	mailer        email.Sender
}

func main() {
	cfg := config.Load()
	logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env})

	if cfg.AMQPURL == "" {
		log.Fatal().Msg("AMQP_URL is required for the notify worker")
	}

	log.Info().Str("env", cfg.Env).Msg("Starting BarberQueue notify worker")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	redis, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redis)

	// The hub publishes pushes through Redis Pub/Sub; API instances deliver
	// them to connected websocket clients.
	var hub *notification.Hub
	if redis != nil {
		hub = notification.NewHub(redis)
		defer hub.Shutdown()
	}

	var mailer email.Sender
	if cfg.SendGridAPIKey != "" {
		emailService := email.NewService(email.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.EmailFrom,
			FromName:  cfg.EmailFromName,
		})
		defer emailService.Close()
		mailer = emailService
	} else {
		mailer = email.NopSender{}
	}

	w := &worker{
		notifications: notification.NewService(notification.NewRepository(db), hub),
		mailer:        mailer,
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Info().Msg("Shutting down")
		cancel()
	}()

	if err := queue.Consume(ctx, cfg.AMQPURL, w.handle); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("Consumer stopped")
	}
}

func (w *worker) handle(ctx context.Context, event queue.BookingEvent) error {
	switch event.Type {
	case queue.EventBookingCreated:
		return w.bookingCreated(ctx, event)
	case queue.EventBookingStatusChanged:
		return w.statusChanged(ctx, event)
	default:
		log.Warn().Str("type", event.Type).Msg("Unknown booking event type, dropping")
		return nil
	}
}

func (w *worker) bookingCreated(ctx context.Context, event queue.BookingEvent) error {
	body := fmt.Sprintf("Your booking at %s for %s is awaiting confirmation.", event.BranchName, event.StartAt)
	if _, err := w.notifications.Notify(ctx, event.ClientID, notification.TypeBookingCreated, "Booking received", body); err != nil {
		return err
	}

	staffBody := fmt.Sprintf("New booking at %s for %s.", event.BranchName, event.StartAt)
	if _, err := w.notifications.Notify(ctx, event.StaffID, notification.TypeBookingCreated, "New booking", staffBody); err != nil {
		return err
	}

	w.email(ctx, event, "booking_created", "Booking received")
	return nil
}

func (w *worker) statusChanged(ctx context.Context, event queue.BookingEvent) error {
	var ntype, title, template, subject string
	switch event.Status {
	case "confirmed":
		ntype, title = notification.TypeBookingConfirmed, "Booking confirmed"
		template, subject = "booking_confirmed", "Booking confirmed"
	case "completed":
		ntype, title = notification.TypeBookingCompleted, "Visit completed"
		template, subject = "booking_completed", "Thanks for your visit"
	case "cancelled":
		ntype, title = notification.TypeBookingCancelled, "Booking cancelled"
		template, subject = "booking_cancelled", "Booking cancelled"
	default:
		log.Warn().Str("status", event.Status).Msg("Unknown booking status, dropping")
		return nil
	}

	body := fmt.Sprintf("Your booking at %s for %s is now %s.", event.BranchName, event.StartAt, event.Status)
	if _, err := w.notifications.Notify(ctx, event.ClientID, ntype, title, body); err != nil {
		return err
	}

	w.email(ctx, event, template, subject)
	return nil
}

// email sends the client-facing email for an event. Best effort: a missing
// address or send failure never fails event handling.
func (w *worker) email(ctx context.Context, event queue.BookingEvent, template, subject string) {
	if event.ClientEmail == "" {
		return
	}

	data := map[string]interface{}{
		"Name":          event.ClientName,
		"BranchName":    event.BranchName,
		"StartAt":       event.StartAt,
		"TotalPrice":    event.TotalPrice,
		"TotalDuration": event.TotalDuration,
	}
	if err := w.mailer.SendTemplate(ctx, event.ClientEmail, event.ClientName, template, subject, data); err != nil {
		log.Warn().Err(err).Int64("booking_id", event.BookingID).Msg("Failed to queue email")
	}
}
