package email

import (
	"bytes"
	"context"
	"html/template"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Sender sends transactional email
type Sender interface {
	SendTemplate(ctx context.Context, to, toName, templateName, subject string, data interface{}) error
}

// Service renders templates and sends mail through an async in-process queue.
// A broker/API failure is logged, never surfaced to the request that queued it.
type Service struct {
	client       *SendGridClient
	templates    map[string]*template.Template
	baseTemplate *template.Template
	queue        chan *queuedEmail
	wg           sync.WaitGroup
}

type queuedEmail struct {
	To           string
	ToName       string
	Subject      string
	TemplateName string
	Data         interface{}
}

// NewService creates the email service and starts its worker
func NewService(config SendGridConfig) *Service {
	s := &Service{
		client:    NewSendGridClient(config),
		templates: make(map[string]*template.Template),
		queue:     make(chan *queuedEmail, 100),
	}

	s.baseTemplate, _ = template.New("base").Parse(BaseTemplate)
	s.loadTemplates()

	s.wg.Add(1)
	go s.worker()

	return s
}

func (s *Service) loadTemplates() {
	templates := map[string]string{
		"welcome":           WelcomeTemplate,
		"booking_created":   BookingCreatedTemplate,
		"booking_confirmed": BookingConfirmedTemplate,
		"booking_cancelled": BookingCancelledTemplate,
		"booking_completed": BookingCompletedTemplate,
	}

	for name, content := range templates {
		tmpl, err := template.New(name).Parse(content)
		if err != nil {
			log.Error().Err(err).Str("template", name).Msg("Failed to parse email template")
			continue
		}
		s.templates[name] = tmpl
	}
}

// SendTemplate queues a templated email for async delivery
func (s *Service) SendTemplate(ctx context.Context, to, toName, templateName, subject string, data interface{}) error {
	select {
	case s.queue <- &queuedEmail{To: to, ToName: toName, Subject: subject, TemplateName: templateName, Data: data}:
		return nil
	default:
		log.Warn().Str("template", templateName).Msg("Email queue full, dropping message")
		return nil
	}
}

// Close drains the queue and stops the worker
func (s *Service) Close() {
	close(s.queue)
	s.wg.Wait()
}

func (s *Service) worker() {
	defer s.wg.Done()
	for msg := range s.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		if err := s.send(ctx, msg); err != nil {
			log.Error().Err(err).
				Str("to", msg.To).
				Str("template", msg.TemplateName).
				Msg("Failed to send email")
		}
		cancel()
	}
}

func (s *Service) send(ctx context.Context, msg *queuedEmail) error {
	tmpl, ok := s.templates[msg.TemplateName]
	if !ok {
		log.Error().Str("template", msg.TemplateName).Msg("Unknown email template")
		return nil
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, msg.Data); err != nil {
		return err
	}

	var html bytes.Buffer
	if err := s.baseTemplate.Execute(&html, map[string]template.HTML{"Body": template.HTML(body.String())}); err != nil {
		return err
	}

	return s.client.Send(ctx, &Message{
		To:          msg.To,
		ToName:      msg.ToName,
		Subject:     msg.Subject,
		HTMLContent: html.String(),
	})
}

// NopSender is used when no SendGrid key is configured
type NopSender struct{}

func (NopSender) SendTemplate(ctx context.Context, to, toName, templateName, subject string, data interface{}) error {
	log.Debug().Str("to", to).Str("template", templateName).Msg("Email sending disabled, skipping")
	return nil
}
