package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// SendGridConfig holds SendGrid configuration
type SendGridConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
}

// SendGridClient sends emails via the SendGrid REST API
type SendGridClient struct {
	config     SendGridConfig
	httpClient *http.Client
}

// NewSendGridClient creates a new SendGrid email client
func NewSendGridClient(config SendGridConfig) *SendGridClient {
	return &SendGridClient{
		config: config,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Message represents an email to send
type Message struct {
	To          string
	ToName      string
	Subject     string
	HTMLContent string
	TextContent string
}

type sendGridRequest struct {
	Personalizations []sendGridPersonalization `json:"personalizations"`
	From             sendGridEmail             `json:"from"`
	Subject          string                    `json:"subject"`
	Content          []sendGridContent         `json:"content"`
}

type sendGridPersonalization struct {
	To []sendGridEmail `json:"to"`
}

type sendGridEmail struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sendGridContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Send sends an email via SendGrid
func (c *SendGridClient) Send(ctx context.Context, msg *Message) error {
	request := sendGridRequest{
		Personalizations: []sendGridPersonalization{
			{
				To: []sendGridEmail{
					{Email: msg.To, Name: msg.ToName},
				},
			},
		},
		From: sendGridEmail{
			Email: c.config.FromEmail,
			Name:  c.config.FromName,
		},
		Subject: msg.Subject,
		Content: []sendGridContent{},
	}

	if msg.TextContent != "" {
		request.Content = append(request.Content, sendGridContent{
			Type:  "text/plain",
			Value: msg.TextContent,
		})
	}
	if msg.HTMLContent != "" {
		request.Content = append(request.Content, sendGridContent{
			Type:  "text/html",
			Value: msg.HTMLContent,
		})
	}

	body, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", "https://api.sendgrid.com/v3/mail/send", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
	}

	return nil
}
