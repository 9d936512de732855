package resend

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"

	"titledoctor/internal/worker"
)

type emailsAPI interface {
	SendWithContext(ctx context.Context, req *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// Client dispatches transactional email through the Resend API.
type Client struct {
	emails emailsAPI
	apiKey string
}

func NewClient(apiKey string) *Client {
	return &Client{emails: resend.NewClient(apiKey).Emails, apiKey: apiKey}
}

func (c *Client) Send(ctx context.Context, email worker.Email) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("Resend API key not configured")
	}

	sent, err := c.emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    email.From,
		To:      []string{email.To},
		Subject: email.Subject,
		Text:    email.Text,
	})
	if err != nil {
		return "", fmt.Errorf("resend dispatch: %w", err)
	}

	slog.DebugContext(ctx, "email dispatched", "to", email.To, "email_id", sent.Id)
	return sent.Id, nil
}
