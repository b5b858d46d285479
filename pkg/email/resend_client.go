package email

import (
	"context"
	"errors"
	"fmt"

	"github.com/resend/resend-go/v2"
)

type resendClient struct {
	client *resend.Client
	config Config
}

// NewResendClient creates a Resend-backed email sender.
// The API key and a valid sender address are required here rather than at
// send time so a misconfigured production deployment fails on startup.
func NewResendClient(cfg Config) (Sender, error) {
	if cfg.ResendAPIKey == "" {
		return nil, fmt.Errorf("%w: ResendAPIKey is required", ErrInvalidConfig)
	}
	if cfg.SenderEmail == "" {
		return nil, fmt.Errorf("%w: SenderEmail is required", ErrInvalidConfig)
	}
	if !emailRegex.MatchString(cfg.SenderEmail) {
		return nil, fmt.Errorf("%w: SenderEmail must be a valid email address", ErrInvalidConfig)
	}

	return &resendClient{
		client: resend.NewClient(cfg.ResendAPIKey),
		config: cfg,
	}, nil
}

// MustNewResendClient creates a Resend client that panics on invalid config.
func MustNewResendClient(cfg Config) Sender {
	client, err := NewResendClient(cfg)
	if err != nil {
		panic(err)
	}
	return client
}

// SendEmail implements Sender using Resend's transactional API. The caller's
// From wins over the configured default so campaign mail can use a distinct
// sending identity.
func (c *resendClient) SendEmail(ctx context.Context, params SendEmailParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	from := params.From
	if from == "" {
		from = c.config.SenderEmail
	}

	_, err := c.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    from,
		To:      []string{params.SendTo},
		Subject: params.Subject,
		Html:    params.BodyHTML,
		Headers: params.Headers,
	})
	if err != nil {
		return errors.Join(ErrFailedToSendEmail, err)
	}
	return nil
}
