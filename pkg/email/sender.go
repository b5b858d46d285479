package email

import "context"

// Sender delivers a single rendered email. Implementations are one provider
// backend each; retry and header policy live in the decorators and the
// orchestrator, not here.
type Sender interface {
	SendEmail(ctx context.Context, params SendEmailParams) error
}

// SendEmailParams carries one fully rendered outbound message.
type SendEmailParams struct {
	From     string            `json:"from,omitempty"` // Sender address; empty means the backend default
	SendTo   string            `json:"send_to"`        // Recipient address
	Subject  string            `json:"subject"`        // Message subject
	BodyHTML string            `json:"body_html"`      // Rendered HTML body
	Headers  map[string]string `json:"headers,omitempty"`
	Tag      string            `json:"tag,omitempty"` // Optional provider-side classification tag
}
