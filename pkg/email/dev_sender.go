package email

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// DevSender implements Sender for local development. Instead of calling a
// provider it writes the message body and metadata to disk and logs a
// file:// preview URL, mirroring the mailbox-preview workflow of sandbox
// SMTP services without any network dependency.
type DevSender struct {
	dir string
	log *slog.Logger
}

// NewDevSender creates a development sender that saves emails under dir.
// The directory is created on first send.
func NewDevSender(dir string, log *slog.Logger) Sender {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &DevSender{dir: dir, log: log}
}

type devEmailMetadata struct {
	Timestamp string            `json:"timestamp"`
	From      string            `json:"from,omitempty"`
	SendTo    string            `json:"send_to"`
	Subject   string            `json:"subject"`
	Headers   map[string]string `json:"headers,omitempty"`
	Tag       string            `json:"tag,omitempty"`
}

// SendEmail saves the message as an HTML file plus a JSON metadata sidecar.
func (d *DevSender) SendEmail(ctx context.Context, params SendEmailParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(d.dir, 0755); err != nil {
		return fmt.Errorf("%w: failed to create directory: %v", ErrFailedToSendEmail, err)
	}

	now := time.Now()

	identifier := params.Tag
	if identifier == "" {
		identifier = params.Subject
	}
	base := fmt.Sprintf("%s_%s", now.Format("2006_01_02_150405"), sanitizeFilename(identifier))

	htmlPath := filepath.Join(d.dir, base+".html")
	if err := os.WriteFile(htmlPath, []byte(params.BodyHTML), 0644); err != nil {
		return fmt.Errorf("%w: failed to write HTML file: %v", ErrFailedToSendEmail, err)
	}

	meta := devEmailMetadata{
		Timestamp: now.Format(time.RFC3339),
		From:      params.From,
		SendTo:    params.SendTo,
		Subject:   params.Subject,
		Headers:   params.Headers,
		Tag:       params.Tag,
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: failed to marshal metadata: %v", ErrFailedToSendEmail, err)
	}
	if err := os.WriteFile(filepath.Join(d.dir, base+".json"), data, 0644); err != nil {
		return fmt.Errorf("%w: failed to write JSON file: %v", ErrFailedToSendEmail, err)
	}

	if abs, err := filepath.Abs(htmlPath); err == nil {
		htmlPath = abs
	}
	d.log.InfoContext(ctx, "email captured for preview",
		slog.String("preview_url", "file://"+htmlPath),
		slog.String("send_to", params.SendTo),
		slog.String("subject", params.Subject),
	)

	return nil
}

var sanitizeRegex = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

// sanitizeFilename converts an arbitrary identifier into a safe, lowercase
// filename fragment.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = sanitizeRegex.ReplaceAllString(s, "")

	const maxLength = 100
	if len(s) > maxLength {
		s = s[:maxLength]
	}
	if s == "" {
		s = "email"
	}
	return strings.ToLower(s)
}
