// Package suppression records addresses that must not receive bulk mail
// again, together with the raw bounce and complaint events that justify
// those decisions.
//
// A suppression is terminal state keyed by (email, user): repeated triggers
// update the reason and timestamp of the existing record instead of adding
// rows, so writes are idempotent under webhook redelivery. Bounce and
// complaint logs are append-only and exist for audit, not for lookup.
package suppression

import (
	"context"
	"time"
)

// Reason classifies why an address was suppressed.
type Reason string

const (
	ReasonOneClick      Reason = "one-click-unsubscribe"
	ReasonOneClickPost  Reason = "one-click-unsubscribe-post"
	ReasonHardBounce    Reason = "auto-unsubscribe-hard-bounce"
	ReasonSpamComplaint Reason = "auto-unsubscribe-complaint"
)

// Record is one active suppression. At most one exists per (Email, UserID).
type Record struct {
	Email     string
	UserID    string // empty when the address is not tied to an account
	Reason    Reason
	CreatedAt time.Time
}

// BounceEvent is one provider bounce notification, kept verbatim.
type BounceEvent struct {
	Email      string
	Reason     string
	BounceType string // "hard" or "soft"
	MessageID  string
	RecordedAt time.Time
}

// ComplaintEvent is one spam complaint notification, kept verbatim.
type ComplaintEvent struct {
	Email      string
	Reason     string
	MessageID  string
	RecordedAt time.Time
}

// Store is the durable suppression collaborator required by the pipeline.
// Implementations must make Upsert idempotent and safe under concurrent
// delivery of the same provider event.
type Store interface {
	// UpsertSuppression creates the suppression for (email, userID) or,
	// if one exists, refreshes its reason and timestamp.
	UpsertSuppression(ctx context.Context, email, userID string, reason Reason) error
	// RecordBounce appends one bounce event to the audit log.
	RecordBounce(ctx context.Context, email, reason, bounceType, messageID string) error
	// RecordComplaint appends one complaint event to the audit log.
	RecordComplaint(ctx context.Context, email, reason, messageID string) error
}
