// Package unsubscribe implements signed unsubscribe links: issuing the
// token embedded in outbound List-Unsubscribe headers and serving the
// endpoint that honors it.
package unsubscribe

import (
	"io"
	"log/slog"
	"time"

	"github.com/inboxlab/mailroom/pkg/token"
)

// TokenTTL is how long an unsubscribe link stays valid after issuance.
const TokenTTL = 7 * 24 * time.Hour

// TokenPayload is the claim set carried by an unsubscribe token. Short JSON
// keys keep the resulting URL compact.
type TokenPayload struct {
	Email    string `json:"e"`
	UserID   string `json:"u,omitempty"`
	ExpireAt int64  `json:"exp"` // Unix seconds
}

// Codec issues and verifies unsubscribe tokens with a server-held secret.
type Codec struct {
	secret string
	ttl    time.Duration
	now    func() time.Time
	log    *slog.Logger
}

// CodecOption overrides Codec defaults.
type CodecOption func(*Codec)

// WithTTL changes the token lifetime, primarily for tests.
func WithTTL(ttl time.Duration) CodecOption {
	return func(c *Codec) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock substitutes the time source, for expiry tests.
func WithClock(now func() time.Time) CodecOption {
	return func(c *Codec) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger sets the logger used for verification failures.
func WithLogger(log *slog.Logger) CodecOption {
	return func(c *Codec) {
		if log != nil {
			c.log = log
		}
	}
}

// NewCodec creates a Codec with the default 7-day TTL.
func NewCodec(secret string, opts ...CodecOption) *Codec {
	c := &Codec{
		secret: secret,
		ttl:    TokenTTL,
		now:    time.Now,
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Issue creates a signed token binding the address (and optional user) to
// an expiry of now + TTL.
func (c *Codec) Issue(email, userID string) (string, error) {
	return token.Generate(TokenPayload{
		Email:    email,
		UserID:   userID,
		ExpireAt: c.now().Add(c.ttl).Unix(),
	}, c.secret)
}

// Verify decodes and validates a token. It fails closed: any malformed
// input, signature mismatch, or expiry yields nil. The reason is logged;
// callers only ever learn valid-or-not.
func (c *Codec) Verify(tok string) *TokenPayload {
	payload, err := token.Parse[TokenPayload](tok, c.secret)
	if err != nil {
		c.log.Warn("unsubscribe token rejected", slog.Any("error", err))
		return nil
	}
	if c.now().Unix() >= payload.ExpireAt {
		c.log.Warn("unsubscribe token expired", slog.String("email", payload.Email))
		return nil
	}
	return &payload
}
