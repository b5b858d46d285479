// Package auth implements passwordless sign-in via emailed magic links.
// It is the primary internal caller of the outbound mail orchestrator.
package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/inboxlab/mailroom/pkg/email/templates"
	"github.com/inboxlab/mailroom/pkg/mailer"
	"github.com/inboxlab/mailroom/pkg/sanitizer"
	"github.com/inboxlab/mailroom/pkg/token"
)

const SubjectMagicLink = "magic_link"

// DefaultMagicLinkTTL keeps sign-in links short-lived; there is no
// server-side replay protection, so the window is the protection.
const DefaultMagicLinkTTL = 15 * time.Minute

// MagicLinkTokenPayload is the claim set inside a sign-in token.
type MagicLinkTokenPayload struct {
	ID       string `json:"id"` // unique per issuance
	Email    string `json:"email"`
	Subject  string `json:"sub"`
	ExpireAt int64  `json:"exp"` // Unix seconds
}

// User is the minimal account record the magic-link flow needs.
type User struct {
	ID         uuid.UUID
	Email      string
	IsVerified bool
	CreatedAt  time.Time
}

// Storage is the account collaborator for the magic-link flow.
type Storage interface {
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	CreateUser(ctx context.Context, user *User) error
	MarkUserVerified(ctx context.Context, id uuid.UUID) error
}

// MagicLinkService issues sign-in links and verifies them on return.
type MagicLinkService struct {
	storage     Storage
	mail        *mailer.Mailer
	renderer    *templates.Renderer
	tokenSecret string
	siteBaseURL string
	ttl         time.Duration
	log         *slog.Logger
}

// Option overrides service defaults.
type Option func(*MagicLinkService)

// WithTTL sets the sign-in token lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(s *MagicLinkService) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *MagicLinkService) {
		if log != nil {
			s.log = log
		}
	}
}

// NewMagicLinkService wires storage, the mail orchestrator, and the email
// renderer into the sign-in flow.
func NewMagicLinkService(storage Storage, mail *mailer.Mailer, renderer *templates.Renderer, tokenSecret, siteBaseURL string, opts ...Option) *MagicLinkService {
	s := &MagicLinkService{
		storage:     storage,
		mail:        mail,
		renderer:    renderer,
		tokenSecret: tokenSecret,
		siteBaseURL: strings.TrimRight(siteBaseURL, "/"),
		ttl:         DefaultMagicLinkTTL,
		log:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RequestMagicLink issues a sign-in token for the address, auto-registering
// unknown users, and emails the link. The email is transactional and so
// carries no unsubscribe headers.
func (s *MagicLinkService) RequestMagicLink(ctx context.Context, emailAddr string) error {
	emailAddr = sanitizer.NormalizeEmail(emailAddr)
	if !strings.Contains(emailAddr, "@") {
		return ErrInvalidEmail
	}

	if _, err := s.storage.GetUserByEmail(ctx, emailAddr); err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			return fmt.Errorf("failed to check user: %w", err)
		}
		user := &User{
			ID:        uuid.New(),
			Email:     emailAddr,
			CreatedAt: time.Now(),
		}
		if err := s.storage.CreateUser(ctx, user); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
	}

	payload := MagicLinkTokenPayload{
		ID:       uuid.New().String(),
		Email:    emailAddr,
		Subject:  SubjectMagicLink,
		ExpireAt: time.Now().Add(s.ttl).Unix(),
	}
	tok, err := token.Generate(payload, s.tokenSecret)
	if err != nil {
		return fmt.Errorf("failed to generate magic link token: %w", err)
	}

	url := s.siteBaseURL + "/api/auth/magic-link/verify/" + tok
	res := s.mail.Send(ctx, mailer.SendOptions{
		To:      emailAddr,
		Subject: "Your sign-in link",
		HTML:    s.renderer.RenderMagicLink(url, emailAddr),
		Tag:     "magic-link",
	})
	if !res.Success {
		return fmt.Errorf("failed to send magic link email: %w", res.Err)
	}

	s.log.InfoContext(ctx, "magic link issued",
		slog.String("email", emailAddr),
		slog.Time("expires_at", time.Unix(payload.ExpireAt, 0)),
	)
	return nil
}

// VerifyMagicLink validates a returned token and marks the user verified.
func (s *MagicLinkService) VerifyMagicLink(ctx context.Context, tok string) (*User, error) {
	payload, err := token.Parse[MagicLinkTokenPayload](tok, s.tokenSecret)
	if err != nil {
		return nil, ErrTokenInvalid
	}
	if payload.Subject != SubjectMagicLink {
		return nil, ErrTokenInvalid
	}
	if time.Now().Unix() > payload.ExpireAt {
		return nil, ErrTokenExpired
	}

	user, err := s.storage.GetUserByEmail(ctx, payload.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if !user.IsVerified {
		if err := s.storage.MarkUserVerified(ctx, user.ID); err != nil {
			return nil, fmt.Errorf("failed to mark user verified: %w", err)
		}
		user.IsVerified = true
	}

	s.log.InfoContext(ctx, "magic link verified", slog.String("email", user.Email))
	return user, nil
}
