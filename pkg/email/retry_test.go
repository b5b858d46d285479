package email_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inboxlab/mailroom/pkg/email"
)

// scriptedSender fails a configured number of times before succeeding.
type scriptedSender struct {
	mu       sync.Mutex
	failures int
	calls    int
	seen     []time.Time
}

func (s *scriptedSender) SendEmail(ctx context.Context, params email.SendEmailParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.seen = append(s.seen, time.Now())
	if s.calls <= s.failures {
		return errors.New("transport unavailable")
	}
	return nil
}

func validParams() email.SendEmailParams {
	return email.SendEmailParams{
		SendTo:   "user@example.com",
		Subject:  "Sign in",
		BodyHTML: "<p>hello</p>",
	}
}

func TestRetrySender_SucceedsFirstAttempt(t *testing.T) {
	t.Parallel()

	fake := &scriptedSender{}
	r := email.NewRetrySender(fake, email.WithBaseDelay(time.Millisecond))

	require.NoError(t, r.SendEmail(context.Background(), validParams()))
	assert.Equal(t, 1, fake.calls)
}

func TestRetrySender_RecoversAfterOneFailure(t *testing.T) {
	t.Parallel()

	fake := &scriptedSender{failures: 1}
	r := email.NewRetrySender(fake, email.WithBaseDelay(time.Millisecond))

	require.NoError(t, r.SendEmail(context.Background(), validParams()))
	assert.Equal(t, 2, fake.calls)
}

func TestRetrySender_ExhaustsBudget(t *testing.T) {
	t.Parallel()

	fake := &scriptedSender{failures: 10}
	r := email.NewRetrySender(fake, email.WithBaseDelay(time.Millisecond))

	err := r.SendEmail(context.Background(), validParams())
	require.Error(t, err)
	assert.Equal(t, 2, fake.calls, "default policy is exactly 2 attempts")
}

func TestRetrySender_LinearBackoff(t *testing.T) {
	t.Parallel()

	fake := &scriptedSender{failures: 2}
	r := email.NewRetrySender(fake,
		email.WithMaxAttempts(3),
		email.WithBaseDelay(40*time.Millisecond),
	)

	require.NoError(t, r.SendEmail(context.Background(), validParams()))
	require.Len(t, fake.seen, 3)

	// Wait before attempt 2 is 1x base, before attempt 3 is 2x base.
	assert.GreaterOrEqual(t, fake.seen[1].Sub(fake.seen[0]), 40*time.Millisecond)
	assert.GreaterOrEqual(t, fake.seen[2].Sub(fake.seen[1]), 80*time.Millisecond)
}

func TestRetrySender_ContextCancelSkipsBackoff(t *testing.T) {
	t.Parallel()

	fake := &scriptedSender{failures: 10}
	r := email.NewRetrySender(fake, email.WithBaseDelay(10*time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.SendEmail(ctx, validParams())
	require.Error(t, err)
	assert.Equal(t, 1, fake.calls, "cancelled context must not wait out the backoff")
}
