package mailer_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inboxlab/mailroom/pkg/email"
	"github.com/inboxlab/mailroom/pkg/mailer"
	"github.com/inboxlab/mailroom/pkg/metrics"
	"github.com/inboxlab/mailroom/pkg/unsubscribe"
)

// recordingSender captures the params of each send.
type recordingSender struct {
	sent []email.SendEmailParams
	err  error
}

func (r *recordingSender) SendEmail(_ context.Context, params email.SendEmailParams) error {
	r.sent = append(r.sent, params)
	return r.err
}

func testConfig() mailer.Config {
	return mailer.Config{
		SiteBaseURL: "https://example.com",
		MailDomain:  "mail.example.com",
		FromEmail:   "no-reply@example.com",
	}
}

func newMailer(sender email.Sender, opts ...mailer.Option) (*mailer.Mailer, *unsubscribe.Codec) {
	codec := unsubscribe.NewCodec("secret")
	return mailer.New(sender, codec, testConfig(), opts...), codec
}

func TestSend_TransactionalHasNoUnsubscribeHeaders(t *testing.T) {
	t.Parallel()

	sender := &recordingSender{}
	m, _ := newMailer(sender)

	res := m.Send(context.Background(), mailer.SendOptions{
		To:      "user@example.com",
		Subject: "Sign in",
		HTML:    "<p>link</p>",
	})

	require.True(t, res.Success)
	require.Len(t, sender.sent, 1)
	assert.NotContains(t, sender.sent[0].Headers, "List-Unsubscribe")
	assert.NotContains(t, sender.sent[0].Headers, "List-Unsubscribe-Post")
}

func TestSend_BulkCarriesOneClickHeaders(t *testing.T) {
	t.Parallel()

	sender := &recordingSender{}
	m, codec := newMailer(sender)

	res := m.Send(context.Background(), mailer.SendOptions{
		To:      "user@example.com",
		Subject: "Spring sale",
		HTML:    "<p>deals</p>",
		Bulk:    true,
		UserID:  "usr_1",
	})

	require.True(t, res.Success)
	require.Len(t, sender.sent, 1)
	headers := sender.sent[0].Headers

	assert.Equal(t, "List-Unsubscribe=One-Click", headers["List-Unsubscribe-Post"])

	lu := headers["List-Unsubscribe"]
	assert.Contains(t, lu, "<https://example.com/api/email/unsubscribe/")
	assert.Contains(t, lu, "<mailto:unsubscribe@mail.example.com>")

	// The embedded token must verify and bind the recipient.
	start := strings.Index(lu, "/unsubscribe/") + len("/unsubscribe/")
	end := strings.Index(lu[start:], ">")
	payload := codec.Verify(lu[start : start+end])
	require.NotNil(t, payload)
	assert.Equal(t, "user@example.com", payload.Email)
	assert.Equal(t, "usr_1", payload.UserID)
}

func TestSend_UnsubscribeFlagWithoutBulk(t *testing.T) {
	t.Parallel()

	sender := &recordingSender{}
	m, _ := newMailer(sender)

	res := m.Send(context.Background(), mailer.SendOptions{
		To:          "user@example.com",
		Subject:     "Product news",
		HTML:        "<p>news</p>",
		Unsubscribe: true,
	})

	require.True(t, res.Success)
	assert.Contains(t, sender.sent[0].Headers, "List-Unsubscribe")
}

func TestSend_CallerHeadersWin(t *testing.T) {
	t.Parallel()

	sender := &recordingSender{}
	m, _ := newMailer(sender)

	res := m.Send(context.Background(), mailer.SendOptions{
		To:      "user@example.com",
		Subject: "Digest",
		HTML:    "<p>digest</p>",
		Bulk:    true,
		Headers: map[string]string{
			"List-Unsubscribe": "<https://example.com/custom>",
			"X-Campaign":       "digest-2026-08",
		},
	})

	require.True(t, res.Success)
	headers := sender.sent[0].Headers
	assert.Equal(t, "<https://example.com/custom>", headers["List-Unsubscribe"],
		"explicit caller header must not be overwritten")
	assert.Equal(t, "digest-2026-08", headers["X-Campaign"])
	assert.Equal(t, "List-Unsubscribe=One-Click", headers["List-Unsubscribe-Post"],
		"generated headers the caller did not set are kept")
}

func TestSend_TransportFailure(t *testing.T) {
	t.Parallel()

	sink := metrics.NewMemory()
	sender := &recordingSender{err: errors.New("provider 500")}
	m, _ := newMailer(sender, mailer.WithMetrics(sink))

	res := m.Send(context.Background(), mailer.SendOptions{
		To:      "user@example.com",
		Subject: "Sign in",
		HTML:    "<p>link</p>",
	})

	assert.False(t, res.Success)
	assert.Error(t, res.Err)
	assert.Zero(t, sink.Get(metrics.CounterSent), "failed sends must not count as sent")
}

func TestSend_SuccessIncrementsSentCounter(t *testing.T) {
	t.Parallel()

	sink := metrics.NewMemory()
	m, _ := newMailer(&recordingSender{}, mailer.WithMetrics(sink))

	res := m.Send(context.Background(), mailer.SendOptions{
		To:      "user@example.com",
		Subject: "Sign in",
		HTML:    "<p>link</p>",
	})

	require.True(t, res.Success)
	assert.Equal(t, uint64(1), sink.Get(metrics.CounterSent))
}

func TestSend_ExactlyTwoAttemptsThroughRetryTransport(t *testing.T) {
	t.Parallel()

	attempts := 0
	failing := senderFunc(func(context.Context, email.SendEmailParams) error {
		attempts++
		return errors.New("always failing")
	})

	retry := email.NewRetrySender(failing, email.WithBaseDelay(1))
	m, _ := newMailer(retry)

	res := m.Send(context.Background(), mailer.SendOptions{
		To:      "user@example.com",
		Subject: "Sign in",
		HTML:    "<p>link</p>",
	})

	assert.False(t, res.Success)
	assert.Equal(t, 2, attempts, "orchestrator adds no retries beyond the transport's")
}

type senderFunc func(context.Context, email.SendEmailParams) error

func (f senderFunc) SendEmail(ctx context.Context, p email.SendEmailParams) error { return f(ctx, p) }
