package webhook_test

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inboxlab/mailroom/pkg/webhook"
)

const testSecret = "whsec_MfKQ9r8GKYqrTwjUPD8ILPZIo2LaLaSw"

func newVerifier(t *testing.T, opts ...webhook.VerifierOption) *webhook.Verifier {
	t.Helper()
	v, err := webhook.NewVerifier(testSecret, opts...)
	require.NoError(t, err)
	return v
}

func TestNewVerifier_SecretValidation(t *testing.T) {
	t.Parallel()

	_, err := webhook.NewVerifier("")
	assert.ErrorIs(t, err, webhook.ErrMissingSecret)

	_, err = webhook.NewVerifier("whsec_!!!not-base64!!!")
	assert.ErrorIs(t, err, webhook.ErrInvalidSecret)

	_, err = webhook.NewVerifier(testSecret)
	assert.NoError(t, err)
}

func TestVerifier_AcceptsOwnSignature(t *testing.T) {
	t.Parallel()

	v := newVerifier(t)
	body := []byte(`{"type":"email.sent","data":{"email":"a@b.co"}}`)

	headers := v.Sign("msg_1", time.Now(), body)
	assert.NoError(t, v.Verify(headers, body))
}

func TestVerifier_RejectsTamperedBody(t *testing.T) {
	t.Parallel()

	v := newVerifier(t)
	body := []byte(`{"type":"email.sent"}`)

	headers := v.Sign("msg_1", time.Now(), body)
	err := v.Verify(headers, []byte(`{"type":"email.clicked"}`))
	assert.ErrorIs(t, err, webhook.ErrInvalidSignature)
}

func TestVerifier_RejectsMissingHeaders(t *testing.T) {
	t.Parallel()

	v := newVerifier(t)
	body := []byte(`{}`)
	valid := v.Sign("msg_1", time.Now(), body)

	cases := []struct {
		name    string
		headers webhook.SignatureHeaders
	}{
		{"no id", webhook.SignatureHeaders{Timestamp: valid.Timestamp, Signature: valid.Signature}},
		{"no timestamp", webhook.SignatureHeaders{ID: valid.ID, Signature: valid.Signature}},
		{"no signature", webhook.SignatureHeaders{ID: valid.ID, Timestamp: valid.Timestamp}},
		{"junk timestamp", webhook.SignatureHeaders{ID: valid.ID, Timestamp: "yesterday", Signature: valid.Signature}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.ErrorIs(t, v.Verify(tc.headers, body), webhook.ErrInvalidSignature)
		})
	}
}

func TestVerifier_RejectsStaleTimestamp(t *testing.T) {
	t.Parallel()

	now := time.Now()
	v := newVerifier(t, webhook.WithClock(func() time.Time { return now }))
	body := []byte(`{}`)

	old := v.Sign("msg_1", now.Add(-6*time.Minute), body)
	assert.ErrorIs(t, v.Verify(old, body), webhook.ErrInvalidSignature)

	future := v.Sign("msg_1", now.Add(6*time.Minute), body)
	assert.ErrorIs(t, v.Verify(future, body), webhook.ErrInvalidSignature)

	fresh := v.Sign("msg_1", now.Add(-time.Minute), body)
	assert.NoError(t, v.Verify(fresh, body))
}

func TestVerifier_RejectsWrongSecret(t *testing.T) {
	t.Parallel()

	other := "whsec_" + base64.StdEncoding.EncodeToString([]byte("another signing key"))
	otherVerifier, err := webhook.NewVerifier(other)
	require.NoError(t, err)

	body := []byte(`{}`)
	headers := otherVerifier.Sign("msg_1", time.Now(), body)

	assert.ErrorIs(t, newVerifier(t).Verify(headers, body), webhook.ErrInvalidSignature)
}

func TestVerifier_AcceptsAnyOfMultipleCandidates(t *testing.T) {
	t.Parallel()

	v := newVerifier(t)
	body := []byte(`{}`)
	headers := v.Sign("msg_1", time.Now(), body)

	// Prepend a rotated-away candidate; the current one must still match.
	headers.Signature = "v1,AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA= " + headers.Signature
	assert.NoError(t, v.Verify(headers, body))
}
