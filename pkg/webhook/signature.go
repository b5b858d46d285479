package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Svix-compatible signature scheme used by Resend delivery webhooks: the
// secret is "whsec_" + base64(key), and the signature header carries one or
// more space-separated "v1,<base64 mac>" candidates computed over
// "<id>.<timestamp>.<body>".
const (
	secretPrefix     = "whsec_"
	signatureVersion = "v1"

	// DefaultTolerance bounds webhook timestamp skew in both directions to
	// limit replay of captured deliveries.
	DefaultTolerance = 5 * time.Minute
)

// SignatureHeaders carries the three provider-supplied verification headers.
type SignatureHeaders struct {
	ID        string // svix-id
	Timestamp string // svix-timestamp, Unix seconds
	Signature string // svix-signature
}

// FromHTTP extracts signature headers from a header getter such as
// http.Header.Get.
func FromHTTP(get func(string) string) SignatureHeaders {
	return SignatureHeaders{
		ID:        get("svix-id"),
		Timestamp: get("svix-timestamp"),
		Signature: get("svix-signature"),
	}
}

// Verifier checks webhook payload authenticity with a shared signing secret.
type Verifier struct {
	key       []byte
	tolerance time.Duration
	now       func() time.Time
}

// VerifierOption overrides Verifier defaults.
type VerifierOption func(*Verifier)

// WithTolerance changes the accepted timestamp skew.
func WithTolerance(d time.Duration) VerifierOption {
	return func(v *Verifier) {
		if d > 0 {
			v.tolerance = d
		}
	}
}

// WithClock substitutes the time source, for tests.
func WithClock(now func() time.Time) VerifierOption {
	return func(v *Verifier) {
		if now != nil {
			v.now = now
		}
	}
}

// NewVerifier parses the signing secret. The endpoint cannot operate
// without one, so an empty or malformed secret is a construction error.
func NewVerifier(secret string, opts ...VerifierOption) (*Verifier, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	key, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(secret, secretPrefix))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSecret, err)
	}

	v := &Verifier{key: key, tolerance: DefaultTolerance, now: time.Now}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// Verify authenticates the raw request body against the provider headers.
// It returns ErrInvalidSignature for every rejection class except a stale
// timestamp; callers must not tell those apart in responses.
func (v *Verifier) Verify(headers SignatureHeaders, body []byte) error {
	if headers.ID == "" || headers.Timestamp == "" || headers.Signature == "" {
		return fmt.Errorf("%w: missing headers", ErrInvalidSignature)
	}

	ts, err := strconv.ParseInt(headers.Timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: bad timestamp", ErrInvalidSignature)
	}
	skew := v.now().Sub(time.Unix(ts, 0))
	if skew > v.tolerance || skew < -v.tolerance {
		return fmt.Errorf("%w: timestamp outside tolerance", ErrInvalidSignature)
	}

	mac := hmac.New(sha256.New, v.key)
	fmt.Fprintf(mac, "%s.%s.%s", headers.ID, headers.Timestamp, body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	// The header may list several versioned candidates, e.g. after a
	// secret rotation. Any constant-time match accepts.
	for _, candidate := range strings.Fields(headers.Signature) {
		version, sig, ok := strings.Cut(candidate, ",")
		if !ok || version != signatureVersion {
			continue
		}
		if hmac.Equal([]byte(sig), []byte(expected)) {
			return nil
		}
	}
	return fmt.Errorf("%w: no matching signature", ErrInvalidSignature)
}

// Sign produces headers for a payload; used by tests and the local
// event-replay tooling.
func (v *Verifier) Sign(id string, at time.Time, body []byte) SignatureHeaders {
	ts := strconv.FormatInt(at.Unix(), 10)
	mac := hmac.New(sha256.New, v.key)
	fmt.Fprintf(mac, "%s.%s.%s", id, ts, body)
	return SignatureHeaders{
		ID:        id,
		Timestamp: ts,
		Signature: signatureVersion + "," + base64.StdEncoding.EncodeToString(mac.Sum(nil)),
	}
}
