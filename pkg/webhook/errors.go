package webhook

import "errors"

var (
	// ErrMissingSecret means the endpoint was started without a signing
	// secret and cannot verify anything.
	ErrMissingSecret = errors.New("webhook signing secret is not configured")
	// ErrInvalidSecret means the configured secret could not be decoded.
	ErrInvalidSecret = errors.New("webhook signing secret is malformed")
	// ErrInvalidSignature covers every verification rejection: missing
	// headers, bad timestamp, or signature mismatch.
	ErrInvalidSignature = errors.New("webhook signature verification failed")
	// ErrMalformedEvent means the body was not a parseable event.
	ErrMalformedEvent = errors.New("webhook event payload is malformed")
)
