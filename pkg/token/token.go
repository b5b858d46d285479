package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"strings"
)

// Generate serializes the payload to JSON and appends an HMAC-SHA256
// signature over the raw JSON bytes. The result is URL-safe and opaque
// enough to embed directly in a link path segment.
func Generate[T any](payload T, secret string) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(data) + "." +
		base64.RawURLEncoding.EncodeToString(sign(data, secret)), nil
}

// Parse checks the token signature and decodes the payload into T.
// Any structural defect or signature mismatch yields an error; callers
// must treat all errors identically and reject the token.
func Parse[T any](tok string, secret string) (T, error) {
	var payload T

	body, sig, ok := strings.Cut(tok, ".")
	if !ok {
		return payload, ErrMalformedToken
	}

	data, err := base64.RawURLEncoding.DecodeString(body)
	if err != nil {
		return payload, ErrMalformedToken
	}
	got, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil {
		return payload, ErrMalformedToken
	}

	if !hmac.Equal(got, sign(data, secret)) {
		return payload, ErrBadSignature
	}

	if err := json.Unmarshal(data, &payload); err != nil {
		return payload, ErrMalformedToken
	}
	return payload, nil
}

func sign(data []byte, secret string) []byte {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(data)
	return h.Sum(nil)
}
