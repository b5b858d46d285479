// Package token implements compact signed tokens for links that leave the
// application boundary (unsubscribe links, sign-in links).
//
// A token is the base64url-encoded JSON payload joined with a base64url-encoded
// HMAC-SHA256 signature by a single dot. The payload is readable by anyone who
// holds the token; the signature guarantees it was produced by a holder of the
// secret and has not been altered. Tokens carry no server-side state: expiry
// and scoping live inside the payload and are enforced by the caller after
// Parse succeeds.
//
// Usage:
//
//	type payload struct {
//		Email    string `json:"e"`
//		ExpireAt int64  `json:"exp"`
//	}
//
//	s, err := token.Generate(payload{Email: email, ExpireAt: exp}, secret)
//	p, err := token.Parse[payload](s, secret)
package token
