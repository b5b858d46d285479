// Package email provides the outbound mail transport.
//
// The package exposes a single Sender interface with two backends and one
// decorator:
//
//   - NewResendClient: production delivery through the Resend transactional
//     API.
//   - NewDevSender: local development delivery that writes each message to
//     disk and logs a preview URL instead of touching the network.
//   - NewRetrySender: bounded retry around any Sender (default 2 attempts,
//     linear backoff of attempt x 1s).
//
// Backend selection is a construction-time decision driven by Config, so a
// process runs against exactly one backend and tests can inject fakes freely.
package email
