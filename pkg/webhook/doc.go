// Package webhook processes signed delivery-event callbacks from the mail
// provider.
//
// A request moves through a fixed sequence: signature verification against
// the svix-id/svix-timestamp/svix-signature headers, optional delivery-id
// deduplication, event classification into metric counters, and
// auto-suppression of hard-bounced or complained addresses. The endpoint
// acknowledges with 200 once classification succeeds regardless of storage
// trouble, because provider retries cannot repair a broken store and only
// amplify load.
package webhook
