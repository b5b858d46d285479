package webhook

import "time"

// Config holds webhook endpoint configuration. The signing secret is
// issued by the provider when the endpoint is registered.
type Config struct {
	SigningSecret string        `env:"WEBHOOK_SIGNING_SECRET"`
	DedupTTL      time.Duration `env:"WEBHOOK_DEDUP_TTL" envDefault:"24h"`
}
