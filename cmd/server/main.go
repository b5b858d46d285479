// Command server runs the transactional email delivery service: the
// outbound mail orchestrator behind the magic-link auth flow, the provider
// webhook processor, and the unsubscribe endpoint.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/inboxlab/mailroom/pkg/auth"
	"github.com/inboxlab/mailroom/pkg/config"
	"github.com/inboxlab/mailroom/pkg/email"
	"github.com/inboxlab/mailroom/pkg/email/templates"
	"github.com/inboxlab/mailroom/pkg/httpserver"
	"github.com/inboxlab/mailroom/pkg/logger"
	"github.com/inboxlab/mailroom/pkg/mailer"
	"github.com/inboxlab/mailroom/pkg/metrics"
	"github.com/inboxlab/mailroom/pkg/monitoring"
	"github.com/inboxlab/mailroom/pkg/pg"
	"github.com/inboxlab/mailroom/pkg/redis"
	"github.com/inboxlab/mailroom/pkg/suppression"
	"github.com/inboxlab/mailroom/pkg/unsubscribe"
	"github.com/inboxlab/mailroom/pkg/webhook"
)

type secretsConfig struct {
	UnsubscribeSecret string `env:"UNSUBSCRIBE_SECRET,required"`
	AuthTokenSecret   string `env:"AUTH_TOKEN_SECRET,required"`
	Brand             string `env:"BRAND_NAME" envDefault:"Mailroom"`
}

func main() {
	ctx := context.Background()

	var logCfg logger.Config
	config.MustLoad(&logCfg)
	log := logger.New(logCfg, logger.WithAttr(slog.String("service", "mailroom")))

	if err := run(ctx, log); err != nil {
		log.Error("server exited with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger) error {
	var (
		secrets    secretsConfig
		emailCfg   email.Config
		mailerCfg  mailer.Config
		webhookCfg webhook.Config
		pgCfg      pg.Config
		redisCfg   redis.Config
		httpCfg    httpserver.Config
	)
	config.MustLoad(&secrets)
	config.MustLoad(&emailCfg)
	config.MustLoad(&mailerCfg)
	config.MustLoad(&webhookCfg)
	config.MustLoad(&pgCfg)
	config.MustLoad(&redisCfg)
	config.MustLoad(&httpCfg)

	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, pgCfg, log); err != nil {
		return err
	}

	observer := monitoring.Slog{Log: log.With(slog.String("component", "monitoring"))}
	sink := metrics.NewPrometheus(prometheus.DefaultRegisterer)

	// Transport selection happens once at startup; the rest of the
	// pipeline only ever sees the Sender interface.
	var sender email.Sender
	if emailCfg.IsProduction() {
		sender, err = email.NewResendClient(emailCfg)
		if err != nil {
			return err
		}
	} else {
		sender = email.NewDevSender(emailCfg.DevMailDir, log)
	}
	sender = email.NewRetrySender(sender, email.WithRetryLogger(log))

	codec := unsubscribe.NewCodec(secrets.UnsubscribeSecret, unsubscribe.WithLogger(log))
	outbound := mailer.New(sender, codec, mailerCfg,
		mailer.WithMetrics(sink),
		mailer.WithObserver(observer),
		mailer.WithLogger(log),
	)

	store := suppression.NewPostgresStore(pool)
	renderer := templates.NewRenderer(secrets.Brand, log)

	magicLink := auth.NewMagicLinkService(
		auth.NewPostgresStorage(pool),
		outbound,
		renderer,
		secrets.AuthTokenSecret,
		mailerCfg.SiteBaseURL,
		auth.WithLogger(log),
	)

	processor := webhook.NewProcessor(store, sink,
		webhook.WithObserver(observer),
		webhook.WithLogger(log),
	)

	// The webhook endpoint stays mounted without a secret but answers 500,
	// making the misconfiguration visible to the provider dashboard.
	var verifier *webhook.Verifier
	if webhookCfg.SigningSecret != "" {
		verifier, err = webhook.NewVerifier(webhookCfg.SigningSecret)
		if err != nil {
			return err
		}
	} else {
		log.Warn("WEBHOOK_SIGNING_SECRET is not set, webhook endpoint will reject all events")
	}

	// Redis dedup is best effort; without it the pipeline degrades to
	// at-least-once processing of provider redeliveries.
	deduper := webhook.Deduper(webhook.NopDeduper{})
	if client, err := redis.Connect(ctx, redisCfg); err != nil {
		log.Warn("redis unavailable, webhook dedup disabled", slog.Any("error", err))
	} else {
		defer client.Close()
		deduper = webhook.NewRedisDeduper(client, webhookCfg.DedupTTL)
	}

	webhookHandler := webhook.NewHandler(verifier, processor,
		webhook.WithDeduper(deduper),
		webhook.WithHandlerLogger(log),
	)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", httpserver.HealthCheckHandler())
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(api chi.Router) {
		api.Method(http.MethodPost, "/resend/webhook", webhookHandler)
		api.Mount("/email/unsubscribe", unsubscribe.NewHandler(codec, store, log).Router())
		api.Mount("/auth", auth.NewHandler(magicLink, log).Router())
	})

	return httpserver.New(httpCfg, log).Run(ctx, r)
}
