// Package templates renders outbound email bodies.
//
// Rendering can never fail the send: if the template engine reports an
// error the renderer falls back to a minimal static document carrying the
// same link, so the caller always receives usable HTML.
package templates

import (
	"fmt"
	"html"
	"io"
	"log/slog"

	"github.com/osteele/liquid"
)

const magicLinkTemplate = `<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8">
    <title>Sign in to {{ brand }}</title>
    <style>
      body { font-family: Arial, sans-serif; max-width: 600px; margin: 40px auto; padding: 20px; color: #1a1a1a; }
      .cta { display: inline-block; padding: 12px 28px; background-color: #2563eb; color: #ffffff; text-decoration: none; border-radius: 6px; font-weight: bold; }
      .footer { margin-top: 40px; font-size: 12px; color: #6b7280; }
    </style>
  </head>
  <body>
    <h1>Your sign-in link</h1>
    {% if email != "" %}<p>Hi {{ email }},</p>{% endif %}
    <p>Click the button below to sign in to {{ brand }}. This link expires shortly and can only be used once.</p>
    <p><a class="cta" href="{{ url }}">Sign in</a></p>
    <p>If the button does not work, copy this address into your browser:<br>{{ url }}</p>
    <div class="footer">
      <p>You received this email because a sign-in was requested for your address. If this was not you, it is safe to ignore.</p>
      <p>You can unsubscribe from marketing email at any time via the unsubscribe link included in those messages.</p>
    </div>
  </body>
</html>`

// Renderer turns sign-in URLs into complete email documents.
type Renderer struct {
	engine   *liquid.Engine
	template string
	brand    string
	log      *slog.Logger
}

// Option overrides Renderer defaults.
type Option func(*Renderer)

// WithTemplate replaces the built-in magic link template with a custom
// Liquid source. The bindings url, email and brand are available.
func WithTemplate(src string) Option {
	return func(r *Renderer) {
		if src != "" {
			r.template = src
		}
	}
}

// NewRenderer creates a Renderer for the given brand name.
func NewRenderer(brand string, log *slog.Logger, opts ...Option) *Renderer {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	r := &Renderer{
		engine:   liquid.NewEngine(),
		template: magicLinkTemplate,
		brand:    brand,
		log:      log,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RenderMagicLink produces the sign-in email body. The recipient address is
// optional personalization. On any engine failure the static fallback is
// returned instead; this method never fails.
func (r *Renderer) RenderMagicLink(url, email string) string {
	out, err := r.engine.ParseAndRenderString(r.template, liquid.Bindings{
		"url":   url,
		"email": email,
		"brand": r.brand,
	})
	if err != nil {
		r.log.Error("magic link template render failed, using fallback",
			slog.Any("error", err),
		)
		return fallbackMagicLink(url)
	}
	return out
}

// fallbackMagicLink is the last-resort body: no engine, no styling, still a
// working sign-in link and the unsubscribe disclosure.
func fallbackMagicLink(url string) string {
	safe := html.EscapeString(url)
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
  <body>
    <h1>Your Magic Link</h1>
    <p>Click <a href="%s">here</a> to sign in.</p>
    <p>You can unsubscribe from marketing email at any time via the unsubscribe link included in those messages.</p>
  </body>
</html>`, safe)
}
