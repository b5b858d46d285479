package email

// Config holds mail transport configuration.
//
// ResendAPIKey is optional so that development environments can run on the
// file-based sender alone; NewResendClient enforces its presence at
// construction. SenderEmail establishes the default From identity for all
// outbound mail.
type Config struct {
	ResendAPIKey string `env:"RESEND_API_KEY"`
	SenderEmail  string `env:"SENDER_EMAIL,required"`
	Environment  string `env:"APP_ENV" envDefault:"development"` // "production" selects the Resend backend
	DevMailDir   string `env:"DEV_MAIL_DIR" envDefault:"./tmp/mail"`
}

// IsProduction reports whether the production transport should be used.
func (c Config) IsProduction() bool {
	return c.Environment == "production"
}
