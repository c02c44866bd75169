package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds everything the application reads from the environment.
// Optional integrations (Stripe, mail, OAuth, RabbitMQ) are left empty
// when not configured; the features that need them degrade to disabled.
type Config struct {
	AppPort     string
	DatabaseDSN string
	JWTSecret   string

	StripeSecretKey     string
	StripeWebhookSecret string

	FrontendURL string

	SMTPHost  string
	SMTPPort  int
	EmailUser string
	EmailPass string

	GoogleClientID     string
	GoogleClientSecret string
	FacebookAppID      string
	FacebookAppSecret  string

	RabbitMQURL string

	UploadDir string
}

// Load reads configuration from a .env file (if present) and the
// process environment, with sensible defaults for local development.
func Load() Config {
	_ = godotenv.Load() // load .env if it exists

	v := viper.New()
	v.SetDefault("APP_PORT", ":4000")
	v.SetDefault("DATABASE_DSN", "")
	v.SetDefault("JWT_SECRET", "dev_secret_change_me")
	v.SetDefault("FRONTEND_URL", "http://localhost:5173")
	v.SetDefault("SMTP_HOST", "smtp.gmail.com")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("UPLOAD_DIR", "uploads")
	v.AutomaticEnv()

	return Config{
		AppPort:             v.GetString("APP_PORT"),
		DatabaseDSN:         v.GetString("DATABASE_DSN"),
		JWTSecret:           v.GetString("JWT_SECRET"),
		StripeSecretKey:     v.GetString("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: v.GetString("STRIPE_WEBHOOK_SECRET"),
		FrontendURL:         strings.TrimRight(v.GetString("FRONTEND_URL"), "/"),
		SMTPHost:            v.GetString("SMTP_HOST"),
		SMTPPort:            v.GetInt("SMTP_PORT"),
		EmailUser:           v.GetString("EMAIL_USER"),
		EmailPass:           v.GetString("EMAIL_PASS"),
		GoogleClientID:      v.GetString("GOOGLE_CLIENT_ID"),
		GoogleClientSecret:  v.GetString("GOOGLE_CLIENT_SECRET"),
		FacebookAppID:       v.GetString("FACEBOOK_APP_ID"),
		FacebookAppSecret:   v.GetString("FACEBOOK_APP_SECRET"),
		RabbitMQURL:         v.GetString("RABBITMQ_URL"),
		UploadDir:           v.GetString("UPLOAD_DIR"),
	}
}

// MailEnabled reports whether the SMTP account is configured.
func (c Config) MailEnabled() bool {
	return c.EmailUser != "" && c.EmailPass != ""
}

// StripeEnabled reports whether checkout can talk to Stripe.
func (c Config) StripeEnabled() bool {
	return c.StripeSecretKey != ""
}

// CORSOrigins returns the comma-joined list of allowed frontend origins.
func (c Config) CORSOrigins() string {
	return c.FrontendURL
}
