package api

import "time"

// Config holds the HTTP boundary settings.
type Config struct {
	APIKey       string `env:"API_KEY,required,notEmpty"`
	APIKeyHeader string `env:"API_KEY_HEADER" envDefault:"x-api-key"`

	// The inbound /webhook echo endpoint is gated by this pair, not the API key.
	WebhookAuthHeader string `env:"WEBHOOK_AUTH_HEADER" envDefault:"x-webhook-token"`
	WebhookAuthToken  string `env:"WEBHOOK_AUTH_TOKEN"`

	// When set, /webhook also requires a valid X-Webhook-Signature.
	WebhookSigningSecret string        `env:"WEBHOOK_SIGNING_SECRET"`
	WebhookMaxAge        time.Duration `env:"WEBHOOK_SIGNATURE_MAX_AGE" envDefault:"5m"`

	AllowOrigins     []string `env:"ALLOW_ORIGINS" envDefault:"*" envSeparator:","`
	TrustedIPHeaders []string `env:"TRUSTED_IP_HEADERS" envSeparator:","` // e.g. CF-Connecting-IP,X-Forwarded-For

	// A zero capacity disables rate limiting.
	RateLimitCapacity int           `env:"RATE_LIMIT_CAPACITY" envDefault:"100"`
	RateLimitRefill   int           `env:"RATE_LIMIT_REFILL" envDefault:"100"`
	RateLimitInterval time.Duration `env:"RATE_LIMIT_INTERVAL" envDefault:"1m"`

	MaxBodyBytes int64 `env:"HTTP_MAX_BODY_BYTES" envDefault:"1048576"`
}
