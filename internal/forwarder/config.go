package forwarder

import "time"

// Config describes the inbound-message webhook. An empty TargetURL disables forwarding.
type Config struct {
	TargetURL     string        `env:"WEBHOOK_TARGET_URL"`
	AuthHeader    string        `env:"WEBHOOK_AUTH_HEADER" envDefault:"x-webhook-token"`
	AuthToken     string        `env:"WEBHOOK_AUTH_TOKEN"`
	SigningSecret string        `env:"WEBHOOK_SIGNING_SECRET"` // SigningSecret enables X-Webhook-Signature headers.
	Timeout       time.Duration `env:"WEBHOOK_TIMEOUT" envDefault:"10s"`

	// Consecutive failures before deliveries are skipped; 0 disables the breaker.
	BreakerFailures int           `env:"WEBHOOK_BREAKER_FAILURES" envDefault:"5"`
	BreakerCooldown time.Duration `env:"WEBHOOK_BREAKER_COOLDOWN" envDefault:"30s"`
}

// Enabled reports whether a target URL is configured.
func (c Config) Enabled() bool {
	return c.TargetURL != ""
}
