package media

import "time"

// Config controls media downloads for outbound image and document messages.
type Config struct {
	Timeout  time.Duration `env:"MEDIA_FETCH_TIMEOUT" envDefault:"30s"`
	RetryMax int           `env:"MEDIA_FETCH_RETRIES" envDefault:"2"`
	MaxBytes int64         `env:"MEDIA_MAX_BYTES" envDefault:"67108864"` // 64 MiB
}
