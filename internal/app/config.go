package app

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/wagate/internal/api"
	"github.com/dmitrymomot/wagate/internal/forwarder"
	"github.com/dmitrymomot/wagate/internal/media"
	"github.com/dmitrymomot/wagate/pkg/config"
	"github.com/dmitrymomot/wagate/pkg/httpserver"
	"github.com/dmitrymomot/wagate/pkg/logger"
	"github.com/dmitrymomot/wagate/pkg/mongo"
	"github.com/dmitrymomot/wagate/pkg/redis"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the complete service configuration.
type Config struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"wagate"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"json"`

	SessionDir        string        `env:"SESSION_DIR" envDefault:"./.wwebjs_auth"`
	SessionCollection string        `env:"MONGODB_SESSIONS_COLLECTION" envDefault:"sessions"`
	StoreWriteTimeout time.Duration `env:"STORE_WRITE_TIMEOUT" envDefault:"10s"`
	DeviceName        string        `env:"DEVICE_NAME" envDefault:"wagate"` // shown in the phone's linked devices list
	QRSize            int           `env:"QR_SIZE" envDefault:"256"`

	HTTP    httpserver.Config
	Mongo   mongo.Config
	Redis   redis.Config
	Media   media.Config
	API     api.Config
	Webhook forwarder.Config
}

// LoadConfig reads the environment and any .env file.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that struct tags cannot express.
func (c Config) Validate() error {
	if _, ok := logger.ParseLevel(c.LogLevel); !ok {
		return fmt.Errorf("%w: unknown LOG_LEVEL %q", ErrInvalidConfig, c.LogLevel)
	}
	switch logger.Format(c.LogFormat) {
	case logger.FormatJSON, logger.FormatText:
	default:
		return fmt.Errorf("%w: unknown LOG_FORMAT %q", ErrInvalidConfig, c.LogFormat)
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("%w: PORT must be between 1 and 65535", ErrInvalidConfig)
	}
	if c.SessionDir == "" {
		return fmt.Errorf("%w: SESSION_DIR is empty", ErrInvalidConfig)
	}
	return nil
}

// NewLogger builds the service logger. Validate must have passed.
func (c Config) NewLogger(extractors ...logger.ContextExtractor) *slog.Logger {
	return logger.New(
		logger.WithLevelName(c.LogLevel),
		logger.WithFormat(logger.Format(c.LogFormat)),
		logger.WithService(c.ServiceName),
		logger.WithContextExtractors(extractors...),
	)
}
