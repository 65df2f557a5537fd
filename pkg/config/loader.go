package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var envFilesLoaded sync.Once

type options struct {
	files  []string
	prefix string
}

// Option configures a Load call.
type Option func(*options)

// WithEnvFiles sets the dotenv files read before parsing.
// Files that do not exist are skipped. Variables already present in the
// process environment are never overwritten.
func WithEnvFiles(files ...string) Option {
	return func(o *options) {
		if len(files) > 0 {
			o.files = files
		}
	}
}

// WithPrefix restricts parsing to variables carrying the given prefix.
func WithPrefix(prefix string) Option {
	return func(o *options) { o.prefix = prefix }
}

// Load parses environment variables into the provided configuration struct.
//
// Dotenv files are read at most once per process, on the first call.
// Defaults and required fields are declared with struct tags:
//
//	type Config struct {
//		Port   int    `env:"PORT" envDefault:"3000"`
//		APIKey string `env:"API_KEY,required"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//		// handle error
//	}
func Load[T any](v *T, opts ...Option) error {
	if v == nil {
		return ErrNilPointer
	}

	o := &options{files: []string{".env"}}
	for _, opt := range opts {
		opt(o)
	}

	envFilesLoaded.Do(func() {
		for _, f := range o.files {
			// Missing files are fine: production reads the real environment.
			_ = godotenv.Load(f)
		}
	})

	if err := env.ParseWithOptions(v, env.Options{Prefix: o.prefix}); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// MustLoad works like Load but panics if configuration loading fails.
func MustLoad[T any](v *T, opts ...Option) {
	if err := Load(v, opts...); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}
