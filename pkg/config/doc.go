// Package config loads application configuration from environment variables.
//
// It wraps `github.com/joho/godotenv` and `github.com/caarlos0/env/v11`:
// dotenv files are read once per process, then the environment is parsed into
// any struct annotated with `env` tags. Values already set in the environment
// win over dotenv files, so the same binary runs locally and in containers.
//
// # Usage
//
//	type Config struct {
//		Port       int    `env:"PORT" envDefault:"3000"`
//		StorageURI string `env:"MONGODB_URI" envDefault:"mongodb://localhost:27017"`
//		APIKey     string `env:"API_KEY,required"`
//	}
//
//	var cfg Config
//	config.MustLoad(&cfg)
//
// # Error Handling
//
// Parsing failures are joined with ErrParsingConfig so callers can use
// errors.Is while still seeing which variable was wrong.
package config
