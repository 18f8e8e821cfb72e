package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Server captures process-level configuration.
type Server struct {
	Addr string `env:"TRACE_ADDR" envDefault:":8080"`
	// DatabaseURL selects the PostgreSQL backend. When empty the server
	// falls back to in-memory stores, which is only suitable for local
	// development.
	DatabaseURL string `env:"TRACE_DATABASE_URL"`
	LogLevel    string `env:"TRACE_LOG_LEVEL" envDefault:"info"`
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	var cfg Server
	if err := env.Parse(&cfg); err != nil {
		return Server{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
