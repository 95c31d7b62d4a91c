package spool

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ServerConfig configures Server. Every field can be set from the
// environment, see LoadServerConfig.
type ServerConfig struct {
	Addresses         []string      `env:"ADDRESSES" envSeparator:","`
	Network           string        `env:"NETWORK" envDefault:"tcp"`
	CertFile          string        `env:"CERT_FILE"`
	KeyFile           string        `env:"KEY_FILE"`
	DisableHTTP2      bool          `env:"DISABLE_HTTP2"`
	HidePort          bool          `env:"HIDE_PORT"`
	MaxHeaderBytes    int           `env:"MAX_HEADER_BYTES"`
	ReadHeaderTimeout time.Duration `env:"READ_HEADER_TIMEOUT"`
	ReadTimeout       time.Duration `env:"READ_TIMEOUT"`
	WriteTimeout      time.Duration `env:"WRITE_TIMEOUT"`
	IdleTimeout       time.Duration `env:"IDLE_TIMEOUT"`
	GracefulTimeout   time.Duration `env:"GRACEFUL_TIMEOUT" envDefault:"10s"`
}

// LoadServerConfig reads the configuration from environment variables named
// prefix + tag, e.g. SERVER_ADDRESSES. The dotenv files are loaded first and
// never override variables already set; missing files are skipped.
func LoadServerConfig(prefix string, dotenv ...string) (*ServerConfig, error) {
	for _, file := range dotenv {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", file, err)
		}
	}

	var cfg ServerConfig
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: prefix}); err != nil {
		return nil, fmt.Errorf("parse server config: %w", err)
	}
	cfg.setDefaults()
	return &cfg, nil
}

func (cfg *ServerConfig) setDefaults() {
	if cfg.Network == "" {
		cfg.Network = "tcp"
	}
	if len(cfg.Addresses) == 0 {
		cfg.Addresses = []string{":0"}
	}
	if cfg.GracefulTimeout <= 0 {
		cfg.GracefulTimeout = 10 * time.Second
	}
}

func (cfg *ServerConfig) httpServer(handler http.Handler) *http.Server {
	return &http.Server{
		Handler:           handler,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}
