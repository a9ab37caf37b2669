// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the VF_-prefixed environment configuration.
package config

import (
	"fmt"
	"log/slog"
	"unicode"

	"github.com/caarlos0/env/v11"
)

// minSecretLen is the minimum session secret size; the cookie codec
// derives an AES-256 key from it.
const minSecretLen = 32

// placeholderSecrets are example values from deployment docs that must
// never reach production.
var placeholderSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config is the application configuration.
type Config struct {
	DBPath        string `env:"VF_DB_PATH" envDefault:"./data/valforet.db"`
	SessionSecret string `env:"VF_SESSION_SECRET,required"`
	ServerHost    string `env:"VF_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"VF_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"VF_ENV" envDefault:"development"`
	LogLevel      string `env:"VF_LOG_LEVEL" envDefault:"info"`
	UploadsDir    string `env:"VF_UPLOADS_DIR" envDefault:"./uploads"`
	SiteURL       string `env:"VF_SITE_URL" envDefault:"https://valforet.fr"`

	// Initial admin account, used only when seeding an empty database.
	AdminEmail    string `env:"VF_ADMIN_EMAIL" envDefault:"admin@valforet.fr"`
	AdminPassword string `env:"VF_ADMIN_PASSWORD" envDefault:"changeme"`
	DoSeed        bool   `env:"VF_DO_SEED" envDefault:"true"`

	// Cache settings. RedisURL empty means in-process memory cache.
	RedisURL     string `env:"VF_REDIS_URL"`
	CachePrefix  string `env:"VF_CACHE_PREFIX" envDefault:"vf:"`
	CacheTTL     int    `env:"VF_CACHE_TTL" envDefault:"3600"` // seconds
	CacheMaxSize int    `env:"VF_CACHE_MAX_SIZE" envDefault:"10000"`

	// Optional GeoLite2-Country.mmdb path for login geolocation.
	GeoIPDBPath string `env:"VF_GEOIP_DB_PATH"`
}

// Load parses the environment and validates the result.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.SessionSecret) < minSecretLen {
		return fmt.Errorf("VF_SESSION_SECRET must be at least %d bytes, got %d; generate one with: openssl rand -base64 32",
			minSecretLen, len(c.SessionSecret))
	}
	for _, placeholder := range placeholderSecrets {
		if c.SessionSecret == placeholder {
			return fmt.Errorf("VF_SESSION_SECRET is a documented placeholder; generate a real secret with: openssl rand -base64 32")
		}
	}
	if characterClasses(c.SessionSecret) < 3 {
		slog.Warn("VF_SESSION_SECRET has low character diversity; consider generating one with: openssl rand -base64 32")
	}
	return nil
}

// characterClasses counts which of lowercase, uppercase, digits and
// punctuation appear in s, as a rough entropy signal.
func characterClasses(s string) int {
	var lower, upper, digit, other bool
	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		default:
			other = true
		}
	}
	n := 0
	for _, seen := range []bool{lower, upper, digit, other} {
		if seen {
			n++
		}
	}
	return n
}

// IsDevelopment reports whether the app runs in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the host:port the HTTP server binds to.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache reports whether a Redis cache backend is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}
