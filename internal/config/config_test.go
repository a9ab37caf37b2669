// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"os"
	"testing"
)

const testSecret = "une-clef-de-session-de-32-octets"

// loadWith clears the process environment, applies vars and runs Load.
func loadWith(t *testing.T, vars map[string]string) (*Config, error) {
	t.Helper()
	os.Clearenv()
	for k, v := range vars {
		t.Setenv(k, v)
	}
	return Load()
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := loadWith(t, map[string]string{"VF_SESSION_SECRET": testSecret})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	checks := []struct {
		field string
		got   any
		want  any
	}{
		{"DBPath", cfg.DBPath, "./data/valforet.db"},
		{"ServerHost", cfg.ServerHost, "localhost"},
		{"ServerPort", cfg.ServerPort, 8080},
		{"Env", cfg.Env, "development"},
		{"LogLevel", cfg.LogLevel, "info"},
		{"AdminEmail", cfg.AdminEmail, "admin@valforet.fr"},
		{"UploadsDir", cfg.UploadsDir, "./uploads"},
		{"SiteURL", cfg.SiteURL, "https://valforet.fr"},
		{"DoSeed", cfg.DoSeed, true},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.field, c.got, c.want)
		}
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	cfg, err := loadWith(t, map[string]string{
		"VF_SESSION_SECRET": testSecret,
		"VF_DB_PATH":        "/srv/valforet/site.db",
		"VF_SERVER_HOST":    "0.0.0.0",
		"VF_SERVER_PORT":    "3000",
		"VF_ENV":            "production",
		"VF_LOG_LEVEL":      "debug",
		"VF_UPLOADS_DIR":    "/srv/valforet/uploads",
	})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.SessionSecret != testSecret {
		t.Errorf("SessionSecret = %q", cfg.SessionSecret)
	}
	if cfg.DBPath != "/srv/valforet/site.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.ServerAddr() != "0.0.0.0:3000" {
		t.Errorf("ServerAddr() = %q, want 0.0.0.0:3000", cfg.ServerAddr())
	}
	if cfg.IsDevelopment() {
		t.Error("IsDevelopment() should be false with VF_ENV=production")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.UploadsDir != "/srv/valforet/uploads" {
		t.Errorf("UploadsDir = %q", cfg.UploadsDir)
	}
}

func TestLoadSecretValidation(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		wantErr bool
	}{
		{"missing", "", true},
		{"too short", "court", true},
		{"31 bytes", "1234567890123456789012345678901", true},
		{"32 bytes", "12345678901234567890123456789012", false},
		{"documented placeholder", "change-me-to-32-byte-secret-key!", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vars := map[string]string{}
			if tt.secret != "" {
				vars["VF_SESSION_SECRET"] = tt.secret
			}
			cfg, err := loadWith(t, vars)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && cfg.SessionSecret != tt.secret {
				t.Errorf("SessionSecret = %q, want %q", cfg.SessionSecret, tt.secret)
			}
		})
	}
}

func TestIsDevelopment(t *testing.T) {
	tests := []struct {
		env  string
		want bool
	}{
		{"development", true},
		{"production", false},
		{"staging", false},
		{"", false},
	}

	for _, tt := range tests {
		cfg := Config{Env: tt.env}
		if got := cfg.IsDevelopment(); got != tt.want {
			t.Errorf("IsDevelopment() with env %q = %v, want %v", tt.env, got, tt.want)
		}
	}
}

func TestUseRedisCache(t *testing.T) {
	if (Config{}).UseRedisCache() {
		t.Error("UseRedisCache() should be false without a Redis URL")
	}
	cfg := Config{RedisURL: "redis://localhost:6379/0"}
	if !cfg.UseRedisCache() {
		t.Error("UseRedisCache() should be true with a Redis URL")
	}
}

func TestCharacterClasses(t *testing.T) {
	tests := []struct {
		s    string
		want int
	}{
		{"", 0},
		{"abc", 1},
		{"abcABC", 2},
		{"abcABC123", 3},
		{"abcABC123!?", 4},
		{"0000", 1},
	}
	for _, tt := range tests {
		if got := characterClasses(tt.s); got != tt.want {
			t.Errorf("characterClasses(%q) = %d, want %d", tt.s, got, tt.want)
		}
	}
}
