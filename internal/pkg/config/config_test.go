package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "secret",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != "8080" || cfg.Storage != StorageSQL || cfg.Database.Driver != "sqlite" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.Auth.TokenTTL != 24*time.Hour {
		t.Errorf("expected 24h token ttl, got %v", cfg.Auth.TokenTTL)
	}
	if cfg.Auth.LoginMaxAttempts != 5 || cfg.Auth.LoginWindow != 15*time.Minute {
		t.Errorf("unexpected limiter defaults: %+v", cfg.Auth)
	}
	if cfg.Redis.Addr != "" {
		t.Errorf("redis must be off by default")
	}
	if !cfg.IsDevelopment() {
		t.Errorf("expected development env by default")
	}
}

func TestLoadWith_Overrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":     "secret",
		"STORAGE_DRIVER": "mongo",
		"JWT_TTL":        "1h",
		"AUTH_REQUIRED":  "true",
		"REDIS_ADDR":     "localhost:6379",
		"ENV":            "production",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage != StorageMongo || cfg.Auth.TokenTTL != time.Hour || !cfg.AuthRequired {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.IsDevelopment() {
		t.Errorf("production must not be development")
	}
}

func TestLoadWith_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"missing secret": {},
		"bad storage":    {"JWT_SECRET": "s", "STORAGE_DRIVER": "cassandra"},
		"bad db driver":  {"JWT_SECRET": "s", "DB_DRIVER": "mysql"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadWith(context.Background(), envconfig.MapLookuper(env))
			if err == nil || !strings.HasPrefix(err.Error(), "config:") {
				t.Fatalf("expected config error, got %v", err)
			}
		})
	}
}
