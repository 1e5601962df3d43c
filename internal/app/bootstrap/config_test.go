package bootstrap

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	return path
}

func TestLoadConfigDefaultsAndFile(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")

	path := writeConfigFile(t, `
service:
  id: auth-service-test
  http_port: 8181
dependencies:
  postgres_url: postgres://localhost/auth
  redis_url: redis://localhost:6379/1
auth:
  access_token_ttl_seconds: 600
  lockout_threshold: 3
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ServiceID != "auth-service-test" {
		t.Fatalf("unexpected service id %q", cfg.ServiceID)
	}
	if cfg.HTTPPort != 8181 || cfg.GRPCPort != 9090 {
		t.Fatalf("unexpected ports %d/%d", cfg.HTTPPort, cfg.GRPCPort)
	}
	if cfg.AccessTokenTTL != 10*time.Minute {
		t.Fatalf("unexpected access token ttl %v", cfg.AccessTokenTTL)
	}
	if cfg.RefreshTokenTTL != 7*24*time.Hour || cfg.RememberMeRefreshTTL != 30*24*time.Hour {
		t.Fatalf("unexpected refresh ttls %v/%v", cfg.RefreshTokenTTL, cfg.RememberMeRefreshTTL)
	}
	if cfg.LockoutThreshold != 3 || cfg.LockoutWindow != time.Hour {
		t.Fatalf("unexpected lockout config %d/%v", cfg.LockoutThreshold, cfg.LockoutWindow)
	}
	if len(cfg.DefaultRoles) != 1 || cfg.DefaultRoles[0] != "CUSTOMER" {
		t.Fatalf("unexpected default roles %v", cfg.DefaultRoles)
	}
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("HTTP_PORT", "9999")
	t.Setenv("REDIS_URL", "redis://override:6379/0")
	t.Setenv("ACCESS_TOKEN_TTL_SECONDS", "120")
	t.Setenv("REMEMBER_ME_TTL_DAYS", "60")
	t.Setenv("DEFAULT_ROLES", "CUSTOMER, AUDITOR")

	path := writeConfigFile(t, `
dependencies:
  postgres_url: postgres://localhost/auth
  redis_url: redis://file:6379/0
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HTTPPort != 9999 {
		t.Fatalf("env should win over file, got port %d", cfg.HTTPPort)
	}
	if cfg.RedisURL != "redis://override:6379/0" {
		t.Fatalf("env should win over file, got redis url %q", cfg.RedisURL)
	}
	if cfg.AccessTokenTTL != 2*time.Minute {
		t.Fatalf("unexpected access token ttl %v", cfg.AccessTokenTTL)
	}
	if cfg.RememberMeRefreshTTL != 60*24*time.Hour {
		t.Fatalf("unexpected remember-me ttl %v", cfg.RememberMeRefreshTTL)
	}
	if len(cfg.DefaultRoles) != 2 || cfg.DefaultRoles[1] != "AUDITOR" {
		t.Fatalf("unexpected default roles %v", cfg.DefaultRoles)
	}
}

func TestLoadConfigMissingRequiredValues(t *testing.T) {
	t.Setenv("DB_URL", "")
	t.Setenv("POSTGRES_URL", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("JWT_SECRET", "")

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error with no database url")
	}

	t.Setenv("DB_URL", "postgres://localhost/auth")
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error with no redis url")
	}

	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error with no jwt secret")
	}

	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err != nil {
		t.Fatalf("expected config to load, got %v", err)
	}
}
