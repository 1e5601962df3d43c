package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the resolved runtime configuration for the auth service.
// It merges file defaults and environment overrides to support both local and deployed runs.
type Config struct {
	ServiceID string

	HTTPPort int
	GRPCPort int

	DatabaseURL string
	RedisURL    string

	JWTSecret string

	BcryptCost int

	AccessTokenTTL       time.Duration
	RefreshTokenTTL      time.Duration
	RememberMeRefreshTTL time.Duration

	LockoutThreshold       int
	LockoutWindow          time.Duration
	LockoutExtendOnFailure bool

	DefaultRoles []string
	EventStream  string

	MaxDBConns int
}

// configFile mirrors the YAML schema used by configs/default.yaml.
// It is intentionally separate from Config so runtime-only fields stay internal.
type configFile struct {
	Service struct {
		ID       string `yaml:"id"`
		HTTPPort int    `yaml:"http_port"`
		GRPCPort int    `yaml:"grpc_port"`
	} `yaml:"service"`
	Dependencies struct {
		PostgresURL string `yaml:"postgres_url"`
		RedisURL    string `yaml:"redis_url"`
	} `yaml:"dependencies"`
	Auth struct {
		AccessTokenTTLSeconds  int      `yaml:"access_token_ttl_seconds"`
		RefreshTokenTTLDays    int      `yaml:"refresh_token_ttl_days"`
		RememberMeTTLDays      int      `yaml:"remember_me_ttl_days"`
		LockoutThreshold       int      `yaml:"lockout_threshold"`
		LockoutWindowMinutes   int      `yaml:"lockout_window_minutes"`
		LockoutExtendOnFailure bool     `yaml:"lockout_extend_on_failure"`
		DefaultRoles           []string `yaml:"default_roles"`
	} `yaml:"auth"`
	Events struct {
		Stream string `yaml:"stream"`
	} `yaml:"events"`
}

// LoadConfig resolves configuration in priority order: defaults -> file -> env.
// This order keeps local bootstrap simple while allowing environment-specific overrides.
func LoadConfig(path string) (Config, error) {
	cfg := Config{
		ServiceID:            "auth-service",
		HTTPPort:             8080,
		GRPCPort:             9090,
		BcryptCost:           12,
		AccessTokenTTL:       15 * time.Minute,
		RefreshTokenTTL:      7 * 24 * time.Hour,
		RememberMeRefreshTTL: 30 * 24 * time.Hour,
		LockoutThreshold:     5,
		LockoutWindow:        time.Hour,
		DefaultRoles:         []string{"CUSTOMER"},
		EventStream:          "user-events",
		MaxDBConns:           20,
	}

	raw, err := os.ReadFile(path)
	if err == nil {
		var f configFile
		if unmarshalErr := yaml.Unmarshal(raw, &f); unmarshalErr != nil {
			return Config{}, fmt.Errorf("parse config file: %w", unmarshalErr)
		}
		if f.Service.ID != "" {
			cfg.ServiceID = f.Service.ID
		}
		if f.Service.HTTPPort > 0 {
			cfg.HTTPPort = f.Service.HTTPPort
		}
		if f.Service.GRPCPort > 0 {
			cfg.GRPCPort = f.Service.GRPCPort
		}
		if f.Dependencies.PostgresURL != "" {
			cfg.DatabaseURL = f.Dependencies.PostgresURL
		}
		if f.Dependencies.RedisURL != "" {
			cfg.RedisURL = f.Dependencies.RedisURL
		}
		if f.Auth.AccessTokenTTLSeconds > 0 {
			cfg.AccessTokenTTL = time.Duration(f.Auth.AccessTokenTTLSeconds) * time.Second
		}
		if f.Auth.RefreshTokenTTLDays > 0 {
			cfg.RefreshTokenTTL = time.Duration(f.Auth.RefreshTokenTTLDays) * 24 * time.Hour
		}
		if f.Auth.RememberMeTTLDays > 0 {
			cfg.RememberMeRefreshTTL = time.Duration(f.Auth.RememberMeTTLDays) * 24 * time.Hour
		}
		if f.Auth.LockoutThreshold > 0 {
			cfg.LockoutThreshold = f.Auth.LockoutThreshold
		}
		if f.Auth.LockoutWindowMinutes > 0 {
			cfg.LockoutWindow = time.Duration(f.Auth.LockoutWindowMinutes) * time.Minute
		}
		cfg.LockoutExtendOnFailure = f.Auth.LockoutExtendOnFailure
		if len(f.Auth.DefaultRoles) > 0 {
			cfg.DefaultRoles = f.Auth.DefaultRoles
		}
		if f.Events.Stream != "" {
			cfg.EventStream = f.Events.Stream
		}
	}

	cfg.DatabaseURL = envOrDefault("DB_URL", envOrDefault("POSTGRES_URL", cfg.DatabaseURL))
	cfg.RedisURL = envOrDefault("REDIS_URL", cfg.RedisURL)
	cfg.JWTSecret = envOrDefault("JWT_SECRET", cfg.JWTSecret)
	cfg.EventStream = envOrDefault("EVENT_STREAM", cfg.EventStream)
	cfg.DefaultRoles = envCSV("DEFAULT_ROLES", cfg.DefaultRoles)

	cfg.HTTPPort = envInt("HTTP_PORT", cfg.HTTPPort)
	cfg.GRPCPort = envInt("GRPC_PORT", cfg.GRPCPort)
	cfg.BcryptCost = envInt("BCRYPT_ROUNDS", cfg.BcryptCost)
	cfg.LockoutThreshold = envInt("FAILED_LOGIN_THRESHOLD", cfg.LockoutThreshold)
	cfg.LockoutExtendOnFailure = envBool("LOCKOUT_EXTEND_ON_FAILURE", cfg.LockoutExtendOnFailure)
	cfg.MaxDBConns = envInt("DB_MAX_CONNS", cfg.MaxDBConns)

	cfg.AccessTokenTTL = time.Duration(envInt("ACCESS_TOKEN_TTL_SECONDS", int(cfg.AccessTokenTTL.Seconds()))) * time.Second
	cfg.RefreshTokenTTL = time.Duration(envInt("REFRESH_TOKEN_TTL_DAYS", int(cfg.RefreshTokenTTL.Hours()/24))) * 24 * time.Hour
	cfg.RememberMeRefreshTTL = time.Duration(envInt("REMEMBER_ME_TTL_DAYS", int(cfg.RememberMeRefreshTTL.Hours()/24))) * 24 * time.Hour
	cfg.LockoutWindow = time.Duration(envInt("ACCOUNT_LOCKOUT_MINUTES", int(cfg.LockoutWindow.Minutes()))) * time.Minute

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("missing DB_URL/POSTGRES_URL")
	}
	if cfg.RedisURL == "" {
		return Config{}, fmt.Errorf("missing REDIS_URL")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("missing JWT_SECRET")
	}

	return cfg, nil
}

// envOrDefault returns an env var when present, otherwise the provided fallback.
func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

// envInt parses integer env vars with safe fallback on empty/invalid values.
func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

// envBool parses common boolean env forms while keeping a deterministic fallback.
func envBool(name string, fallback bool) bool {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return fallback
	}
}

// envCSV parses comma-separated env vars and removes empty segments.
func envCSV(name string, fallback []string) []string {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	parts := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		parts = append(parts, trimmed)
	}
	if len(parts) == 0 {
		return fallback
	}
	return parts
}
