package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var configEnvKeys = []string{
	"CONFIG_FILE", "APP_ENV", "LOG_MODE", "PORT", "OPERATION_TIMEOUT", "READ_HEADER_TIMEOUT",
	"SHUTDOWN_TIMEOUT", "CORS_ORIGINS", "DB_DRIVER", "POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_USER",
	"POSTGRES_PASSWORD", "POSTGRES_NAME", "POSTGRES_SSLMODE", "SQLITE_PATH", "DB_MAX_OPEN_CONNS",
	"DB_MAX_IDLE_CONNS", "DB_SLOW_THRESHOLD", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "REDIS_CHANNEL",
	"AUTH_JWT_SECRET", "AUTH_JWT_ISSUER", "AUTH_JWT_AUDIENCE", "AUTH_JWT_LEEWAY", "ADMIN_USER_IDS",
	"ASSESSMENT_PASSING_SCORE", "ACCESS_SEQUENTIAL_GATING", "SERVICE_NAME", "SERVICE_VERSION", "METRICS_ADDR",
	"OTEL_ENABLED", "OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_EXPORTER_OTLP_INSECURE", "OTEL_EXPORTER_OTLP_HEADERS", "OTEL_SAMPLER_RATIO",
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, k := range configEnvKeys {
		t.Setenv(k, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("AUTH_JWT_SECRET", "test-secret")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Addr() != ":8080" {
		t.Fatalf("addr: want :8080 got %s", cfg.Addr())
	}
	if cfg.Server.OperationTimeout != 5*time.Second {
		t.Fatalf("operation timeout: want 5s got %s", cfg.Server.OperationTimeout)
	}
	if cfg.Learning.PassingScore != 70 {
		t.Fatalf("passing score: want 70 got %d", cfg.Learning.PassingScore)
	}
	if cfg.AccessPolicy().SequentialGating {
		t.Fatalf("sequential gating should default off")
	}
	if cfg.Redis.Addr != "" {
		t.Fatalf("redis should be disabled by default, got %q", cfg.Redis.Addr)
	}
	if otel := cfg.Otel(); otel.Enabled || otel.SampleRatio != 0.1 || otel.ServiceName != "courseware" {
		t.Fatalf("tracing defaults: %+v", otel)
	}
}

func TestLoadConfigTracingFromEnv(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("AUTH_JWT_SECRET", "s")
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "collector:4318")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "x-team=learning")
	t.Setenv("OTEL_SAMPLER_RATIO", "1")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	otel := cfg.Otel()
	if !otel.Enabled || otel.Endpoint != "collector:4318" || otel.SampleRatio != 1 || otel.Headers["x-team"] != "learning" {
		t.Fatalf("tracing config: %+v", otel)
	}
}

func TestLoadConfigFileThenEnv(t *testing.T) {
	clearConfigEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
server:
  port: "9090"
  operation_timeout: 2s
database:
  driver: sqlite
  sqlite_path: /tmp/courseware-test.db
auth:
  jwt_secret: from-file
  admin_user_ids: ["auth0|root"]
learning:
  passing_score: 80
  sequential_gating: true
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "7070")
	t.Setenv("ADMIN_USER_IDS", "auth0|a, auth0|b")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Addr() != ":7070" {
		t.Fatalf("env should win over file: got %s", cfg.Addr())
	}
	if cfg.Server.OperationTimeout != 2*time.Second {
		t.Fatalf("operation timeout from file: got %s", cfg.Server.OperationTimeout)
	}
	if cfg.DB().Driver != "sqlite" || cfg.DB().SQLitePath != "/tmp/courseware-test.db" {
		t.Fatalf("db config from file: %+v", cfg.DB())
	}
	if cfg.Auth.JWTSecret != "from-file" {
		t.Fatalf("jwt secret: got %q", cfg.Auth.JWTSecret)
	}
	if got := strings.Join(cfg.Auth.AdminUserIDs, ","); got != "auth0|a,auth0|b" {
		t.Fatalf("admin ids: got %s", got)
	}
	if cfg.Learning.PassingScore != 80 || !cfg.AccessPolicy().SequentialGating {
		t.Fatalf("learning config from file: %+v", cfg.Learning)
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"missing secret", map[string]string{}, "jwt secret"},
		{"passing score too high", map[string]string{"AUTH_JWT_SECRET": "s", "ASSESSMENT_PASSING_SCORE": "101"}, "passing_score"},
		{"unknown driver", map[string]string{"AUTH_JWT_SECRET": "s", "DB_DRIVER": "oracle"}, "driver"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearConfigEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("want error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("AUTH_JWT_SECRET", "s")
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}
