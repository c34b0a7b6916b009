package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/courseware-backend/internal/data/db"
	"github.com/yungbote/courseware-backend/internal/domain/learning"
	"github.com/yungbote/courseware-backend/internal/observability"
	"github.com/yungbote/courseware-backend/internal/platform/envutil"
)

type ServerConfig struct {
	Port              string        `yaml:"port"`
	OperationTimeout  time.Duration `yaml:"operation_timeout"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"`
	CORSOrigins       []string      `yaml:"cors_origins"`
}

type DatabaseConfig struct {
	Driver        string        `yaml:"driver"`
	Host          string        `yaml:"host"`
	Port          string        `yaml:"port"`
	User          string        `yaml:"user"`
	Password      string        `yaml:"password"`
	Name          string        `yaml:"name"`
	SSLMode       string        `yaml:"sslmode"`
	SQLitePath    string        `yaml:"sqlite_path"`
	MaxOpenConns  int           `yaml:"max_open_conns"`
	MaxIdleConns  int           `yaml:"max_idle_conns"`
	SlowThreshold time.Duration `yaml:"slow_threshold"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Channel  string `yaml:"channel"`
}

type AuthConfig struct {
	JWTSecret    string        `yaml:"jwt_secret"`
	Issuer       string        `yaml:"issuer"`
	Audience     string        `yaml:"audience"`
	Leeway       time.Duration `yaml:"leeway"`
	AdminUserIDs []string      `yaml:"admin_user_ids"`
}

type LearningConfig struct {
	PassingScore     int  `yaml:"passing_score"`
	SequentialGating bool `yaml:"sequential_gating"`
}

type ObservabilityConfig struct {
	ServiceName string        `yaml:"service_name"`
	Version     string        `yaml:"version"`
	MetricsAddr string        `yaml:"metrics_addr"`
	Tracing     TracingConfig `yaml:"tracing"`
}

type TracingConfig struct {
	Enabled     bool              `yaml:"enabled"`
	Endpoint    string            `yaml:"endpoint"`
	Insecure    bool              `yaml:"insecure"`
	Headers     map[string]string `yaml:"headers"`
	SampleRatio float64           `yaml:"sample_ratio"`
}

type Config struct {
	Env           string              `yaml:"env"`
	LogMode       string              `yaml:"log_mode"`
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	Redis         RedisConfig         `yaml:"redis"`
	Auth          AuthConfig          `yaml:"auth"`
	Learning      LearningConfig      `yaml:"learning"`
	Observability ObservabilityConfig `yaml:"observability"`
}

func (c Config) Addr() string {
	port := strings.TrimPrefix(strings.TrimSpace(c.Server.Port), ":")
	return ":" + port
}

func (c Config) DB() db.Config {
	return db.Config{
		Driver:        c.Database.Driver,
		Host:          c.Database.Host,
		Port:          c.Database.Port,
		User:          c.Database.User,
		Password:      c.Database.Password,
		Name:          c.Database.Name,
		SSLMode:       c.Database.SSLMode,
		SQLitePath:    c.Database.SQLitePath,
		MaxOpenConns:  c.Database.MaxOpenConns,
		MaxIdleConns:  c.Database.MaxIdleConns,
		SlowThreshold: c.Database.SlowThreshold,
	}
}

func (c Config) Otel() observability.OtelConfig {
	t := c.Observability.Tracing
	return observability.OtelConfig{
		Enabled:     t.Enabled,
		ServiceName: c.Observability.ServiceName,
		Environment: c.Env,
		Version:     c.Observability.Version,
		Endpoint:    t.Endpoint,
		Insecure:    t.Insecure,
		Headers:     t.Headers,
		SampleRatio: t.SampleRatio,
	}
}

func (c Config) AccessPolicy() learning.AccessPolicy {
	return learning.AccessPolicy{SequentialGating: c.Learning.SequentialGating}
}

func defaultConfig() Config {
	return Config{
		Env:     "development",
		LogMode: "development",
		Server: ServerConfig{
			Port:              "8080",
			OperationTimeout:  5 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			ShutdownTimeout:   15 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:        db.DriverPostgres,
			Host:          "localhost",
			Port:          "5432",
			User:          "postgres",
			Name:          "courseware",
			SSLMode:       "disable",
			MaxOpenConns:  20,
			MaxIdleConns:  10,
			SlowThreshold: time.Second,
		},
		Redis: RedisConfig{
			Channel: "courseware:sse",
		},
		Learning: LearningConfig{
			PassingScore: learning.DefaultPassingScore,
		},
		Observability: ObservabilityConfig{
			ServiceName: "courseware",
			Version:     "dev",
			Tracing:     TracingConfig{SampleRatio: 0.1},
		},
	}
}

// LoadConfig layers defaults, the optional CONFIG_FILE (yaml) and environment overrides.
func LoadConfig() (Config, error) {
	cfg := defaultConfig()

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Env = envutil.String("APP_ENV", cfg.Env)
	cfg.LogMode = envutil.String("LOG_MODE", cfg.LogMode)

	cfg.Server.Port = envutil.String("PORT", cfg.Server.Port)
	cfg.Server.OperationTimeout = envutil.Duration("OPERATION_TIMEOUT", cfg.Server.OperationTimeout)
	cfg.Server.ReadHeaderTimeout = envutil.Duration("READ_HEADER_TIMEOUT", cfg.Server.ReadHeaderTimeout)
	cfg.Server.ShutdownTimeout = envutil.Duration("SHUTDOWN_TIMEOUT", cfg.Server.ShutdownTimeout)
	cfg.Server.CORSOrigins = envutil.List("CORS_ORIGINS", cfg.Server.CORSOrigins)

	cfg.Database.Driver = envutil.String("DB_DRIVER", cfg.Database.Driver)
	cfg.Database.Host = envutil.String("POSTGRES_HOST", cfg.Database.Host)
	cfg.Database.Port = envutil.String("POSTGRES_PORT", cfg.Database.Port)
	cfg.Database.User = envutil.String("POSTGRES_USER", cfg.Database.User)
	cfg.Database.Password = envutil.String("POSTGRES_PASSWORD", cfg.Database.Password)
	cfg.Database.Name = envutil.String("POSTGRES_NAME", cfg.Database.Name)
	cfg.Database.SSLMode = envutil.String("POSTGRES_SSLMODE", cfg.Database.SSLMode)
	cfg.Database.SQLitePath = envutil.String("SQLITE_PATH", cfg.Database.SQLitePath)
	cfg.Database.MaxOpenConns = envutil.Int("DB_MAX_OPEN_CONNS", cfg.Database.MaxOpenConns)
	cfg.Database.MaxIdleConns = envutil.Int("DB_MAX_IDLE_CONNS", cfg.Database.MaxIdleConns)
	cfg.Database.SlowThreshold = envutil.Duration("DB_SLOW_THRESHOLD", cfg.Database.SlowThreshold)

	cfg.Redis.Addr = envutil.String("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = envutil.String("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = envutil.Int("REDIS_DB", cfg.Redis.DB)
	cfg.Redis.Channel = envutil.String("REDIS_CHANNEL", cfg.Redis.Channel)

	cfg.Auth.JWTSecret = envutil.String("AUTH_JWT_SECRET", cfg.Auth.JWTSecret)
	cfg.Auth.Issuer = envutil.String("AUTH_JWT_ISSUER", cfg.Auth.Issuer)
	cfg.Auth.Audience = envutil.String("AUTH_JWT_AUDIENCE", cfg.Auth.Audience)
	cfg.Auth.Leeway = envutil.Duration("AUTH_JWT_LEEWAY", cfg.Auth.Leeway)
	cfg.Auth.AdminUserIDs = envutil.List("ADMIN_USER_IDS", cfg.Auth.AdminUserIDs)

	cfg.Learning.PassingScore = envutil.Int("ASSESSMENT_PASSING_SCORE", cfg.Learning.PassingScore)
	cfg.Learning.SequentialGating = envutil.Bool("ACCESS_SEQUENTIAL_GATING", cfg.Learning.SequentialGating)

	cfg.Observability.ServiceName = envutil.String("SERVICE_NAME", cfg.Observability.ServiceName)
	cfg.Observability.Version = envutil.String("SERVICE_VERSION", cfg.Observability.Version)
	cfg.Observability.MetricsAddr = envutil.String("METRICS_ADDR", cfg.Observability.MetricsAddr)

	t := &cfg.Observability.Tracing
	t.Enabled = envutil.Bool("OTEL_ENABLED", t.Enabled)
	t.Endpoint = envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", t.Endpoint)
	t.Insecure = envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", t.Insecure)
	if h := envutil.Pairs("OTEL_EXPORTER_OTLP_HEADERS"); h != nil {
		t.Headers = h
	}
	t.SampleRatio = envutil.Float("OTEL_SAMPLER_RATIO", t.SampleRatio)
}

func (c Config) validate() error {
	if strings.TrimSpace(c.Server.Port) == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Server.OperationTimeout <= 0 {
		return fmt.Errorf("server operation_timeout must be positive")
	}
	switch strings.ToLower(strings.TrimSpace(c.Database.Driver)) {
	case db.DriverPostgres, db.DriverSQLite:
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return fmt.Errorf("auth jwt secret is required (AUTH_JWT_SECRET)")
	}
	if c.Learning.PassingScore < 1 || c.Learning.PassingScore > 100 {
		return fmt.Errorf("learning passing_score must be within 1..100, got %d", c.Learning.PassingScore)
	}
	return nil
}
