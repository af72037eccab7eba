package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the root application configuration. Values come from the YAML
// file named by CONFIG_PATH when set, with environment variables taking
// priority and env-default tags filling the rest.
type Config struct {
	Port            string        `yaml:"port"             env:"PORT"             env-default:"8081"`
	Env             string        `yaml:"env"              env:"ENV"              env-default:"development"`
	LogLevel        string        `yaml:"log_level"        env:"LOG_LEVEL"        env-default:"info"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" env-default:"10s"`

	Database DatabaseConfig `yaml:"database"`
	Cache    CacheConfig    `yaml:"cache"`
	Auth     AuthConfig     `yaml:"auth"`
	CORS     CORSConfig     `yaml:"cors"`
	Events   EventsConfig   `yaml:"events"`
	Tracing  TracingConfig  `yaml:"tracing"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	URL             string        `yaml:"url"                env:"DATABASE_URL"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"20m"`
	MigrateOnStart  bool          `yaml:"migrate_on_start"   env:"MIGRATE_ON_START"            env-default:"true"`
}

// CacheConfig controls the Redis response-body cache. An empty URL turns
// the cache off.
type CacheConfig struct {
	RedisURL string        `yaml:"redis_url" env:"REDIS_URL"`
	TTL      time.Duration `yaml:"ttl"       env:"CACHE_TTL" env-default:"60s"`
}

// AuthConfig holds bearer-token verification settings.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret" env:"JWT_SECRET"`
	AdminRole string `yaml:"admin_role" env:"ADMIN_ROLE" env-default:"admin"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-default:"*"`
}

// EventsConfig controls the Kafka publisher. No brokers means no events.
type EventsConfig struct {
	Brokers string `yaml:"brokers" env:"KAFKA_BROKERS"`
	Topic   string `yaml:"topic"   env:"KAFKA_TOPIC"   env-default:"dws.events"`
}

// TracingConfig controls OpenTelemetry export.
type TracingConfig struct {
	Exporter    string  `yaml:"exporter"     env:"TRACING_EXPORTER"     env-default:"none"`
	SampleRatio float64 `yaml:"sample_ratio" env:"TRACING_SAMPLE_RATIO" env-default:"1"`
	ServiceName string  `yaml:"service_name" env:"SERVICE_NAME"         env-default:"dws-api"`
}

// LoadConfig reads and validates the configuration.
func LoadConfig() (*Config, error) {
	var cfg Config

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return &cfg, nil
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks rules the tags cannot express.
func (c *Config) Validate() error {
	if c.Env != "development" && len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters outside development (got %d)", len(c.Auth.JWTSecret))
	}

	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("database.min_conns (%d) must not exceed max_conns (%d)", c.Database.MinConns, c.Database.MaxConns)
	}

	switch c.Tracing.Exporter {
	case "none", "stdout", "otlp":
	default:
		return fmt.Errorf("tracing.exporter must be none, stdout or otlp (got %q)", c.Tracing.Exporter)
	}

	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		return fmt.Errorf("tracing.sample_ratio must be within [0,1] (got %v)", c.Tracing.SampleRatio)
	}

	if c.Events.Brokers != "" && strings.TrimSpace(c.Events.Topic) == "" {
		return fmt.Errorf("events.topic is required when brokers are set")
	}

	return nil
}

// CORSOrigins splits the comma-separated origin list.
func (c *Config) CORSOrigins() []string {
	return splitList(c.CORS.AllowedOrigins)
}

// KafkaBrokers splits the comma-separated broker list.
func (c *Config) KafkaBrokers() []string {
	return splitList(c.Events.Brokers)
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
