package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Feature  FeatureConfig  `mapstructure:"feature"`
	Editor   EditorConfig   `mapstructure:"editor"`
	Draft    DraftConfig    `mapstructure:"draft"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	SQLite   SQLiteConfig   `mapstructure:"sqlite"`
	Remote   RemoteConfig   `mapstructure:"remote"`
	Security SecurityConfig `mapstructure:"security"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type ServerConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
	MiddlewareTimeout time.Duration `mapstructure:"middleware_timeout"`
}

// FeatureConfig is the host-shell switch that makes the editor reachable at all
type FeatureConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type EditorConfig struct {
	DefaultRole      string `mapstructure:"default_role"`
	DefaultAgentName string `mapstructure:"default_agent_name"`
	DuplicateSuffix  string `mapstructure:"duplicate_suffix"`
}

// Draft backends
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

type DraftConfig struct {
	Backend       string        `mapstructure:"backend"`
	Key           string        `mapstructure:"key"`
	Dir           string        `mapstructure:"dir"`
	AutosaveDelay time.Duration `mapstructure:"autosave_delay"`
}

type DatabaseConfig struct {
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	User          string `mapstructure:"user"`
	Password      string `mapstructure:"password"`
	Database      string `mapstructure:"database"`
	SSLMode       string `mapstructure:"ssl_mode"`
	MaxConns      int32  `mapstructure:"max_conns"`
	MinConns      int32  `mapstructure:"min_conns"`
	MigrationsURL string `mapstructure:"migrations_url"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Enabled reports whether a redis server was configured
func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

// RemoteConfig describes the remote configuration service. An empty Endpoint disables sync.
type RemoteConfig struct {
	Endpoint       string        `mapstructure:"endpoint"`
	PublishEnabled bool          `mapstructure:"publish_enabled"`
	Timeout        time.Duration `mapstructure:"timeout"`
	MaxBodyBytes   int64         `mapstructure:"max_body_bytes"`
}

// Enabled reports whether hydrate is available
func (c RemoteConfig) Enabled() bool {
	return c.Endpoint != ""
}

// CanPublish reports whether publish is available
func (c RemoteConfig) CanPublish() bool {
	return c.Enabled() && c.PublishEnabled
}

type SecurityConfig struct {
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

type RateLimitConfig struct {
	RequestsPerMinute int `mapstructure:"requests_per_minute"`
	Burst             int `mapstructure:"burst"`
}

type LoggingConfig struct {
	Level    string        `mapstructure:"level"`
	Format   string        `mapstructure:"format"`
	File     string        `mapstructure:"file"`
	MaxAge   time.Duration `mapstructure:"max_age"`
	Rotation time.Duration `mapstructure:"rotation"`
}

// Load reads configuration from file and environment variables
func Load() (*Config, error) {
	v := viper.New()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/config.yaml"
	}

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, use defaults and env vars
	}

	v.AutomaticEnv()
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Draft.Backend {
	case BackendMemory, BackendFile, BackendRedis, BackendSQLite, BackendPostgres:
	default:
		return fmt.Errorf("unknown draft backend %q", c.Draft.Backend)
	}
	if c.Draft.Key == "" {
		return fmt.Errorf("draft key must not be empty")
	}
	if c.Draft.AutosaveDelay <= 0 {
		return fmt.Errorf("draft autosave delay must be positive, got %s", c.Draft.AutosaveDelay)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	// Server
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.middleware_timeout", "60s")

	// Feature
	v.SetDefault("feature.enabled", true)

	// Editor
	v.SetDefault("editor.default_role", "assistant")
	v.SetDefault("editor.default_agent_name", "Untitled agent")
	v.SetDefault("editor.duplicate_suffix", " (copy)")

	// Draft
	v.SetDefault("draft.backend", BackendFile)
	v.SetDefault("draft.key", "agent-interactions-draft")
	v.SetDefault("draft.dir", "./data/drafts")
	v.SetDefault("draft.autosave_delay", "750ms")

	// Database
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "drafts")
	v.SetDefault("database.database", "drafts")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 1)
	v.SetDefault("database.migrations_url", "file://migrations")

	// Redis
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)

	// SQLite
	v.SetDefault("sqlite.path", "./data/drafts.db")

	// Remote
	v.SetDefault("remote.publish_enabled", false)
	v.SetDefault("remote.timeout", "15s")
	v.SetDefault("remote.max_body_bytes", 10<<20)

	// Security
	v.SetDefault("security.rate_limit.requests_per_minute", 30)
	v.SetDefault("security.rate_limit.burst", 5)

	// Logging
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.max_age", "168h")
	v.SetDefault("logging.rotation", "24h")
}

func bindEnvVars(v *viper.Viper) {
	// Feature flag owned by the host shell
	v.BindEnv("feature.enabled", "FEATURE_AGENT_INTERACTIONS")

	// Remote configuration service
	v.BindEnv("remote.endpoint", "AGENT_CONFIG_ENDPOINT")
	v.BindEnv("remote.publish_enabled", "AGENT_CONFIG_PUBLISH_ENABLED")

	// Draft
	v.BindEnv("draft.backend", "DRAFT_BACKEND")
	v.BindEnv("draft.key", "DRAFT_KEY")

	// Database
	v.BindEnv("database.password", "POSTGRES_PASSWORD")

	// Redis
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	// Logging
	v.BindEnv("logging.level", "LOG_LEVEL")
}
