package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"

	"github.com/jwalitptl/endoscopy-scheduler/internal/middleware"
	"github.com/jwalitptl/endoscopy-scheduler/internal/service/assignment"
	"github.com/jwalitptl/endoscopy-scheduler/pkg/auth"
)

// EnvPrefix prefixes every environment override, e.g. SCHEDULER_SERVER_PORT.
const EnvPrefix = "SCHEDULER"

// keyDelimiter replaces viper's "." so operation names such as
// "schedules.save" survive as map keys under authorization.
const keyDelimiter = "::"

type Config struct {
	Server        ServerConfig      `mapstructure:"server" envconfig:"server"`
	JWT           JWTConfig         `mapstructure:"jwt" envconfig:"jwt"`
	Security      SecurityConfig    `mapstructure:"security" envconfig:"security"`
	Session       SessionConfig     `mapstructure:"session" envconfig:"session"`
	RateLimit     RateLimitConfig   `mapstructure:"rate_limit" envconfig:"rate_limit"`
	CORS          CORSConfig        `mapstructure:"cors" envconfig:"cors"`
	Log           LogConfig         `mapstructure:"log" envconfig:"log"`
	Generator     GeneratorConfig   `mapstructure:"generator" envconfig:"generator"`
	Authorization map[string]string `mapstructure:"authorization" envconfig:"authorization"`
	Metrics       MetricsConfig     `mapstructure:"metrics" envconfig:"metrics"`
	Seed          SeedConfig        `mapstructure:"seed" envconfig:"seed"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port" envconfig:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" envconfig:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" envconfig:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" envconfig:"shutdown_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout" envconfig:"request_timeout"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes" envconfig:"max_body_bytes"`
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret" envconfig:"secret"`
	Issuer string        `mapstructure:"issuer" envconfig:"issuer"`
	Expiry time.Duration `mapstructure:"expiry" envconfig:"expiry"`
}

type SecurityConfig struct {
	BcryptCost       int           `mapstructure:"bcrypt_cost" envconfig:"bcrypt_cost"`
	MaxLoginAttempts int           `mapstructure:"max_login_attempts" envconfig:"max_login_attempts"`
	LockoutWindow    time.Duration `mapstructure:"lockout_window" envconfig:"lockout_window"`
	HSTS             bool          `mapstructure:"hsts" envconfig:"hsts"`
}

type SessionConfig struct {
	Store     string `mapstructure:"store" envconfig:"store"`
	RedisURL  string `mapstructure:"redis_url" envconfig:"redis_url"`
	KeyPrefix string `mapstructure:"key_prefix" envconfig:"key_prefix"`
	PoolSize  int    `mapstructure:"pool_size" envconfig:"pool_size"`

	BreakerFailures int           `mapstructure:"breaker_failures" envconfig:"breaker_failures"`
	BreakerTimeout  time.Duration `mapstructure:"breaker_timeout" envconfig:"breaker_timeout"`
}

type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled" envconfig:"enabled"`
	RequestsPerSecond float64 `mapstructure:"rps" envconfig:"rps"`
	Burst             int     `mapstructure:"burst" envconfig:"burst"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins" envconfig:"allowed_origins"`
	AllowCredentials bool     `mapstructure:"allow_credentials" envconfig:"allow_credentials"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" envconfig:"level"`
	Format string `mapstructure:"format" envconfig:"format"`
}

type GeneratorConfig struct {
	Mode string `mapstructure:"mode" envconfig:"mode"`
	Seed uint64 `mapstructure:"seed" envconfig:"seed"`
}

type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled" envconfig:"enabled"`
	Path      string `mapstructure:"path" envconfig:"path"`
	Namespace string `mapstructure:"namespace" envconfig:"namespace"`
}

type SeedConfig struct {
	Enabled bool `mapstructure:"enabled" envconfig:"enabled"`
}

func setDefaults(v *viper.Viper) {
	defaults := map[string]interface{}{
		"server::port":                 8080,
		"server::read_timeout":         "15s",
		"server::write_timeout":        "30s",
		"server::shutdown_timeout":     "10s",
		"server::request_timeout":      "10s",
		"server::max_body_bytes":       middleware.DefaultMaxBodyBytes,
		"jwt::issuer":                  "endoscopy-scheduler",
		"jwt::expiry":                  "12h",
		"security::bcrypt_cost":        bcrypt.DefaultCost,
		"security::max_login_attempts": 5,
		"security::lockout_window":     "15m",
		"security::hsts":               false,
		"session::store":               "memory",
		"session::key_prefix":          "scheduler:",
		"session::pool_size":           10,
		"session::breaker_failures":    5,
		"session::breaker_timeout":     "30s",
		"rate_limit::enabled":          true,
		"rate_limit::rps":              20.0,
		"rate_limit::burst":            40,
		"cors::allowed_origins":        []string{"*"},
		"cors::allow_credentials":      false,
		"log::level":                   "info",
		"log::format":                  "json",
		"generator::mode":              assignment.ModeRandom,
		"generator::seed":              0,
		"metrics::enabled":             true,
		"metrics::path":                "/metrics",
		"metrics::namespace":           "scheduler",
		"seed::enabled":                true,
	}
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
}

// LoadConfig resolves configuration from defaults, then the YAML file at
// path (or config.yml in ., ./config, /app/config when path is empty), then
// SCHEDULER_* environment variables.
func LoadConfig(path string) (*Config, error) {
	v := viper.NewWithOptions(viper.KeyDelimiter(keyDelimiter))
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/app/config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the server cannot run with.
func (c *Config) Validate() error {
	var problems []string

	if len(c.JWT.Secret) < auth.MinSecretLen {
		problems = append(problems, fmt.Sprintf("jwt.secret must be at least %d bytes", auth.MinSecretLen))
	}
	if c.JWT.Expiry <= 0 {
		problems = append(problems, "jwt.expiry must be positive")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		problems = append(problems, "server.port must be between 1 and 65535")
	}
	if c.Security.BcryptCost < bcrypt.MinCost || c.Security.BcryptCost > bcrypt.MaxCost {
		problems = append(problems, fmt.Sprintf("security.bcrypt_cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost))
	}
	switch c.Session.Store {
	case "memory":
	case "redis":
		if c.Session.RedisURL == "" {
			problems = append(problems, "session.redis_url is required when session.store is redis")
		}
	default:
		problems = append(problems, fmt.Sprintf("session.store %q must be memory or redis", c.Session.Store))
	}
	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0) {
		problems = append(problems, "rate_limit.rps and rate_limit.burst must be positive when enabled")
	}
	if c.Log.Format != "json" && c.Log.Format != "console" {
		problems = append(problems, fmt.Sprintf("log.format %q must be json or console", c.Log.Format))
	}
	if _, err := assignment.New(c.Generator.Mode, c.Generator.Seed); err != nil {
		problems = append(problems, err.Error())
	}
	if _, err := c.Policies(); err != nil {
		problems = append(problems, err.Error())
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Policies is the authorization table with configured overrides applied.
func (c *Config) Policies() (middleware.Policies, error) {
	return middleware.ParsePolicies(c.Authorization)
}
