package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/cassiomorais/connectors/internal/connector"
	"github.com/cassiomorais/connectors/internal/infrastructure/transport"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server        ServerConfig                           `mapstructure:"server"`
	Connectors    map[string]connector.Params            `mapstructure:"connectors"`
	Transport     TransportConfig                        `mapstructure:"transport"`
	Observability ObservabilityConfig                    `mapstructure:"observability"`
	Auth          AuthConfig                             `mapstructure:"auth"`
	RateLimit     RateLimitConfig                        `mapstructure:"rate_limit"`
	Credentials   map[string]map[string]CredentialConfig `mapstructure:"credentials"`
	InstanceID    string                                 `mapstructure:"instance_id"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	CORS            CORSConfig    `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

type RateLimitConfig struct {
	RequestsPerMinute int `mapstructure:"requests_per_minute"`
}

type TransportConfig struct {
	Timeout          time.Duration `mapstructure:"timeout"`
	MaxAttempts      uint          `mapstructure:"max_attempts"`
	RetryDelay       time.Duration `mapstructure:"retry_delay"`
	MaxRetryDelay    time.Duration `mapstructure:"max_retry_delay"`
	MaxResponseBytes int64         `mapstructure:"max_response_bytes"`
	Breaker          BreakerConfig `mapstructure:"breaker"`
}

type BreakerConfig struct {
	MaxRequests  uint32        `mapstructure:"max_requests"`
	Interval     time.Duration `mapstructure:"interval"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MinRequests  uint32        `mapstructure:"min_requests"`
	FailureRatio float64       `mapstructure:"failure_ratio"`
}

type ObservabilityConfig struct {
	LogLevel       string `mapstructure:"log_level"`
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
	EnableMetrics  bool   `mapstructure:"enable_metrics"`
	EnableTracing  bool   `mapstructure:"enable_tracing"`
}

func Load() (*Config, error) {
	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()

	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("CONNECTORS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/connectors")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, fmt.Errorf("server.read_timeout must be positive"))
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, fmt.Errorf("server.write_timeout must be positive"))
	}

	if len(c.Connectors) == 0 {
		errs = append(errs, fmt.Errorf("connectors: at least one connector must be configured"))
	}
	for id, p := range c.Connectors {
		u, err := url.Parse(p.BaseURL)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			errs = append(errs, fmt.Errorf("connectors.%s.base_url must be an absolute http(s) URL, got %q", id, p.BaseURL))
		}
	}

	if c.Transport.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("transport.timeout must be positive"))
	}
	if c.Transport.MaxAttempts == 0 {
		errs = append(errs, fmt.Errorf("transport.max_attempts must be at least 1"))
	}
	if r := c.Transport.Breaker.FailureRatio; r <= 0 || r > 1 {
		errs = append(errs, fmt.Errorf("transport.breaker.failure_ratio must be in (0, 1], got %v", r))
	}

	for merchant, byConnector := range c.Credentials {
		for id, cred := range byConnector {
			if _, err := cred.Auth(); err != nil {
				errs = append(errs, fmt.Errorf("credentials.%s.%s: %w", merchant, id, err))
			}
		}
	}

	env := os.Getenv("ENV")
	if env == "production" || env == "prod" {
		if c.Auth.JWTSecret == "" {
			errs = append(errs, fmt.Errorf("auth.jwt_secret required in production"))
		}
	}

	if c.Auth.JWTSecret != "" && len(c.Auth.JWTSecret) < 32 {
		errs = append(errs, fmt.Errorf("auth.jwt_secret must be at least 32 characters"))
	}

	return errors.Join(errs...)
}

// Settings returns the per-connector parameters the adapters read.
func (c *Config) Settings() connector.Settings {
	return connector.Settings{Connectors: c.Connectors}
}

func (c TransportConfig) ToTransport() transport.Config {
	return transport.Config{
		Timeout:          c.Timeout,
		MaxAttempts:      c.MaxAttempts,
		RetryDelay:       c.RetryDelay,
		MaxRetryDelay:    c.MaxRetryDelay,
		MaxResponseBytes: c.MaxResponseBytes,
		Breaker: transport.BreakerConfig{
			MaxRequests:  c.Breaker.MaxRequests,
			Interval:     c.Breaker.Interval,
			Timeout:      c.Breaker.Timeout,
			MinRequests:  c.Breaker.MinRequests,
			FailureRatio: c.Breaker.FailureRatio,
		},
	}
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "45s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("server.request_timeout", "40s")
	v.SetDefault("server.cors.allowed_origins", []string{"*"})
	v.SetDefault("server.cors.allow_credentials", false)

	// Connector defaults
	v.SetDefault("connectors.stripe.base_url", "https://api.stripe.com/v1")

	// Transport defaults
	d := transport.DefaultConfig()
	v.SetDefault("transport.timeout", d.Timeout)
	v.SetDefault("transport.max_attempts", d.MaxAttempts)
	v.SetDefault("transport.retry_delay", d.RetryDelay)
	v.SetDefault("transport.max_retry_delay", d.MaxRetryDelay)
	v.SetDefault("transport.max_response_bytes", d.MaxResponseBytes)
	v.SetDefault("transport.breaker.max_requests", d.Breaker.MaxRequests)
	v.SetDefault("transport.breaker.interval", d.Breaker.Interval)
	v.SetDefault("transport.breaker.timeout", d.Breaker.Timeout)
	v.SetDefault("transport.breaker.min_requests", d.Breaker.MinRequests)
	v.SetDefault("transport.breaker.failure_ratio", d.Breaker.FailureRatio)

	// Observability defaults
	v.SetDefault("observability.log_level", "info")
	v.SetDefault("observability.jaeger_endpoint", "http://localhost:14268/api/traces")
	v.SetDefault("observability.enable_metrics", true)
	v.SetDefault("observability.enable_tracing", false)

	v.SetDefault("rate_limit.requests_per_minute", 600)

	v.SetDefault("instance_id", "connectors-1")
}
