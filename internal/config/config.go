package config

import (
	"fmt"
	"net"
	"net/url"
	"time"

	pkgconfig "github.com/utafrali/storefront/pkg/config"
)

// Flash backends.
const (
	FlashMemory = "memory"
	FlashRedis  = "redis"
)

// Config holds all configuration for the storefront.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort        int           `env:"STOREFRONT_HTTP_PORT" envDefault:"8080"`
	RequestTimeout  time.Duration `env:"STOREFRONT_REQUEST_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"STOREFRONT_SHUTDOWN_TIMEOUT" envDefault:"15s"`
	SecureCookies   bool          `env:"STOREFRONT_SECURE_COOKIES" envDefault:"false"`

	// Remote services
	ProductServiceURL string `env:"PRODUCT_SERVICE_URL" envDefault:"http://localhost:3000"`
	CartServiceURL    string `env:"CART_SERVICE_URL" envDefault:"http://localhost:3000"`

	// HTTP client
	HTTPClientTimeout    time.Duration `env:"HTTP_CLIENT_TIMEOUT" envDefault:"10s"`
	HTTPClientMaxRetries int           `env:"HTTP_CLIENT_MAX_RETRIES" envDefault:"2"`

	// Circuit breaker
	CBFailureRatio float64       `env:"CB_FAILURE_RATIO" envDefault:"0.5"`
	CBMinRequests  uint32        `env:"CB_MIN_REQUESTS" envDefault:"5"`
	CBOpenTimeout  time.Duration `env:"CB_OPEN_TIMEOUT" envDefault:"30s"`

	CartClearConcurrency int `env:"CART_CLEAR_CONCURRENCY" envDefault:"4"`

	// Flash messages
	FlashBackend string        `env:"FLASH_BACKEND" envDefault:"memory"`
	FlashTTL     time.Duration `env:"FLASH_TTL" envDefault:"5m"`

	// Redis
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Kafka
	KafkaEnabled bool     `env:"KAFKA_ENABLED" envDefault:"false"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Rate limiting
	RateLimitRPS   int `env:"RATE_LIMIT_RPS" envDefault:"50"`
	RateLimitBurst int `env:"RATE_LIMIT_BURST" envDefault:"100"`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`

	// Profiling
	PprofEnabled      bool     `env:"PPROF_ENABLED" envDefault:"false"`
	PprofAllowedCIDRs []string `env:"PPROF_ALLOWED_CIDRS" envDefault:"127.0.0.0/8,::1/128" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("STOREFRONT_REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout)
	}
	if err := validateServiceURL("PRODUCT_SERVICE_URL", c.ProductServiceURL); err != nil {
		return err
	}
	if err := validateServiceURL("CART_SERVICE_URL", c.CartServiceURL); err != nil {
		return err
	}
	if c.HTTPClientMaxRetries < 0 {
		return fmt.Errorf("HTTP_CLIENT_MAX_RETRIES must not be negative, got %d", c.HTTPClientMaxRetries)
	}
	if c.CBFailureRatio <= 0 || c.CBFailureRatio > 1.0 {
		return fmt.Errorf("CB_FAILURE_RATIO must be in (0, 1], got %f", c.CBFailureRatio)
	}
	if c.CartClearConcurrency < 1 {
		return fmt.Errorf("CART_CLEAR_CONCURRENCY must be positive, got %d", c.CartClearConcurrency)
	}
	switch c.FlashBackend {
	case FlashMemory:
	case FlashRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required when FLASH_BACKEND=redis")
		}
	default:
		return fmt.Errorf("FLASH_BACKEND must be %q or %q, got %q", FlashMemory, FlashRedis, c.FlashBackend)
	}
	if c.KafkaEnabled && len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required when KAFKA_ENABLED=true")
	}
	if c.RateLimitRPS < 1 || c.RateLimitBurst < 1 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1.0 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %f", c.OTELSampleRate)
	}
	if c.PprofEnabled {
		for _, cidr := range c.PprofAllowedCIDRs {
			if _, _, err := net.ParseCIDR(cidr); err != nil {
				return fmt.Errorf("PPROF_ALLOWED_CIDRS entry %q is invalid: %w", cidr, err)
			}
		}
	}
	return nil
}

func validateServiceURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", name, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s must be an absolute http(s) URL, got %q", name, raw)
	}
	return nil
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
