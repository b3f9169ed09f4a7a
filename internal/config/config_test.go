package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "http://localhost:3000", cfg.ProductServiceURL)
	assert.Equal(t, "http://localhost:3000", cfg.CartServiceURL)
	assert.Equal(t, 10*time.Second, cfg.HTTPClientTimeout)
	assert.Equal(t, 2, cfg.HTTPClientMaxRetries)
	assert.Equal(t, 0.5, cfg.CBFailureRatio)
	assert.Equal(t, uint32(5), cfg.CBMinRequests)
	assert.Equal(t, 30*time.Second, cfg.CBOpenTimeout)
	assert.Equal(t, 4, cfg.CartClearConcurrency)
	assert.Equal(t, FlashMemory, cfg.FlashBackend)
	assert.Equal(t, 5*time.Minute, cfg.FlashTTL)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 50, cfg.RateLimitRPS)
	assert.Equal(t, 100, cfg.RateLimitBurst)
	assert.False(t, cfg.OTELEnabled)
	assert.False(t, cfg.PprofEnabled)
	assert.Equal(t, []string{"127.0.0.0/8", "::1/128"}, cfg.PprofAllowedCIDRs)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STOREFRONT_HTTP_PORT", "9090")
	t.Setenv("PRODUCT_SERVICE_URL", "https://products.internal")
	t.Setenv("FLASH_BACKEND", "redis")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("ENVIRONMENT", "production")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, "https://products.internal", cfg.ProductServiceURL)
	assert.Equal(t, FlashRedis, cfg.FlashBackend)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"port out of range", map[string]string{"STOREFRONT_HTTP_PORT": "70000"}, "invalid HTTP port"},
		{"port not a number", map[string]string{"STOREFRONT_HTTP_PORT": "http"}, "load storefront config"},
		{"relative product url", map[string]string{"PRODUCT_SERVICE_URL": "/products"}, "PRODUCT_SERVICE_URL must be an absolute"},
		{"ftp cart url", map[string]string{"CART_SERVICE_URL": "ftp://cart"}, "CART_SERVICE_URL must be an absolute"},
		{"negative retries", map[string]string{"HTTP_CLIENT_MAX_RETRIES": "-1"}, "HTTP_CLIENT_MAX_RETRIES"},
		{"zero failure ratio", map[string]string{"CB_FAILURE_RATIO": "0"}, "CB_FAILURE_RATIO"},
		{"zero clear concurrency", map[string]string{"CART_CLEAR_CONCURRENCY": "0"}, "CART_CLEAR_CONCURRENCY"},
		{"unknown flash backend", map[string]string{"FLASH_BACKEND": "memcached"}, "FLASH_BACKEND"},
		{"zero rate", map[string]string{"RATE_LIMIT_RPS": "0"}, "RATE_LIMIT_RPS"},
		{"sample rate above one", map[string]string{"OTEL_SAMPLE_RATE": "1.5"}, "OTEL_SAMPLE_RATE"},
		{"bad pprof cidr", map[string]string{"PPROF_ENABLED": "true", "PPROF_ALLOWED_CIDRS": "10.0.0.0/8,localhost"}, "PPROF_ALLOWED_CIDRS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
