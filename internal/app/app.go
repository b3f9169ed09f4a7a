package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/utafrali/storefront/internal/config"
	"github.com/utafrali/storefront/internal/event"
	"github.com/utafrali/storefront/internal/flash"
	"github.com/utafrali/storefront/internal/gateway"
	handler "github.com/utafrali/storefront/internal/handler/http"
	"github.com/utafrali/storefront/pkg/database"
	"github.com/utafrali/storefront/pkg/health"
	"github.com/utafrali/storefront/pkg/httpclient"
	pkgkafka "github.com/utafrali/storefront/pkg/kafka"
	"github.com/utafrali/storefront/pkg/tracing"
)

const version = "0.1.0"

// App wires together all dependencies and runs the storefront.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	redis          *redis.Client
	producer       *pkgkafka.Producer
	httpServer     *http.Server
	tracerShutdown tracing.Shutdown
	done           chan struct{}
	stopOnce       sync.Once
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    handler.ServiceName,
		ServiceVersion: version,
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	a := &App{
		cfg:            cfg,
		logger:         logger,
		tracerShutdown: tracerShutdown,
		done:           make(chan struct{}),
	}

	healthHandler := health.NewHandler(5 * time.Second)

	// Flash message store.
	var flashStore flash.Store
	switch cfg.FlashBackend {
	case config.FlashRedis:
		redisCfg := database.DefaultRedisConfig()
		redisCfg.Addr = cfg.RedisAddr
		redisCfg.Password = cfg.RedisPassword
		redisCfg.DB = cfg.RedisDB

		client, err := database.NewRedisClient(ctx, redisCfg)
		if err != nil {
			_ = tracerShutdown(context.Background())
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		a.redis = client
		flashStore = flash.NewRedisStore(client, cfg.FlashTTL)
		healthHandler.RegisterOptional("redis", health.PingChecker(database.RedisPinger{Client: client}))
		logger.Info("connected to Redis", slog.String("addr", cfg.RedisAddr))
	default:
		flashStore = flash.NewMemoryStore(cfg.FlashTTL)
	}
	logger.Info("flash store initialized", slog.String("backend", cfg.FlashBackend))

	// Storefront events.
	var publisher event.Publisher = event.Noop{}
	if cfg.KafkaEnabled {
		a.producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		publisher = event.NewProducer(a.producer, logger)
		healthHandler.RegisterOptional("kafka", health.PingChecker(a.producer))
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}

	// Remote service clients, one circuit breaker per service.
	products := gateway.NewProductClient(
		a.serviceClient("product-service"), cfg.ProductServiceURL, logger)
	cart := gateway.NewCartClient(
		a.serviceClient("cart-service"), cfg.CartServiceURL, cfg.CartClearConcurrency, logger)

	probe := httpclient.New(httpclient.Config{
		Timeout:         2 * time.Second,
		MaxConnsPerHost: 2,
	})
	healthHandler.Register("product-service", health.HTTPChecker(probe, strings.TrimRight(cfg.ProductServiceURL, "/")+"/products"))
	healthHandler.Register("cart-service", health.HTTPChecker(probe, strings.TrimRight(cfg.CartServiceURL, "/")+"/cart"))

	renderer, err := handler.NewRenderer()
	if err != nil {
		_ = a.closeBackends()
		return nil, fmt.Errorf("load templates: %w", err)
	}
	storefront := handler.NewStorefrontHandler(products, cart, flashStore, publisher, renderer, logger)

	// HTTP router.
	router := handler.NewRouter(cfg, storefront, healthHandler, logger, a.done)

	a.httpServer = &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return a, nil
}

func (a *App) serviceClient(name string) httpclient.Doer {
	base := httpclient.New(httpclient.Config{
		Timeout:         a.cfg.HTTPClientTimeout,
		MaxRetries:      a.cfg.HTTPClientMaxRetries,
		RetryWaitMin:    200 * time.Millisecond,
		RetryWaitMax:    2 * time.Second,
		MaxConnsPerHost: 50,
	})

	cbCfg := httpclient.DefaultCircuitBreakerConfig(name)
	cbCfg.FailureRatio = a.cfg.CBFailureRatio
	cbCfg.MinRequests = a.cfg.CBMinRequests
	cbCfg.Timeout = a.cfg.CBOpenTimeout

	a.logger.Info("circuit breaker initialized",
		slog.String("name", cbCfg.Name),
		slog.Float64("failure_ratio", cbCfg.FailureRatio),
		slog.Uint64("min_requests", uint64(cbCfg.MinRequests)),
		slog.Duration("open_timeout", cbCfg.Timeout),
	)
	return httpclient.NewCircuitBreakerClient(base, cbCfg, a.logger)
}

// Handler exposes the root HTTP handler.
func (a *App) Handler() http.Handler {
	return a.httpServer.Handler
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return errors.Join(err, a.Shutdown())
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components in the correct order:
// 1. HTTP server (drain in-flight requests)
// 2. Tracer (flush pending spans from drained requests)
// 3. Kafka producer and Redis client
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	// 1. Drain in-flight HTTP requests.
	httpCtx, httpCancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}
	a.stopOnce.Do(func() { close(a.done) })

	// 2. Flush pending spans after HTTP drain so in-flight request spans are captured.
	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	// 3. Close event producer and flash backend.
	if err := a.closeBackends(); err != nil {
		errs = append(errs, err)
	}

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}

func (a *App) closeBackends() error {
	var errs []error
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
