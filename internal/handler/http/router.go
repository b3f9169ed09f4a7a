package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/storefront/internal/config"
	"github.com/utafrali/storefront/internal/ui"
	"github.com/utafrali/storefront/pkg/health"
	"github.com/utafrali/storefront/pkg/middleware"
)

// ServiceName labels traces and logs emitted by the storefront.
const ServiceName = "storefront"

const sessionMaxAge = 30 * 24 * time.Hour

// NewRouter creates a chi router with the global middleware, health and
// metrics endpoints, the storefront pages and the read-only JSON API. done
// stops the rate limiter's background cleanup.
func NewRouter(
	cfg *config.Config,
	storefront *StorefrontHandler,
	healthHandler *health.Handler,
	logger *slog.Logger,
	done <-chan struct{},
) http.Handler {
	r := chi.NewRouter()

	// Global middleware stack (applied in order).
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(cfg.RequestTimeout))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics())
	r.Use(middleware.Tracing(ServiceName))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())
	if cfg.PprofEnabled {
		middleware.RegisterPprof(r, cfg.PprofAllowedCIDRs, logger)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Session(middleware.SessionConfig{
			MaxAge: sessionMaxAge,
			Secure: cfg.SecureCookies || cfg.IsProduction(),
		}))
		r.Use(middleware.RequestLogger(logger))
		r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, logger, done))

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, ui.RouteProducts, http.StatusFound)
		})

		r.Route(ui.RouteProducts, func(r chi.Router) {
			r.Get("/", storefront.ListProducts)
			r.Post("/", storefront.CreateProduct)
			r.Get(productsSubroute(ui.RouteNewProduct), storefront.NewProductForm)
			r.Get(productsSubroute(ui.EditProductPattern()), storefront.EditProductForm)
			r.Post("/{id}", storefront.UpdateProduct)
			r.Post("/{id}/delete", storefront.DeleteProduct)
			r.Post("/{id}/edit-request", storefront.RequestEdit)
			r.Post("/{id}/cart", storefront.AddToCart)
		})

		r.Route(ui.RouteCart, func(r chi.Router) {
			r.Get("/", storefront.ShowCart)
			r.Post("/items/{id}/quantity", storefront.UpdateQuantity)
			r.Post("/items/{id}/delete", storefront.RemoveCartItem)
			r.Post("/clear", storefront.ClearCart)
		})

		r.Route("/api", func(r chi.Router) {
			r.Get("/products", storefront.APIListProducts)
			r.Get("/cart", storefront.APIShowCart)
		})
	})

	return r
}

// productsSubroute strips the products prefix so a ui route can be mounted
// inside the products sub-router.
func productsSubroute(route string) string {
	return strings.TrimPrefix(route, ui.RouteProducts)
}
