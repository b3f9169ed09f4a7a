// Package gateway talks to the remote product and cart services.
package gateway

import (
	"context"
	"log/slog"
	"strings"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/pkg/httpclient"
	"github.com/utafrali/storefront/pkg/logger"
)

// Service names used in error messages, logs and breaker names.
const (
	ProductServiceName = "product-service"
	CartServiceName    = "cart-service"
)

// ProductGateway is the remote product catalog.
type ProductGateway interface {
	GetAll(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id int) (domain.Product, error)
	AddProduct(ctx context.Context, in domain.ProductInput) (domain.Product, error)
	EditProduct(ctx context.Context, in domain.ProductInput, id int) (domain.Product, error)
	DeleteProduct(ctx context.Context, id int) error
}

// CartGateway is the remote cart.
type CartGateway interface {
	GetAll(ctx context.Context) ([]domain.CartItem, error)
	AddToCart(ctx context.Context, item domain.CartItem) (domain.CartItem, error)
	UpdateQuantity(ctx context.Context, id, productID, quantity int) (domain.CartItem, error)
	RemoveFromCart(ctx context.Context, id int) error
	ClearCart(ctx context.Context) error
}

// base holds what both clients share.
type base struct {
	http    httpclient.Doer
	baseURL string
	service string
	logger  *slog.Logger
}

func newBase(d httpclient.Doer, baseURL, service string, l *slog.Logger) base {
	return base{
		http:    d,
		baseURL: strings.TrimRight(baseURL, "/"),
		service: service,
		logger:  l,
	}
}

// log prefers the request-scoped logger when the request middleware set one.
func (b base) log(ctx context.Context) *slog.Logger {
	if l := logger.FromContext(ctx); l != slog.Default() {
		return l
	}
	return b.logger
}

func (b base) do(ctx context.Context, method, path string, in, out any) error {
	return httpclient.DoJSON(ctx, b.http, b.service, method, b.baseURL+path, in, out)
}
