package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/utafrali/storefront/internal/domain"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/httpclient"
	"github.com/utafrali/storefront/pkg/tracing"
	"github.com/utafrali/storefront/pkg/validator"
)

// DefaultClearConcurrency bounds the deletes issued by ClearCart.
const DefaultClearConcurrency = 4

// CartClient implements CartGateway over the cart service's REST API.
type CartClient struct {
	base
	clearConcurrency int
}

var _ CartGateway = (*CartClient)(nil)

func NewCartClient(d httpclient.Doer, baseURL string, clearConcurrency int, logger *slog.Logger) *CartClient {
	if clearConcurrency <= 0 {
		clearConcurrency = DefaultClearConcurrency
	}
	return &CartClient{
		base:             newBase(d, baseURL, CartServiceName, logger),
		clearConcurrency: clearConcurrency,
	}
}

// GetAll lists the cart. Records that fail validation are skipped.
func (c *CartClient) GetAll(ctx context.Context) (_ []domain.CartItem, err error) {
	ctx, span := tracing.Start(ctx, "CartGateway.GetAll")
	defer func() { tracing.End(span, err) }()

	raw, err := c.list(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]domain.CartItem, 0, len(raw))
	for _, it := range raw {
		if verr := validator.Validate(it); verr != nil {
			c.log(ctx).WarnContext(ctx, "dropping invalid cart record",
				slog.Int("product_id", it.ProductID),
				slog.String("error", verr.Error()),
			)
			continue
		}
		items = append(items, it)
	}
	span.SetAttributes(attribute.Int("cart.items", len(items)))
	return items, nil
}

// list fetches the cart records as stored, without validation.
func (c *CartClient) list(ctx context.Context) ([]domain.CartItem, error) {
	var raw []domain.CartItem
	if err := c.do(ctx, http.MethodGet, "/cart", nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *CartClient) AddToCart(ctx context.Context, item domain.CartItem) (_ domain.CartItem, err error) {
	ctx, span := tracing.Start(ctx, "CartGateway.AddToCart",
		trace.WithAttributes(attribute.Int("product.id", item.ProductID)))
	defer func() { tracing.End(span, err) }()

	item.ID = nil
	var created domain.CartItem
	if err := c.do(ctx, http.MethodPost, "/cart", item, &created); err != nil {
		return domain.CartItem{}, err
	}
	return created, nil
}

func (c *CartClient) UpdateQuantity(ctx context.Context, id, productID, quantity int) (_ domain.CartItem, err error) {
	ctx, span := tracing.Start(ctx, "CartGateway.UpdateQuantity", withCartItemID(id))
	defer func() { tracing.End(span, err) }()

	var updated domain.CartItem
	body := domain.QuantityUpdate{ProductID: productID, Quantity: quantity}
	if err := c.do(ctx, http.MethodPatch, cartPath(id), body, &updated); err != nil {
		return domain.CartItem{}, err
	}
	return updated, nil
}

func (c *CartClient) RemoveFromCart(ctx context.Context, id int) (err error) {
	ctx, span := tracing.Start(ctx, "CartGateway.RemoveFromCart", withCartItemID(id))
	defer func() { tracing.End(span, err) }()

	return c.do(ctx, http.MethodDelete, cartPath(id), nil, nil)
}

// ClearCart empties the cart. The cart service has no bulk delete, so the
// current records are listed and deleted concurrently, including records the
// storefront would not display. Items that are already gone count as deleted.
// The first other failure cancels the rest.
func (c *CartClient) ClearCart(ctx context.Context) (err error) {
	ctx, span := tracing.Start(ctx, "CartGateway.ClearCart")
	defer func() { tracing.End(span, err) }()

	items, err := c.list(ctx)
	if err != nil {
		return fmt.Errorf("list cart before clearing: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.clearConcurrency)
	for _, it := range items {
		if !it.HasID() {
			continue
		}
		id := *it.ID
		g.Go(func() error {
			if err := c.RemoveFromCart(gctx, id); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("remove cart item %d: %w", id, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	span.SetAttributes(attribute.Int("cart.items_removed", len(items)))
	c.log(ctx).InfoContext(ctx, "cart cleared", slog.Int("items", len(items)))
	return nil
}

func cartPath(id int) string {
	return fmt.Sprintf("/cart/%d", id)
}

func withCartItemID(id int) trace.SpanStartOption {
	return trace.WithAttributes(attribute.Int("cart.item_id", id))
}
