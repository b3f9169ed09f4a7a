// Package productcard implements the actions offered on one product tile.
package productcard

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/event"
	"github.com/utafrali/storefront/internal/gateway"
	"github.com/utafrali/storefront/internal/ui"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/logger"
)

// Deps are the collaborators shared by every card rendered for a request.
type Deps struct {
	Products  gateway.ProductGateway
	Cart      gateway.CartGateway
	Notifier  ui.Notifier
	Publisher event.Publisher
	Logger    *slog.Logger
}

// Card presents one product. OnDeleted, when set, is called with the product
// id after a successful delete so the parent list can drop it.
type Card struct {
	product   domain.Product
	deps      Deps
	OnDeleted func(id int)
}

func New(p domain.Product, deps Deps) *Card {
	if deps.Publisher == nil {
		deps.Publisher = event.Noop{}
	}
	return &Card{product: p, deps: deps}
}

func (c *Card) Product() domain.Product { return c.product }

// AddToCart puts one unit of the product in the cart and waits for the cart
// service to confirm.
func (c *Card) AddToCart(ctx context.Context) error {
	created, err := c.deps.Cart.AddToCart(ctx, domain.NewCartItem(c.product))
	if err != nil {
		c.deps.Notifier.Alert(ctx, ui.LevelError, "Error adding to cart: "+apperrors.UserMessage(err))
		return fmt.Errorf("add product %d to cart: %w", c.product.ID, err)
	}

	c.deps.Notifier.Alert(ctx, ui.LevelInfo, fmt.Sprintf(`"%s" added to cart.`, c.product.Name))
	if err := c.deps.Publisher.PublishCartItemAdded(ctx, created); err != nil {
		c.log(ctx).WarnContext(ctx, "failed to publish cart event", slog.String("error", err.Error()))
	}
	return nil
}

// Delete removes the product remotely. On success the visitor is told and
// OnDeleted fires; on failure the list is left alone.
func (c *Card) Delete(ctx context.Context) error {
	id := c.product.ID
	if err := c.deps.Products.DeleteProduct(ctx, id); err != nil {
		c.deps.Notifier.Alert(ctx, ui.LevelError, "Error deleting product: "+apperrors.UserMessage(err))
		return fmt.Errorf("delete product %d: %w", id, err)
	}

	c.deps.Notifier.Alert(ctx, ui.LevelInfo, fmt.Sprintf(`Product "%s" deleted successfully!`, c.product.Name))
	if err := c.deps.Publisher.PublishProductDeleted(ctx, id); err != nil {
		c.log(ctx).WarnContext(ctx, "failed to publish product event", slog.String("error", err.Error()))
	}
	if c.OnDeleted != nil {
		c.OnDeleted(id)
	}
	return nil
}

// Edit only acknowledges the click; editing happens on the form page.
func (c *Card) Edit(ctx context.Context) {
	c.deps.Notifier.Alert(ctx, ui.LevelInfo, fmt.Sprintf(`Edit "%s" button clicked!`, c.product.Name))
}

func (c *Card) log(ctx context.Context) *slog.Logger {
	if l := logger.FromContext(ctx); l != slog.Default() {
		return l
	}
	if c.deps.Logger != nil {
		return c.deps.Logger
	}
	return slog.Default()
}
