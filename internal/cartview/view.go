// Package cartview drives the cart page.
package cartview

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/gateway"
	"github.com/utafrali/storefront/internal/ui"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/logger"
)

const (
	msgQuantityFailed = "Error updating quantity: "
	msgRemoveFailed   = "Error removing item: "
	msgClearFailed    = "Error clearing cart: "
)

// View holds the visitor's cart items as last seen from the cart service.
type View struct {
	cart     gateway.CartGateway
	notifier ui.Notifier
	logger   *slog.Logger
	items    []domain.CartItem
}

func New(cart gateway.CartGateway, notifier ui.Notifier, logger *slog.Logger) *View {
	return &View{cart: cart, notifier: notifier, logger: logger}
}

// LoadAll replaces the local items with the cart service's contents. On
// failure the list is left empty.
func (v *View) LoadAll(ctx context.Context) error {
	items, err := v.cart.GetAll(ctx)
	if err != nil {
		v.items = nil
		v.log(ctx).ErrorContext(ctx, "failed to load cart", slog.String("error", err.Error()))
		return fmt.Errorf("load cart: %w", err)
	}
	v.items = items
	return nil
}

// UpdateQuantity stores item's quantity, raised to at least 1, and then
// reloads the whole cart.
func (v *View) UpdateQuantity(ctx context.Context, item domain.CartItem) error {
	if !item.HasID() {
		err := apperrors.InvalidInput("cart item has no id")
		v.notifier.Alert(ctx, ui.LevelError, msgQuantityFailed+apperrors.UserMessage(err))
		return err
	}

	qty := domain.ClampQuantity(item.Quantity)
	if _, err := v.cart.UpdateQuantity(ctx, *item.ID, item.ProductID, qty); err != nil {
		v.notifier.Alert(ctx, ui.LevelError, msgQuantityFailed+apperrors.UserMessage(err))
		return fmt.Errorf("update quantity of cart item %d: %w", *item.ID, err)
	}

	if err := v.LoadAll(ctx); err != nil {
		v.notifier.Alert(ctx, ui.LevelError, msgQuantityFailed+apperrors.UserMessage(err))
		return err
	}
	return nil
}

// RemoveItem deletes id remotely and drops it locally once confirmed.
func (v *View) RemoveItem(ctx context.Context, id int) error {
	if err := v.cart.RemoveFromCart(ctx, id); err != nil {
		v.notifier.Alert(ctx, ui.LevelError, msgRemoveFailed+apperrors.UserMessage(err))
		return fmt.Errorf("remove cart item %d: %w", id, err)
	}

	kept := v.items[:0:0]
	for _, it := range v.items {
		if it.ID == nil || *it.ID != id {
			kept = append(kept, it)
		}
	}
	v.items = kept
	return nil
}

// Clear empties the cart. The local list is only reset after the cart
// service confirms.
func (v *View) Clear(ctx context.Context) error {
	if err := v.cart.ClearCart(ctx); err != nil {
		v.notifier.Alert(ctx, ui.LevelError, msgClearFailed+apperrors.UserMessage(err))
		return fmt.Errorf("clear cart: %w", err)
	}
	v.items = nil
	return nil
}

// Total is the sum of price times quantity, unrounded.
func (v *View) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range v.items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// Items returns a copy of the current items.
func (v *View) Items() []domain.CartItem {
	out := make([]domain.CartItem, len(v.items))
	copy(out, v.items)
	return out
}

// Find returns the item with cart id.
func (v *View) Find(id int) (domain.CartItem, bool) {
	for _, it := range v.items {
		if it.ID != nil && *it.ID == id {
			return it, true
		}
	}
	return domain.CartItem{}, false
}

// Count is the number of units in the cart.
func (v *View) Count() int {
	n := 0
	for _, it := range v.items {
		n += it.Quantity
	}
	return n
}

func (v *View) log(ctx context.Context) *slog.Logger {
	if l := logger.FromContext(ctx); l != slog.Default() {
		return l
	}
	return v.logger
}
