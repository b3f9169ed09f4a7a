package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/utafrali/storefront/internal/cartview"
	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/ui"
	"github.com/utafrali/storefront/pkg/httputil"
	"github.com/utafrali/storefront/pkg/logger"
)

// ShowCart handles GET /cart. A failed fetch renders an empty cart.
func (h *StorefrontHandler) ShowCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	view := h.cartView(&ui.Recorder{})
	_ = view.LoadAll(ctx)
	h.renderCart(w, r, view, h.pending(ctx))
}

// UpdateQuantity handles POST /cart/items/{id}/quantity.
func (h *StorefrontHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.IntParam(r, "id")
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	ctx := r.Context()
	rec := &ui.Recorder{}

	productID, perr := strconv.Atoi(strings.TrimSpace(r.FormValue("product_id")))
	qty, qerr := strconv.Atoi(strings.TrimSpace(r.FormValue("quantity")))
	switch {
	case perr != nil || productID <= 0:
		rec.Alert(ctx, ui.LevelError, "Error updating quantity: invalid product id")
	case qerr != nil:
		rec.Alert(ctx, ui.LevelError, "Error updating quantity: quantity must be a whole number")
	default:
		item := domain.CartItem{ID: &id, ProductID: productID, Quantity: qty}
		_ = h.cartView(rec).UpdateQuantity(ctx, item)
	}

	h.redirect(w, r, rec, ui.RouteCart)
}

// RemoveCartItem handles POST /cart/items/{id}/delete.
func (h *StorefrontHandler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.IntParam(r, "id")
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	rec := &ui.Recorder{}
	_ = h.cartView(rec).RemoveItem(r.Context(), id)
	h.redirect(w, r, rec, ui.RouteCart)
}

// ClearCart handles POST /cart/clear.
func (h *StorefrontHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rec := &ui.Recorder{}

	if err := h.cartView(rec).Clear(ctx); err == nil {
		session := logger.SessionIDFromContext(ctx)
		if perr := h.publisher.PublishCartCleared(ctx, session); perr != nil {
			h.log(ctx).WarnContext(ctx, "failed to publish cart cleared event", slog.String("error", perr.Error()))
		}
	}

	h.redirect(w, r, rec, ui.RouteCart)
}

func (h *StorefrontHandler) renderCart(w http.ResponseWriter, r *http.Request, view *cartview.View, flash []ui.Message) {
	h.render(w, r, http.StatusOK, pageCart, cartPage{
		page:  page{Title: "Cart", Flash: flash},
		Items: view.Items(),
		Total: view.Total(),
		Count: view.Count(),
	})
}
