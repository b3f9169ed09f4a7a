package http

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/utafrali/storefront/internal/cartview"
	"github.com/utafrali/storefront/internal/catalog"
	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/event"
	"github.com/utafrali/storefront/internal/flash"
	"github.com/utafrali/storefront/internal/gateway"
	"github.com/utafrali/storefront/internal/productcard"
	"github.com/utafrali/storefront/internal/productform"
	"github.com/utafrali/storefront/internal/ui"
	"github.com/utafrali/storefront/pkg/logger"
)

// StorefrontHandler serves the storefront pages. It holds only shared,
// stateless collaborators; controllers are built per request.
type StorefrontHandler struct {
	products  gateway.ProductGateway
	cart      gateway.CartGateway
	flash     flash.Store
	publisher event.Publisher
	renderer  *Renderer
	logger    *slog.Logger
}

func NewStorefrontHandler(
	products gateway.ProductGateway,
	cart gateway.CartGateway,
	flashStore flash.Store,
	publisher event.Publisher,
	renderer *Renderer,
	logger *slog.Logger,
) *StorefrontHandler {
	if publisher == nil {
		publisher = event.Noop{}
	}
	return &StorefrontHandler{
		products:  products,
		cart:      cart,
		flash:     flashStore,
		publisher: publisher,
		renderer:  renderer,
		logger:    logger,
	}
}

func (h *StorefrontHandler) productList() *catalog.ProductList {
	return catalog.NewProductList(h.products, h.logger)
}

func (h *StorefrontHandler) productForm(id int, rec *ui.Recorder) *productform.Form {
	return productform.New(id, h.products, rec, rec, h.logger)
}

func (h *StorefrontHandler) cartView(rec *ui.Recorder) *cartview.View {
	return cartview.New(h.cart, rec, h.logger)
}

func (h *StorefrontHandler) card(p domain.Product, rec *ui.Recorder) *productcard.Card {
	return productcard.New(p, productcard.Deps{
		Products:  h.products,
		Cart:      h.cart,
		Notifier:  rec,
		Publisher: h.publisher,
		Logger:    h.logger,
	})
}

func (h *StorefrontHandler) log(ctx context.Context) *slog.Logger {
	if l := logger.FromContext(ctx); l != slog.Default() {
		return l
	}
	return h.logger
}

// redirect stores the recorded alerts for the next page and answers 303.
func (h *StorefrontHandler) redirect(w http.ResponseWriter, r *http.Request, rec *ui.Recorder, fallback string) {
	h.keep(r.Context(), rec.Messages())
	target := rec.Target()
	if target == "" {
		target = fallback
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *StorefrontHandler) keep(ctx context.Context, msgs []ui.Message) {
	session := logger.SessionIDFromContext(ctx)
	if session == "" || len(msgs) == 0 {
		return
	}
	for _, m := range msgs {
		if err := h.flash.Push(ctx, session, m); err != nil {
			h.log(ctx).WarnContext(ctx, "failed to store flash message", slog.String("error", err.Error()))
			return
		}
	}
}

// pending pops the alerts stored for this visitor and appends extra.
func (h *StorefrontHandler) pending(ctx context.Context, extra ...ui.Message) []ui.Message {
	var msgs []ui.Message
	if session := logger.SessionIDFromContext(ctx); session != "" {
		stored, err := h.flash.Pop(ctx, session)
		if err != nil {
			h.log(ctx).WarnContext(ctx, "failed to read flash messages", slog.String("error", err.Error()))
		}
		msgs = append(msgs, stored...)
	}
	return append(msgs, extra...)
}

// listURL is the product list address with the given filter applied.
func listURL(term, category string) string {
	q := url.Values{}
	if term != "" {
		q.Set("q", term)
	}
	if category != "" && category != domain.CategoryAll {
		q.Set("category", category)
	}
	if len(q) == 0 {
		return ui.RouteProducts
	}
	return ui.RouteProducts + "?" + q.Encode()
}

// filterFrom reads the list filter carried by a query string or posted form.
func filterFrom(r *http.Request) (term, category string) {
	term = r.FormValue("q")
	category = r.FormValue("category")
	if category == "" {
		category = domain.CategoryAll
	}
	return term, category
}
