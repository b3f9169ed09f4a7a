package http

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/ui"
	"github.com/utafrali/storefront/pkg/httputil"
)

// CartSummary is the JSON shape of GET /api/cart.
type CartSummary struct {
	Items []domain.CartItem `json:"items"`
	Total decimal.Decimal   `json:"total"`
	Count int               `json:"count"`
}

// APIListProducts handles GET /api/products?q=&category=. Unlike the page,
// a failed fetch is reported as an error.
func (h *StorefrontHandler) APIListProducts(w http.ResponseWriter, r *http.Request) {
	list := h.productList()
	if err := list.LoadAll(r.Context()); err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	term, category := filterFrom(r)
	list.Search(term)
	list.SelectCategory(category)

	products := list.Filtered()
	if products == nil {
		products = []domain.Product{}
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: products})
}

// APIShowCart handles GET /api/cart.
func (h *StorefrontHandler) APIShowCart(w http.ResponseWriter, r *http.Request) {
	view := h.cartView(&ui.Recorder{})
	if err := view.LoadAll(r.Context()); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	items := view.Items()
	if items == nil {
		items = []domain.CartItem{}
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: CartSummary{
		Items: items,
		Total: view.Total(),
		Count: view.Count(),
	}})
}
