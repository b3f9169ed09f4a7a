package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/utafrali/storefront/internal/catalog"
	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/productform"
	"github.com/utafrali/storefront/internal/ui"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/httputil"
	"github.com/utafrali/storefront/pkg/validator"
)

// ListProducts handles GET /products. A failed fetch renders an empty list.
func (h *StorefrontHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	term, category := filterFrom(r)

	list := h.productList()
	_ = list.LoadAll(ctx)
	list.Search(term)
	list.SelectCategory(category)

	h.renderList(w, r, http.StatusOK, list, h.pending(ctx))
}

// DeleteProduct handles POST /products/{id}/delete. The list is rendered
// in place with the deleted product removed.
func (h *StorefrontHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.IntParam(r, "id")
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	ctx := r.Context()
	term, category := filterFrom(r)

	list := h.productList()
	_ = list.LoadAll(ctx)
	list.Search(term)
	list.SelectCategory(category)

	rec := &ui.Recorder{}
	p, ok := list.Find(id)
	if !ok {
		// Not in the current list; the card still needs a name for its alert.
		if p, err = h.products.GetByID(ctx, id); err != nil {
			rec.Alert(ctx, ui.LevelError, "Error deleting product: "+apperrors.UserMessage(err))
			h.renderList(w, r, http.StatusOK, list, h.pending(ctx, rec.Messages()...))
			return
		}
	}

	card := h.card(p, rec)
	card.OnDeleted = list.RemoveLocally
	_ = card.Delete(ctx)

	h.renderList(w, r, http.StatusOK, list, h.pending(ctx, rec.Messages()...))
}

// RequestEdit handles POST /products/{id}/edit-request, the card's Edit button.
func (h *StorefrontHandler) RequestEdit(w http.ResponseWriter, r *http.Request) {
	h.withCard(w, r, func(rec *ui.Recorder, p domain.Product) {
		h.card(p, rec).Edit(r.Context())
	})
}

// AddToCart handles POST /products/{id}/cart.
func (h *StorefrontHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	h.withCard(w, r, func(rec *ui.Recorder, p domain.Product) {
		_ = h.card(p, rec).AddToCart(r.Context())
	})
}

// withCard fetches the product behind a card action, runs action and sends
// the visitor back to the filtered list.
func (h *StorefrontHandler) withCard(w http.ResponseWriter, r *http.Request, action func(*ui.Recorder, domain.Product)) {
	id, err := httputil.IntParam(r, "id")
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	ctx := r.Context()
	rec := &ui.Recorder{}

	p, err := h.products.GetByID(ctx, id)
	if err != nil {
		h.log(ctx).WarnContext(ctx, "card action on unavailable product",
			slog.Int("product_id", id),
			slog.String("error", err.Error()),
		)
		rec.Alert(ctx, ui.LevelError, apperrors.UserMessage(err))
	} else {
		action(rec, p)
	}

	h.redirect(w, r, rec, listURL(filterFrom(r)))
}

// NewProductForm handles GET /products/new.
func (h *StorefrontHandler) NewProductForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	form := h.productForm(domain.NewProductID, &ui.Recorder{})
	_ = form.LoadForEdit(ctx, domain.NewProductID)
	h.renderForm(w, r, http.StatusOK, form, h.pending(ctx))
}

// EditProductForm handles GET /products/{id}/edit. A failed fetch leaves the
// fields blank.
func (h *StorefrontHandler) EditProductForm(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.IntParam(r, "id")
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	ctx := r.Context()
	form := h.productForm(id, &ui.Recorder{})
	_ = form.LoadForEdit(ctx, id)
	h.renderForm(w, r, http.StatusOK, form, h.pending(ctx))
}

// CreateProduct handles POST /products.
func (h *StorefrontHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	h.submitForm(w, r, domain.NewProductID)
}

// UpdateProduct handles POST /products/{id}.
func (h *StorefrontHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.IntParam(r, "id")
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	h.submitForm(w, r, id)
}

func (h *StorefrontHandler) submitForm(w http.ResponseWriter, r *http.Request, id int) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, apperrors.InvalidInput("malformed form body"))
		return
	}

	rec := &ui.Recorder{}
	form := h.productForm(id, rec)
	form.Bind(r.PostForm)

	err := form.Submit(ctx)
	var verr *validator.ValidationError
	switch {
	case err == nil:
		h.redirect(w, r, rec, ui.RouteProducts)
	case errors.As(err, &verr):
		h.renderForm(w, r, http.StatusUnprocessableEntity, form, h.pending(ctx))
	default:
		h.renderForm(w, r, apperrors.HTTPStatus(err), form, h.pending(ctx, rec.Messages()...))
	}
}

func (h *StorefrontHandler) renderList(w http.ResponseWriter, r *http.Request, status int, list *catalog.ProductList, flash []ui.Message) {
	h.render(w, r, status, pageProducts, productsPage{
		page:       page{Title: "Products", Flash: flash},
		Term:       list.SearchTerm(),
		Category:   list.SelectedCategory(),
		Categories: list.Categories(),
		Products:   list.Filtered(),
	})
}

func (h *StorefrontHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, form *productform.Form, flash []ui.Message) {
	title, action := "Add product", ui.RouteProducts
	if !form.IsNew() {
		title, action = "Edit product", ui.RouteProducts+"/"+strconv.Itoa(form.ID())
	}

	values := make(map[string]string)
	for _, f := range []string{
		productform.FieldName,
		productform.FieldDescription,
		productform.FieldPrice,
		productform.FieldImage,
		productform.FieldCategory,
		productform.FieldStock,
		productform.FieldRating,
	} {
		values[f] = form.Value(f)
	}

	h.render(w, r, status, pageForm, formPage{
		page:       page{Title: title, Flash: flash},
		Action:     action,
		IsNew:      form.IsNew(),
		Categories: domain.Categories()[1:],
		Values:     values,
		Errors:     form.Errors(),
	})
}

func (h *StorefrontHandler) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	ctx := r.Context()
	if err := h.renderer.Render(w, status, name, data); err != nil {
		h.log(ctx).ErrorContext(ctx, "failed to render page",
			slog.String("page", name),
			slog.String("error", err.Error()),
		)
		http.Error(w, "Something went wrong. Please try again.", http.StatusInternalServerError)
	}
}

// renderError shows err on the error page with its mapped status.
func (h *StorefrontHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatus(err)
	h.render(w, r, status, pageError, errorPage{
		page:    page{Title: http.StatusText(status)},
		Status:  status,
		Message: apperrors.UserMessage(err),
	})
}
