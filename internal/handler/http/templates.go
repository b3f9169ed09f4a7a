package http

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/ui"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names understood by Renderer.Render.
const (
	pageProducts = "products.html"
	pageForm     = "form.html"
	pageCart     = "cart.html"
	pageError    = "error.html"
)

var templateFuncs = template.FuncMap{
	"money":         func(d decimal.Decimal) string { return d.StringFixed(2) },
	"price":         func(v float64) string { return decimal.NewFromFloat(v).StringFixed(2) },
	"editURL":       ui.EditProductRoute,
	"itemID":        cartItemID,
	"listURL":       listURL,
	"productsURL":   func() string { return ui.RouteProducts },
	"newProductURL": func() string { return ui.RouteNewProduct },
	"cartURL":       func() string { return ui.RouteCart },
}

func cartItemID(it domain.CartItem) int {
	if it.ID == nil {
		return 0
	}
	return *it.ID
}

// Renderer executes the embedded page templates, each inside the shared layout.
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, name := range []string{pageProducts, pageForm, pageCart, pageError} {
		t, err := template.New("layout.html").Funcs(templateFuncs).
			ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render writes page with the given status. The page is executed into a
// buffer first so a template failure never produces a half-written response.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, data any) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// page is the data every template receives through the layout.
type page struct {
	Title string
	Flash []ui.Message
}

type productsPage struct {
	page
	Term       string
	Category   string
	Categories []string
	Products   []domain.Product
}

type formPage struct {
	page
	Action     string
	IsNew      bool
	Categories []string
	Values     map[string]string
	Errors     map[string]string
}

type cartPage struct {
	page
	Items []domain.CartItem
	Total decimal.Decimal
	Count int
}

type errorPage struct {
	page
	Status  int
	Message string
}
