// Package catalog keeps the product list shown on the listing page together
// with its search and category filter.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/gateway"
	"github.com/utafrali/storefront/pkg/logger"
)

// ProductList holds the authoritative product list and the filtered view
// derived from it. The filtered view is always the subset of products that
// matches the current search term and category.
type ProductList struct {
	products gateway.ProductGateway
	logger   *slog.Logger

	all      []domain.Product
	filtered []domain.Product
	term     string
	category string
}

func NewProductList(products gateway.ProductGateway, logger *slog.Logger) *ProductList {
	return &ProductList{
		products: products,
		logger:   logger,
		category: domain.CategoryAll,
	}
}

// LoadAll replaces both lists with the remote catalog and re-applies the
// current filter. On failure both lists are left empty.
func (l *ProductList) LoadAll(ctx context.Context) error {
	products, err := l.products.GetAll(ctx)
	if err != nil {
		l.all, l.filtered = nil, nil
		l.log(ctx).ErrorContext(ctx, "failed to load products", slog.String("error", err.Error()))
		return fmt.Errorf("load products: %w", err)
	}
	l.all = products
	l.apply()
	return nil
}

// Search sets the search term and recomputes the filtered view.
func (l *ProductList) Search(term string) {
	l.term = term
	l.apply()
}

// SelectCategory sets the category filter. Unknown categories fall back to All.
func (l *ProductList) SelectCategory(category string) {
	if !domain.IsValidCategory(category) {
		category = domain.CategoryAll
	}
	l.category = category
	l.apply()
}

// RemoveLocally drops id from both lists.
func (l *ProductList) RemoveLocally(id int) {
	l.all = without(l.all, id)
	l.filtered = without(l.filtered, id)
}

func (l *ProductList) Products() []domain.Product { return clone(l.all) }
func (l *ProductList) Filtered() []domain.Product { return clone(l.filtered) }
func (l *ProductList) SearchTerm() string         { return l.term }
func (l *ProductList) SelectedCategory() string   { return l.category }
func (l *ProductList) Categories() []string       { return domain.Categories() }

// Find returns the product with id from the authoritative list.
func (l *ProductList) Find(id int) (domain.Product, bool) {
	for _, p := range l.all {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

func (l *ProductList) apply() {
	l.filtered = make([]domain.Product, 0, len(l.all))
	for _, p := range l.all {
		if Matches(p, l.term, l.category) {
			l.filtered = append(l.filtered, p)
		}
	}
}

// Matches reports whether p passes the filter: the category must be All or
// equal p's category exactly, and the term must be a case-insensitive
// substring of p's name or category.
func Matches(p domain.Product, term, category string) bool {
	if category != domain.CategoryAll && p.Category != category {
		return false
	}
	t := strings.ToLower(term)
	return strings.Contains(strings.ToLower(p.Name), t) ||
		strings.Contains(strings.ToLower(p.Category), t)
}

func (l *ProductList) log(ctx context.Context) *slog.Logger {
	if lg := logger.FromContext(ctx); lg != slog.Default() {
		return lg
	}
	return l.logger
}

func without(ps []domain.Product, id int) []domain.Product {
	out := ps[:0:0]
	for _, p := range ps {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}

func clone(ps []domain.Product) []domain.Product {
	out := make([]domain.Product, len(ps))
	copy(out, ps)
	return out
}
