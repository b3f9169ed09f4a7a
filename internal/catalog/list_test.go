package catalog

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/gateway/gatewaytest"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

var fixtures = []domain.Product{
	{ID: 1, Name: "Smart Phone", Category: "Electronics", Price: 300},
	{ID: 2, Name: "Leather Wallet", Category: "Accessories", Price: 40},
	{ID: 3, Name: "Summer Dress", Category: "Fashion", Price: 60},
	{ID: 4, Name: "Table Lamp", Category: "Home", Price: 25},
	{ID: 5, Name: "Phone Case", Category: "Accessories", Price: 15},
}

func newLoadedList(t *testing.T) *ProductList {
	t.Helper()
	gw := &gatewaytest.ProductGateway{}
	gw.On("GetAll", mock.Anything).Return(fixtures, nil).Once()

	l := NewProductList(gw, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	require.NoError(t, l.LoadAll(context.Background()))
	gw.AssertExpectations(t)
	return l
}

func ids(ps []domain.Product) []int {
	out := make([]int, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func TestLoadAll_KeepsOrderAndShowsEverything(t *testing.T) {
	l := newLoadedList(t)

	assert.Equal(t, []int{1, 2, 3, 4, 5}, ids(l.Products()))
	assert.Equal(t, []int{1, 2, 3, 4, 5}, ids(l.Filtered()))
	assert.Equal(t, "", l.SearchTerm())
	assert.Equal(t, domain.CategoryAll, l.SelectedCategory())
}

func TestLoadAll_FailureEmptiesLists(t *testing.T) {
	l := newLoadedList(t)

	var logs bytes.Buffer
	gw := &gatewaytest.ProductGateway{}
	gw.On("GetAll", mock.Anything).Return(nil, apperrors.Unavailable("product-service", errors.New("refused")))
	l.products = gw
	l.logger = slog.New(slog.NewTextHandler(&logs, nil))

	err := l.LoadAll(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrServiceUnavail)
	assert.Empty(t, l.Products())
	assert.Empty(t, l.Filtered())
	assert.Contains(t, logs.String(), "failed to load products")
}

func TestLoadAll_ReappliesFilter(t *testing.T) {
	gw := &gatewaytest.ProductGateway{}
	gw.On("GetAll", mock.Anything).Return(fixtures, nil)
	l := NewProductList(gw, slog.Default())

	l.Search("phone")
	require.NoError(t, l.LoadAll(context.Background()))
	assert.Equal(t, []int{1, 5}, ids(l.Filtered()))
}

func TestSearchAndCategory(t *testing.T) {
	tests := []struct {
		name     string
		term     string
		category string
		want     []int
	}{
		{"empty filter", "", "All", []int{1, 2, 3, 4, 5}},
		{"case-insensitive name match", "PHONE", "All", []int{1, 5}},
		{"matches category text", "access", "All", []int{2, 5}},
		{"category only", "", "Accessories", []int{2, 5}},
		{"term and category", "phone", "Accessories", []int{5}},
		{"no match", "xyz", "All", []int{}},
		{"category match is exact", "", "Home", []int{4}},
		{"unknown category falls back to All", "lamp", "Garden", []int{4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newLoadedList(t)
			l.Search(tt.term)
			l.SelectCategory(tt.category)
			assert.Equal(t, tt.want, ids(l.Filtered()))
			assert.Len(t, l.Products(), 5, "authoritative list untouched")
		})
	}
}

func TestFilteredIsConsistentWithMatches(t *testing.T) {
	terms := []string{"", "a", "PH", "lamp", "Fashion", "zzz"}
	for _, term := range terms {
		for _, c := range domain.Categories() {
			l := newLoadedList(t)
			l.Search(term)
			l.SelectCategory(c)

			var want []int
			for _, p := range l.Products() {
				if Matches(p, term, c) {
					want = append(want, p.ID)
				}
			}
			if want == nil {
				want = []int{}
			}
			assert.Equal(t, want, ids(l.Filtered()), "term=%q category=%q", term, c)
		}
	}
}

func TestSelectAllIsIdempotent(t *testing.T) {
	l := newLoadedList(t)
	l.Search("phone")
	l.SelectCategory("All")
	first := l.Filtered()
	l.SelectCategory("All")
	assert.Equal(t, first, l.Filtered())
}

func TestRemoveLocally(t *testing.T) {
	l := newLoadedList(t)
	l.Search("phone")

	l.RemoveLocally(5)
	assert.Equal(t, []int{1, 2, 3, 4}, ids(l.Products()))
	assert.Equal(t, []int{1}, ids(l.Filtered()))

	_, ok := l.Find(5)
	assert.False(t, ok)

	l.RemoveLocally(99)
	assert.Len(t, l.Products(), 4)
}

func TestAccessorsReturnCopies(t *testing.T) {
	l := newLoadedList(t)
	ps := l.Products()
	ps[0].Name = "mutated"

	p, ok := l.Find(1)
	require.True(t, ok)
	assert.Equal(t, "Smart Phone", p.Name)
	assert.Equal(t, domain.Categories(), l.Categories())
}
