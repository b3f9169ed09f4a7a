// Package productform drives the create/edit product form.
package productform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/gateway"
	"github.com/utafrali/storefront/internal/ui"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/logger"
	"github.com/utafrali/storefront/pkg/validator"
)

// Alert texts.
const (
	MsgAdded        = "Product added successfully!"
	MsgUpdated      = "Product Updated successfully!"
	msgAddFailed    = "Error adding product: "
	msgUpdateFailed = "Error updating product: "
)

// Form field names, shared with the template.
const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldPrice       = "price"
	FieldImage       = "image"
	FieldCategory    = "category"
	FieldStock       = "stock"
	FieldRating      = "rating"
)

// Fields are the editable values. Numbers are pointers so that a missing
// value fails "required" while an explicit zero does not.
type Fields struct {
	Name        string   `form:"name" validate:"required,min=3"`
	Description string   `form:"description" validate:"required"`
	Price       *float64 `form:"price" validate:"required,gte=1"`
	Image       string   `form:"image" validate:"required"`
	Category    string   `form:"category" validate:"required"`
	Stock       *int     `form:"stock" validate:"required,gte=0"`
	Rating      *float64 `form:"rating" validate:"required,gte=0,lte=5"`
}

// Input converts validated fields into a gateway payload.
func (f Fields) Input() domain.ProductInput {
	in := domain.ProductInput{
		Image:       f.Image,
		Name:        f.Name,
		Description: f.Description,
		Category:    f.Category,
	}
	if f.Price != nil {
		in.Price = *f.Price
	}
	if f.Stock != nil {
		in.Stock = *f.Stock
	}
	if f.Rating != nil {
		in.Rating = *f.Rating
	}
	return in
}

// FieldsFromProduct copies every field of p.
func FieldsFromProduct(p domain.Product) Fields {
	price, stock, rating := p.Price, p.Stock, p.Rating
	return Fields{
		Name:        p.Name,
		Description: p.Description,
		Price:       &price,
		Image:       p.Image,
		Category:    p.Category,
		Stock:       &stock,
		Rating:      &rating,
	}
}

// Form is the controller behind one product form. ID is domain.NewProductID
// for a new product.
type Form struct {
	id        int
	fields    Fields
	raw       map[string]string
	bindErrs  *validator.ValidationError
	errs      map[string]string
	products  gateway.ProductGateway
	notifier  ui.Notifier
	navigator ui.Navigator
	logger    *slog.Logger
}

func New(id int, products gateway.ProductGateway, notifier ui.Notifier, navigator ui.Navigator, logger *slog.Logger) *Form {
	return &Form{
		id:        id,
		products:  products,
		notifier:  notifier,
		navigator: navigator,
		logger:    logger,
		raw:       make(map[string]string),
		errs:      make(map[string]string),
	}
}

func (f *Form) ID() int        { return f.id }
func (f *Form) IsNew() bool    { return f.id == domain.NewProductID }
func (f *Form) Fields() Fields { return f.fields }

// Errors returns the per-field messages of the last Submit.
func (f *Form) Errors() map[string]string {
	out := make(map[string]string, len(f.errs))
	for k, v := range f.errs {
		out[k] = v
	}
	return out
}

// Error returns the message for one field, or "".
func (f *Form) Error(field string) string {
	return f.errs[field]
}

// Value returns what the form should display for field: the posted text when
// it was bound, otherwise the loaded value.
func (f *Form) Value(field string) string {
	if v, ok := f.raw[field]; ok {
		return v
	}
	switch field {
	case FieldName:
		return f.fields.Name
	case FieldDescription:
		return f.fields.Description
	case FieldImage:
		return f.fields.Image
	case FieldCategory:
		return f.fields.Category
	case FieldPrice:
		return formatFloat(f.fields.Price)
	case FieldRating:
		return formatFloat(f.fields.Rating)
	case FieldStock:
		if f.fields.Stock == nil {
			return ""
		}
		return strconv.Itoa(*f.fields.Stock)
	}
	return ""
}

// LoadForEdit fills the fields from product id. It does nothing for a new
// product. A failed fetch is logged and returned; the fields stay blank.
func (f *Form) LoadForEdit(ctx context.Context, id int) error {
	f.id = id
	if id == domain.NewProductID {
		return nil
	}

	p, err := f.products.GetByID(ctx, id)
	if err != nil {
		f.log(ctx).ErrorContext(ctx, "failed to load product for edit",
			slog.Int("product_id", id),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("load product %d: %w", id, err)
	}
	f.fields = FieldsFromProduct(p)
	return nil
}

// Bind copies posted values into the fields. Numbers that do not parse are
// recorded as field errors and reported by the next Submit.
func (f *Form) Bind(values url.Values) {
	get := func(name string) string {
		v := strings.TrimSpace(values.Get(name))
		f.raw[name] = v
		return v
	}

	f.bindErrs = &validator.ValidationError{}
	f.fields.Name = get(FieldName)
	f.fields.Description = get(FieldDescription)
	f.fields.Image = get(FieldImage)
	f.fields.Category = get(FieldCategory)
	f.fields.Price = f.parseFloat(FieldPrice, get(FieldPrice))
	f.fields.Rating = f.parseFloat(FieldRating, get(FieldRating))
	f.fields.Stock = f.parseInt(FieldStock, get(FieldStock))
}

// Submit validates the fields and creates or updates the product. Invalid
// input returns a *validator.ValidationError without calling the gateway. On
// success the visitor is alerted and sent to the product list.
func (f *Form) Submit(ctx context.Context) error {
	verr := &validator.ValidationError{}
	if f.bindErrs != nil {
		verr.Merge(f.bindErrs)
	}
	if err := validator.Validate(f.fields); err != nil {
		var ve *validator.ValidationError
		if !errors.As(err, &ve) {
			return apperrors.Internal(err)
		}
		verr.Merge(ve)
	}
	if !verr.Empty() {
		f.errs = verr.Fields()
		return verr
	}
	f.errs = make(map[string]string)

	in := f.fields.Input()
	if f.IsNew() {
		created, err := f.products.AddProduct(ctx, in)
		if err != nil {
			f.notifier.Alert(ctx, ui.LevelError, msgAddFailed+apperrors.UserMessage(err))
			return fmt.Errorf("add product: %w", err)
		}
		f.id = created.ID
		f.notifier.Alert(ctx, ui.LevelInfo, MsgAdded)
	} else {
		if _, err := f.products.EditProduct(ctx, in, f.id); err != nil {
			f.notifier.Alert(ctx, ui.LevelError, msgUpdateFailed+apperrors.UserMessage(err))
			return fmt.Errorf("update product %d: %w", f.id, err)
		}
		f.notifier.Alert(ctx, ui.LevelInfo, MsgUpdated)
	}

	f.navigator.Navigate(ctx, ui.RouteProducts)
	return nil
}

func (f *Form) parseFloat(field, s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		f.bindErrs.WithField(field, "must be a number")
		return nil
	}
	return &v
}

func (f *Form) parseInt(field, s string) *int {
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		f.bindErrs.WithField(field, "must be a whole number")
		return nil
	}
	return &v
}

func (f *Form) log(ctx context.Context) *slog.Logger {
	if l := logger.FromContext(ctx); l != slog.Default() {
		return l
	}
	return f.logger
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
