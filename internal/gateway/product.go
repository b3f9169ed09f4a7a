package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/utafrali/storefront/internal/domain"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/httpclient"
	"github.com/utafrali/storefront/pkg/tracing"
	"github.com/utafrali/storefront/pkg/validator"
)

// ProductClient implements ProductGateway over the product service's REST API.
type ProductClient struct {
	base
}

var _ ProductGateway = (*ProductClient)(nil)

func NewProductClient(d httpclient.Doer, baseURL string, logger *slog.Logger) *ProductClient {
	return &ProductClient{base: newBase(d, baseURL, ProductServiceName, logger)}
}

// GetAll lists every product. Records that fail validation are skipped.
func (c *ProductClient) GetAll(ctx context.Context) (_ []domain.Product, err error) {
	ctx, span := tracing.Start(ctx, "ProductGateway.GetAll")
	defer func() { tracing.End(span, err) }()

	var raw []domain.Product
	if err := c.do(ctx, http.MethodGet, "/products", nil, &raw); err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(raw))
	for _, p := range raw {
		if verr := validator.Validate(p); verr != nil {
			c.log(ctx).WarnContext(ctx, "dropping invalid product record",
				slog.Int("product_id", p.ID),
				slog.String("error", verr.Error()),
			)
			continue
		}
		products = append(products, p)
	}
	span.SetAttributes(attribute.Int("products.count", len(products)))
	return products, nil
}

func (c *ProductClient) GetByID(ctx context.Context, id int) (_ domain.Product, err error) {
	ctx, span := tracing.Start(ctx, "ProductGateway.GetByID", withProductID(id))
	defer func() { tracing.End(span, err) }()

	var p domain.Product
	if err := c.do(ctx, http.MethodGet, productPath(id), nil, &p); err != nil {
		return domain.Product{}, err
	}
	if err := validator.Validate(p); err != nil {
		return domain.Product{}, fmt.Errorf("product %d from %s: %w", id, c.service, err)
	}
	return p, nil
}

func (c *ProductClient) AddProduct(ctx context.Context, in domain.ProductInput) (_ domain.Product, err error) {
	ctx, span := tracing.Start(ctx, "ProductGateway.AddProduct")
	defer func() { tracing.End(span, err) }()

	var created domain.Product
	if err := c.do(ctx, http.MethodPost, "/products", in, &created); err != nil {
		return domain.Product{}, err
	}
	c.log(ctx).InfoContext(ctx, "product created", slog.Int("product_id", created.ID))
	return created, nil
}

func (c *ProductClient) EditProduct(ctx context.Context, in domain.ProductInput, id int) (_ domain.Product, err error) {
	ctx, span := tracing.Start(ctx, "ProductGateway.EditProduct", withProductID(id))
	defer func() { tracing.End(span, err) }()

	if id <= 0 {
		return domain.Product{}, apperrors.InvalidInput(fmt.Sprintf("invalid product id %d", id))
	}

	// json-server replaces the whole record on PUT, so the id travels in the body too.
	body := struct {
		ID int `json:"id"`
		domain.ProductInput
	}{ID: id, ProductInput: in}

	var updated domain.Product
	if err := c.do(ctx, http.MethodPut, productPath(id), body, &updated); err != nil {
		return domain.Product{}, err
	}
	c.log(ctx).InfoContext(ctx, "product updated", slog.Int("product_id", id))
	return updated, nil
}

func (c *ProductClient) DeleteProduct(ctx context.Context, id int) (err error) {
	ctx, span := tracing.Start(ctx, "ProductGateway.DeleteProduct", withProductID(id))
	defer func() { tracing.End(span, err) }()

	if err := c.do(ctx, http.MethodDelete, productPath(id), nil, nil); err != nil {
		return err
	}
	c.log(ctx).InfoContext(ctx, "product deleted", slog.Int("product_id", id))
	return nil
}

func productPath(id int) string {
	return fmt.Sprintf("/products/%d", id)
}

func withProductID(id int) trace.SpanStartOption {
	return trace.WithAttributes(attribute.Int("product.id", id))
}
