package gatewaytest

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/utafrali/storefront/internal/domain"
)

// ProductGateway is a testify mock of gateway.ProductGateway.
type ProductGateway struct {
	mock.Mock
}

func (m *ProductGateway) GetAll(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *ProductGateway) GetByID(ctx context.Context, id int) (domain.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *ProductGateway) AddProduct(ctx context.Context, in domain.ProductInput) (domain.Product, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *ProductGateway) EditProduct(ctx context.Context, in domain.ProductInput, id int) (domain.Product, error) {
	args := m.Called(ctx, in, id)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *ProductGateway) DeleteProduct(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// CartGateway is a testify mock of gateway.CartGateway.
type CartGateway struct {
	mock.Mock
}

func (m *CartGateway) GetAll(ctx context.Context) ([]domain.CartItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CartItem), args.Error(1)
}

func (m *CartGateway) AddToCart(ctx context.Context, item domain.CartItem) (domain.CartItem, error) {
	args := m.Called(ctx, item)
	return args.Get(0).(domain.CartItem), args.Error(1)
}

func (m *CartGateway) UpdateQuantity(ctx context.Context, id, productID, quantity int) (domain.CartItem, error) {
	args := m.Called(ctx, id, productID, quantity)
	return args.Get(0).(domain.CartItem), args.Error(1)
}

func (m *CartGateway) RemoveFromCart(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *CartGateway) ClearCart(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
