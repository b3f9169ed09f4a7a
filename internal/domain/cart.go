package domain

import "github.com/shopspring/decimal"

// CartItem is one line of the cart. ID is assigned by the cart service and is
// nil until the item has been stored.
type CartItem struct {
	ID           *int    `json:"id,omitempty"`
	ProductID    int     `json:"productId" validate:"gt=0"`
	ProductImage string  `json:"productImage"`
	Name         string  `json:"name"`
	Price        float64 `json:"price" validate:"gte=0"`
	Quantity     int     `json:"quantity" validate:"gte=1"`
}

// NewCartItem builds a single-unit cart line for p.
func NewCartItem(p Product) CartItem {
	return CartItem{
		ProductID:    p.ID,
		ProductImage: p.Image,
		Name:         p.Name,
		Price:        p.Price,
		Quantity:     1,
	}
}

// HasID reports whether the cart service has assigned an id.
func (c CartItem) HasID() bool {
	return c.ID != nil
}

// Subtotal is price times quantity.
func (c CartItem) Subtotal() decimal.Decimal {
	return decimal.NewFromFloat(c.Price).Mul(decimal.NewFromInt(int64(c.Quantity)))
}

// QuantityUpdate is the PATCH body sent to the cart service.
type QuantityUpdate struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

// ClampQuantity raises q to the minimum of 1.
func ClampQuantity(q int) int {
	if q < 1 {
		return 1
	}
	return q
}
