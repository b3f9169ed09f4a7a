package domain

// NewProductID marks a form that creates a product rather than editing one.
const NewProductID = 0

// CategoryAll matches every product.
const CategoryAll = "All"

var categories = []string{CategoryAll, "Electronics", "Fashion", "Accessories", "Home"}

// Categories returns the fixed category enumeration, All first.
func Categories() []string {
	out := make([]string, len(categories))
	copy(out, categories)
	return out
}

// IsValidCategory reports whether c is one of Categories. Matching is exact.
func IsValidCategory(c string) bool {
	for _, v := range categories {
		if v == c {
			return true
		}
	}
	return false
}

// Product is a catalog entry as served by the product service.
type Product struct {
	ID          int     `json:"id" validate:"gte=0"`
	Image       string  `json:"image"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"gte=0"`
	Category    string  `json:"category"`
	Stock       int     `json:"stock" validate:"gte=0"`
	Rating      float64 `json:"rating" validate:"gte=0,lte=5"`
}

// ProductInput is the body of a create or update call.
type ProductInput struct {
	Image       string  `json:"image"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Stock       int     `json:"stock"`
	Rating      float64 `json:"rating"`
}

// Input returns p without its id.
func (p Product) Input() ProductInput {
	return ProductInput{
		Image:       p.Image,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		Stock:       p.Stock,
		Rating:      p.Rating,
	}
}
