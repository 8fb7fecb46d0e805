package model

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// DefaultProductLimit is used when a listing does not specify a limit.
	DefaultProductLimit = 100
	// MaxProductLimit caps a single listing page.
	MaxProductLimit = 100
	// MaxRating is the upper bound of a product rating.
	MaxRating = 5.0
)

// ProductStore defines persistence operations for products.
type ProductStore interface {
	List(ctx context.Context, filter ProductFilter) ([]Product, error)
	GetByID(ctx context.Context, id int64) (Product, error)
	Create(ctx context.Context, product Product) (Product, error)
	Update(ctx context.Context, id int64, patch ProductPatch) (Product, error)
	Delete(ctx context.Context, id int64) error
	Categories(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int64, error)
}

// Product represents a catalog item.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Brand       string          `json:"brand"`
	Stock       int             `json:"stock"`
	Rating      float64         `json:"rating"`
	ImagePath   *string         `json:"image_path"`
	CreatedAt   time.Time       `json:"created_at"`
}

// MarshalJSON renders the price as a bare JSON number.
func (p Product) MarshalJSON() ([]byte, error) {
	type product Product
	return json.Marshal(struct {
		product
		Price json.Number `json:"price"`
	}{
		product: product(p),
		Price:   json.Number(p.Price.String()),
	})
}

// ProductFilter narrows a product listing. Filters are ANDed.
type ProductFilter struct {
	Category string
	Search   string
	Skip     int
	Limit    int
}

// ProductInput contains the fields required to create a product.
type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Category    string
	Brand       string
	Stock       int
	Rating      float64
}

// ProductPatch is a partial product update. Unset fields keep their value.
type ProductPatch struct {
	Name        Optional[string]
	Description Optional[string]
	Price       Optional[decimal.Decimal]
	Category    Optional[string]
	Brand       Optional[string]
	Stock       Optional[int]
	Rating      Optional[float64]
	ImagePath   Optional[string]
}

// IsEmpty reports whether the patch changes nothing.
func (p ProductPatch) IsEmpty() bool {
	return !p.Name.Set && !p.Description.Set && !p.Price.Set && !p.Category.Set &&
		!p.Brand.Set && !p.Stock.Set && !p.Rating.Set && !p.ImagePath.Set
}

// Upload is an uploaded file attached to a product request.
type Upload struct {
	Filename string
	Data     io.Reader
}
