package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dtroode/catalog-server/internal/logger"
	"github.com/dtroode/catalog-server/internal/model"
)

type Product struct {
	store  model.ProductStore
	assets *Assets
	logger *logger.Logger
}

func NewProduct(store model.ProductStore, assets *Assets, logger *logger.Logger) *Product {
	return &Product{
		store:  store,
		assets: assets,
		logger: logger,
	}
}

func (s *Product) ListProducts(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	if filter.Skip < 0 {
		return nil, model.NewValidationError("skip must not be negative")
	}
	if filter.Limit < 0 {
		return nil, model.NewValidationError("limit must not be negative")
	}
	if filter.Limit == 0 {
		return []model.Product{}, nil
	}
	filter.Limit = min(filter.Limit, model.MaxProductLimit)

	products, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return products, nil
}

func (s *Product) GetProduct(ctx context.Context, id int64) (model.Product, error) {
	product, err := s.store.GetByID(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return model.Product{}, model.NewNotFoundError("Product")
	}
	if err != nil {
		return model.Product{}, fmt.Errorf("failed to get product by id: %w", err)
	}

	return product, nil
}

// CreateProduct stores the optional image first and commits the row second.
// The image is removed again when the row cannot be committed.
func (s *Product) CreateProduct(ctx context.Context, in model.ProductInput, upload *model.Upload) (model.Product, error) {
	if err := validateProductInput(in); err != nil {
		return model.Product{}, err
	}

	product := model.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Category:    in.Category,
		Brand:       in.Brand,
		Stock:       in.Stock,
		Rating:      in.Rating,
	}

	var created model.Product
	commit := func(ref string) error {
		if ref != "" {
			product.ImagePath = &ref
		}
		var err error
		created, err = s.store.Create(ctx, product)
		if err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}
		return nil
	}

	var err error
	if upload != nil {
		err = s.assets.Replace(ctx, "", in.Name, upload.Data, filepath.Ext(upload.Filename), commit)
	} else {
		err = commit("")
	}
	if err != nil {
		return model.Product{}, err
	}

	s.logger.Info("Product service: product created",
		"product_id", created.ID,
		"has_image", created.ImagePath != nil)

	return created, nil
}

// UpdateProduct applies the set fields of patch. A new image replaces the old
// one only after the row update has been committed.
func (s *Product) UpdateProduct(ctx context.Context, id int64, patch model.ProductPatch, upload *model.Upload) (model.Product, error) {
	current, err := s.GetProduct(ctx, id)
	if err != nil {
		return model.Product{}, err
	}

	if err := validateProductPatch(patch); err != nil {
		return model.Product{}, err
	}
	patch.ImagePath = model.Optional[string]{}

	var updated model.Product
	commit := func(ref string) error {
		if ref != "" {
			patch.ImagePath = model.Some(ref)
		}
		var err error
		updated, err = s.store.Update(ctx, id, patch)
		return err
	}

	if upload != nil {
		hint := current.Name
		if name, ok := patch.Name.Get(); ok {
			hint = name
		}
		var oldRef string
		if current.ImagePath != nil {
			oldRef = *current.ImagePath
		}
		err = s.assets.Replace(ctx, oldRef, hint, upload.Data, filepath.Ext(upload.Filename), commit)
	} else {
		err = commit("")
	}
	if errors.Is(err, model.ErrNotFound) {
		return model.Product{}, model.NewNotFoundError("Product")
	}
	if err != nil {
		return model.Product{}, fmt.Errorf("failed to update product: %w", err)
	}

	return updated, nil
}

// DeleteProduct removes the row and then, best-effort, its image.
func (s *Product) DeleteProduct(ctx context.Context, id int64) error {
	current, err := s.GetProduct(ctx, id)
	if err != nil {
		return err
	}

	err = s.store.Delete(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return model.NewNotFoundError("Product")
	}
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	if current.ImagePath != nil {
		s.assets.discard(ctx, *current.ImagePath)
	}

	s.logger.Info("Product service: product deleted", "product_id", id)

	return nil
}

func (s *Product) ListCategories(ctx context.Context) ([]string, error) {
	categories, err := s.store.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func validateProductInput(in model.ProductInput) error {
	if err := validateProductName(in.Name); err != nil {
		return err
	}
	if err := validatePrice(in.Price); err != nil {
		return err
	}
	if err := validateStock(in.Stock); err != nil {
		return err
	}
	return validateRating(in.Rating)
}

func validateProductPatch(p model.ProductPatch) error {
	if v, ok := p.Name.Get(); ok {
		if err := validateProductName(v); err != nil {
			return err
		}
	}
	if v, ok := p.Price.Get(); ok {
		if err := validatePrice(v); err != nil {
			return err
		}
	}
	if v, ok := p.Stock.Get(); ok {
		if err := validateStock(v); err != nil {
			return err
		}
	}
	if v, ok := p.Rating.Get(); ok {
		return validateRating(v)
	}
	return nil
}

func validateProductName(name string) error {
	if strings.TrimSpace(name) == "" {
		return model.NewValidationError("Product name must not be empty")
	}
	return nil
}

// maxPrice is the first value that no longer fits NUMERIC(12,2).
var maxPrice = decimal.New(1, 10)

func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return model.NewValidationError("Price must not be negative")
	}
	if !price.Equal(price.Round(2)) {
		return model.NewValidationError("Price must have at most 2 decimal places")
	}
	if price.GreaterThanOrEqual(maxPrice) {
		return model.NewValidationErrorf("Price must be less than %s", maxPrice)
	}
	return nil
}

func validateStock(stock int) error {
	if stock < 0 {
		return model.NewValidationError("Stock must not be negative")
	}
	if stock > math.MaxInt32 {
		return model.NewValidationErrorf("Stock must be at most %d", math.MaxInt32)
	}
	return nil
}

func validateRating(rating float64) error {
	if math.IsNaN(rating) || rating < 0 || rating > model.MaxRating {
		return model.NewValidationErrorf("Rating must be between 0 and %g", model.MaxRating)
	}
	return nil
}
