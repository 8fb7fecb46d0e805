package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/dtroode/catalog-server/internal/model"
)

var demoProducts = []model.ProductInput{
	{
		Name:        "Wireless Headphones",
		Description: "Premium noise-canceling headphones with 20h battery life.",
		Price:       decimal.RequireFromString("199.99"),
		Category:    "Electronics",
		Brand:       "AudioTech",
		Stock:       50,
		Rating:      4.5,
	},
	{
		Name:        "Smart Watch Pro",
		Description: "Advanced fitness tracking and health monitoring.",
		Price:       decimal.RequireFromString("299.99"),
		Category:    "Electronics",
		Brand:       "WristTech",
		Stock:       30,
		Rating:      4.8,
	},
	{
		Name:        "Ergonomic Chair",
		Description: "Comfortable office chair with lumbar support.",
		Price:       decimal.RequireFromString("149.99"),
		Category:    "Furniture",
		Brand:       "ComfortSeatz",
		Stock:       15,
		Rating:      4.2,
	},
	{
		Name:        "Mechanical Keyboard",
		Description: "RGB mechanical keyboard with blue switches.",
		Price:       decimal.RequireFromString("89.99"),
		Category:    "Electronics",
		Brand:       "KeyMaster",
		Stock:       100,
		Rating:      4.7,
	},
}

// SeedProducts fills an empty catalog with demo products and reports how many
// were inserted. A catalog that already has products is left alone.
func (s *Product) SeedProducts(ctx context.Context) (int, error) {
	n, err := s.store.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	if n > 0 {
		s.logger.Info("Product service: catalog already populated, skipping seed", "count", n)
		return 0, nil
	}

	for i, in := range demoProducts {
		if _, err := s.CreateProduct(ctx, in, nil); err != nil {
			return i, fmt.Errorf("failed to seed %q: %w", in.Name, err)
		}
	}

	s.logger.Info("Product service: seeded demo products", "count", len(demoProducts))
	return len(demoProducts), nil
}
