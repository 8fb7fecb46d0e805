package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/dtroode/catalog-server/internal/model"
)

func TestNewProductRepository(t *testing.T) {
	db := &Connection{}
	repo := NewProductRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestBuildProductListQuery(t *testing.T) {
	base := "SELECT " + productColumns + " FROM products"

	tests := []struct {
		name      string
		filter    model.ProductFilter
		wantQuery string
		wantArgs  []any
	}{
		{
			name:      "no filters",
			filter:    model.ProductFilter{Limit: 100},
			wantQuery: base + " ORDER BY id LIMIT $1 OFFSET $2",
			wantArgs:  []any{100, 0},
		},
		{
			name:      "category",
			filter:    model.ProductFilter{Category: "Electronics", Skip: 5, Limit: 10},
			wantQuery: base + " WHERE category = $1 ORDER BY id LIMIT $2 OFFSET $3",
			wantArgs:  []any{"Electronics", 10, 5},
		},
		{
			name:      "category and search",
			filter:    model.ProductFilter{Category: "Electronics", Search: "watch", Limit: 10},
			wantQuery: base + " WHERE category = $1 AND name ILIKE $2 ORDER BY id LIMIT $3 OFFSET $4",
			wantArgs:  []any{"Electronics", "%watch%", 10, 0},
		},
		{
			name:      "search escapes wildcards",
			filter:    model.ProductFilter{Search: `50%_off\`, Limit: 1},
			wantQuery: base + " WHERE name ILIKE $1 ORDER BY id LIMIT $2 OFFSET $3",
			wantArgs:  []any{`%50\%\_off\\%`, 1, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			query, args := buildProductListQuery(tt.filter)
			assert.Equal(t, tt.wantQuery, query)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestBuildProductUpdate(t *testing.T) {
	price := decimal.RequireFromString("10.50")

	tests := []struct {
		name      string
		patch     model.ProductPatch
		wantQuery string
		wantArgs  []any
	}{
		{
			name:      "zero stock is applied",
			patch:     model.ProductPatch{Stock: model.Some(0)},
			wantQuery: "UPDATE products SET stock = $1 WHERE id = $2 RETURNING " + productColumns,
			wantArgs:  []any{0, int64(3)},
		},
		{
			name: "several fields keep column order",
			patch: model.ProductPatch{
				Rating:    model.Some(4.5),
				Name:      model.Some("Lamp"),
				Price:     model.Some(price),
				ImagePath: model.Some("/uploads/lamp_1.png"),
			},
			wantQuery: "UPDATE products SET name = $1, price = $2, rating = $3, image_path = $4 WHERE id = $5 RETURNING " + productColumns,
			wantArgs:  []any{"Lamp", price, 4.5, "/uploads/lamp_1.png", int64(3)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			query, args := buildProductUpdate(3, tt.patch)
			assert.Equal(t, tt.wantQuery, query)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestTranslateWriteError(t *testing.T) {
	plain := errors.New("boom")

	tests := []struct {
		name  string
		err   error
		check func(t *testing.T, err error)
	}{
		{
			name: "email unique violation",
			err:  fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: codeUniqueViolation, ConstraintName: "users_email_key"}),
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, model.ErrEmailTaken)
			},
		},
		{
			name: "check violation",
			err:  &pgconn.PgError{Code: codeCheckViolation, ConstraintName: "products_price_check"},
			check: func(t *testing.T, err error) {
				var verr *model.ValidationError
				assert.ErrorAs(t, err, &verr)
				assert.Contains(t, verr.Message, "products_price_check")
			},
		},
		{
			name: "numeric out of range",
			err:  &pgconn.PgError{Code: codeOutOfRange},
			check: func(t *testing.T, err error) {
				var verr *model.ValidationError
				assert.ErrorAs(t, err, &verr)
			},
		},
		{
			name: "other postgres error",
			err:  &pgconn.PgError{Code: "40001"},
			check: func(t *testing.T, err error) {
				var verr *model.ValidationError
				assert.False(t, errors.As(err, &verr))
			},
		},
		{
			name: "not a postgres error",
			err:  plain,
			check: func(t *testing.T, err error) {
				assert.Equal(t, plain, err)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tt.check(t, translateWriteError(tt.err))
		})
	}
}
