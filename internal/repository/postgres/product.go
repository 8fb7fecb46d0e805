package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/dtroode/catalog-server/internal/model"
)

var _ model.ProductStore = (*ProductRepository)(nil)

const productColumns = `id, name, description, price, category, brand, stock, rating, image_path, created_at`

type ProductRepository struct {
	db *Connection
}

func NewProductRepository(db *Connection) *ProductRepository {
	return &ProductRepository{
		db: db,
	}
}

func (r *ProductRepository) List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	query, args := buildProductListQuery(filter)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := make([]model.Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}

	return products, nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	product, err := scanProduct(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Product{}, model.ErrNotFound
		}
		return model.Product{}, fmt.Errorf("failed to get product by id: %w", err)
	}

	return product, nil
}

func (r *ProductRepository) Create(ctx context.Context, product model.Product) (model.Product, error) {
	query := `INSERT INTO products (name, description, price, category, brand, stock, rating, image_path)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING ` + productColumns

	saved, err := scanProduct(r.db.QueryRow(ctx, query,
		product.Name, product.Description, product.Price, product.Category,
		product.Brand, product.Stock, product.Rating, product.ImagePath,
	))
	if err != nil {
		return model.Product{}, fmt.Errorf("failed to create product: %w", translateWriteError(err))
	}

	return saved, nil
}

func (r *ProductRepository) Update(ctx context.Context, id int64, patch model.ProductPatch) (model.Product, error) {
	if patch.IsEmpty() {
		return r.GetByID(ctx, id)
	}

	query, args := buildProductUpdate(id, patch)
	saved, err := scanProduct(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Product{}, model.ErrNotFound
		}
		return model.Product{}, fmt.Errorf("failed to update product: %w", translateWriteError(err))
	}

	return saved, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM products WHERE id = $1`
	cmd, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *ProductRepository) Categories(ctx context.Context) ([]string, error) {
	const query = `SELECT DISTINCT category FROM products WHERE category <> '' ORDER BY category`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]string, 0)
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}

	return categories, nil
}

func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM products`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return n, nil
}

func scanProduct(row pgx.Row) (model.Product, error) {
	var p model.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Category,
		&p.Brand, &p.Stock, &p.Rating, &p.ImagePath, &p.CreatedAt,
	)
	return p, err
}

func buildProductListQuery(filter model.ProductFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	if filter.Category != "" {
		args = append(args, filter.Category)
		where = append(where, "category = $"+strconv.Itoa(len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		where = append(where, "name ILIKE $"+strconv.Itoa(len(args)))
	}

	var b strings.Builder
	b.WriteString("SELECT " + productColumns + " FROM products")
	if len(where) > 0 {
		b.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	b.WriteString(" ORDER BY id")

	args = append(args, filter.Limit)
	b.WriteString(" LIMIT $" + strconv.Itoa(len(args)))
	args = append(args, filter.Skip)
	b.WriteString(" OFFSET $" + strconv.Itoa(len(args)))

	return b.String(), args
}

func buildProductUpdate(id int64, patch model.ProductPatch) (string, []any) {
	set := newSetBuilder()
	if v, ok := patch.Name.Get(); ok {
		set.add("name", v)
	}
	if v, ok := patch.Description.Get(); ok {
		set.add("description", v)
	}
	if v, ok := patch.Price.Get(); ok {
		set.add("price", v)
	}
	if v, ok := patch.Category.Get(); ok {
		set.add("category", v)
	}
	if v, ok := patch.Brand.Get(); ok {
		set.add("brand", v)
	}
	if v, ok := patch.Stock.Get(); ok {
		set.add("stock", v)
	}
	if v, ok := patch.Rating.Get(); ok {
		set.add("rating", v)
	}
	if v, ok := patch.ImagePath.Get(); ok {
		set.add("image_path", v)
	}

	return set.build("products", id, productColumns)
}

// escapeLike makes s match literally inside a LIKE pattern.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
