package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/TimohaSheff/uch-pract-parfum/internal/domain"
	"github.com/TimohaSheff/uch-pract-parfum/internal/repository"
	"github.com/TimohaSheff/uch-pract-parfum/pkg/database"
	apperrors "github.com/TimohaSheff/uch-pract-parfum/pkg/errors"
)

// sortColumns whitelists the sortable columns for product listings.
var sortColumns = map[string]string{
	"price":      "p.price",
	"price_desc": "p.price DESC",
	"name":       "p.name",
	"newest":     "p.created_at DESC",
}

// ProductRepository implements repository.ProductRepository using PostgreSQL.
type ProductRepository struct {
	pool database.DBTX
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool database.DBTX) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// Create inserts a new product.
func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	query := `
		INSERT INTO products (id, name, slug, description, brand_id, category_id, gender, concentration, volume_ml, price, discount_percent, in_stock, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := r.pool.Exec(ctx, query,
		p.ID,
		p.Name,
		p.Slug,
		p.Description,
		p.BrandID,
		p.CategoryID,
		p.Gender,
		p.Concentration,
		p.VolumeML,
		p.Price,
		p.DiscountPercent,
		p.InStock,
		p.ImageURL,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return apperrors.AlreadyExists("product", "slug", p.Slug)
		}
		return fmt.Errorf("insert product: %w", err)
	}

	return nil
}

// GetByID retrieves a product by its ID, joined with its brand name.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `
		SELECT p.id, p.name, p.slug, p.description, p.brand_id, b.name, COALESCE(p.category_id::text, ''), p.gender, p.concentration, p.volume_ml, p.price, p.discount_percent, p.in_stock, p.image_url, p.created_at, p.updated_at
		FROM products p
		JOIN brands b ON b.id = p.brand_id
		WHERE p.id = $1`

	var p domain.Product
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.Name,
		&p.Slug,
		&p.Description,
		&p.BrandID,
		&p.BrandName,
		&p.CategoryID,
		&p.Gender,
		&p.Concentration,
		&p.VolumeML,
		&p.Price,
		&p.DiscountPercent,
		&p.InStock,
		&p.ImageURL,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}

	return &p, nil
}

// Update persists changes to a product.
func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	query := `
		UPDATE products
		SET name = $1, slug = $2, description = $3, brand_id = $4, category_id = NULLIF($5, '')::uuid,
			gender = $6, concentration = $7, volume_ml = $8, price = $9,
			discount_percent = $10, in_stock = $11, image_url = $12, updated_at = $13
		WHERE id = $14`

	ct, err := r.pool.Exec(ctx, query,
		p.Name,
		p.Slug,
		p.Description,
		p.BrandID,
		p.CategoryID,
		p.Gender,
		p.Concentration,
		p.VolumeML,
		p.Price,
		p.DiscountPercent,
		p.InStock,
		p.ImageURL,
		p.UpdatedAt,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product", p.ID)
	}

	return nil
}

// List returns products matching the given filter with the total count.
func (r *ProductRepository) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	var (
		conditions []string
		args       []any
		argIndex   = 1
	)

	addCondition := func(expr string, value any) {
		conditions = append(conditions, fmt.Sprintf(expr, argIndex))
		args = append(args, value)
		argIndex++
	}

	if filter.BrandID != nil {
		addCondition("p.brand_id = $%d", *filter.BrandID)
	}
	if filter.CategoryID != nil {
		addCondition("p.category_id = $%d", *filter.CategoryID)
	}
	if filter.Gender != nil {
		addCondition("p.gender = $%d", *filter.Gender)
	}
	if filter.Concentration != nil {
		addCondition("p.concentration = $%d", *filter.Concentration)
	}
	if filter.MinPrice != nil {
		addCondition("p.price >= $%d", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		addCondition("p.price <= $%d", *filter.MaxPrice)
	}
	if filter.InStock != nil {
		addCondition("p.in_stock = $%d", *filter.InStock)
	}
	if filter.Query != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(p.name ILIKE '%%' || $%d || '%%' OR b.name ILIKE '%%' || $%d || '%%')", argIndex, argIndex))
		args = append(args, filter.Query)
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	orderBy := "p.created_at DESC"
	if col, ok := sortColumns[filter.SortBy]; ok {
		orderBy = col
	}

	query := fmt.Sprintf(`
		SELECT p.id, p.name, p.slug, p.description, p.brand_id, b.name, COALESCE(p.category_id::text, ''), p.gender, p.concentration, p.volume_ml, p.price, p.discount_percent, p.in_stock, p.image_url, p.created_at, p.updated_at,
			   count(*) OVER() AS total_count
		FROM products p
		JOIN brands b ON b.id = p.brand_id
		%s
		ORDER BY %s
		LIMIT $%d OFFSET $%d`,
		whereClause, orderBy, argIndex, argIndex+1,
	)

	limit := filter.PerPage
	if limit <= 0 {
		limit = 20
	}
	offset := 0
	if filter.Page > 1 {
		offset = (filter.Page - 1) * limit
	}

	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var totalCount int
	products := make([]domain.Product, 0)

	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Slug,
			&p.Description,
			&p.BrandID,
			&p.BrandName,
			&p.CategoryID,
			&p.Gender,
			&p.Concentration,
			&p.VolumeML,
			&p.Price,
			&p.DiscountPercent,
			&p.InStock,
			&p.ImageURL,
			&p.CreatedAt,
			&p.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate product rows: %w", err)
	}

	return products, totalCount, nil
}
