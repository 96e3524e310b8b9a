package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/TimohaSheff/uch-pract-parfum/internal/domain"
	"github.com/TimohaSheff/uch-pract-parfum/pkg/database"
	apperrors "github.com/TimohaSheff/uch-pract-parfum/pkg/errors"
)

// CartRepository implements repository.CartRepository using PostgreSQL.
type CartRepository struct {
	pool database.DBTX
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool database.DBTX) *CartRepository {
	return &CartRepository{pool: pool}
}

// GetOrCreate returns the user's cart with its items, creating an empty cart
// row on first use.
func (r *CartRepository) GetOrCreate(ctx context.Context, userID string) (*domain.Cart, error) {
	now := time.Now().UTC()

	insertQuery := `
		INSERT INTO carts (id, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (user_id) DO NOTHING`

	if _, err := r.pool.Exec(ctx, insertQuery, uuid.New().String(), userID, now); err != nil {
		return nil, fmt.Errorf("ensure cart exists: %w", err)
	}

	var cart domain.Cart
	cartQuery := `SELECT id, user_id, created_at, updated_at FROM carts WHERE user_id = $1`
	err := r.pool.QueryRow(ctx, cartQuery, userID).Scan(
		&cart.ID, &cart.UserID, &cart.CreatedAt, &cart.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}

	items, err := r.loadItems(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	cart.Items = items

	return &cart, nil
}

// loadItems fetches the cart lines joined with their current product rows.
// Lines whose product has been removed keep a nil Product reference.
func (r *CartRepository) loadItems(ctx context.Context, cartID string) ([]domain.CartItem, error) {
	query := `
		SELECT ci.id, ci.cart_id, ci.product_id, ci.quantity, ci.added_at,
			   p.id, p.name, p.slug, p.brand_id, p.gender, p.concentration,
			   p.volume_ml, p.price, p.discount_percent, p.in_stock, p.image_url
		FROM cart_items ci
		LEFT JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY ci.added_at`

	rows, err := r.pool.Query(ctx, query, cartID)
	if err != nil {
		return nil, fmt.Errorf("query cart items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.CartItem, 0)
	for rows.Next() {
		var (
			item            domain.CartItem
			productID       *string
			name, slug      *string
			brandID         *string
			gender, conc    *string
			volumeML        *int
			price           *int64
			discountPercent *int
			inStock         *bool
			imageURL        *string
		)

		if err := rows.Scan(
			&item.ID, &item.CartID, &item.ProductID, &item.Quantity, &item.AddedAt,
			&productID, &name, &slug, &brandID, &gender, &conc,
			&volumeML, &price, &discountPercent, &inStock, &imageURL,
		); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}

		if productID != nil {
			item.Product = &domain.Product{
				ID:              *productID,
				Name:            *name,
				Slug:            *slug,
				BrandID:         *brandID,
				Gender:          *gender,
				Concentration:   *conc,
				VolumeML:        *volumeML,
				Price:           *price,
				DiscountPercent: *discountPercent,
				InStock:         *inStock,
			}
			if imageURL != nil {
				item.Product.ImageURL = *imageURL
			}
		}

		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cart item rows: %w", err)
	}

	return items, nil
}

// AddItem inserts a line for the product or atomically increments its
// quantity by one when the line already exists. The increment happens in a
// single statement so concurrent adds for the same product serialize on the
// row instead of losing updates.
func (r *CartRepository) AddItem(ctx context.Context, userID, productID string) error {
	now := time.Now().UTC()

	query := `
		WITH c AS (
			UPDATE carts SET updated_at = $4 WHERE user_id = $3 RETURNING id
		)
		INSERT INTO cart_items (id, cart_id, product_id, quantity, added_at)
		SELECT $1, c.id, $2, 1, $4 FROM c
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + 1`

	ct, err := r.pool.Exec(ctx, query, uuid.New().String(), productID, userID, now)
	if err != nil {
		return fmt.Errorf("add cart item: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("cart", userID)
	}

	return nil
}

// UpdateItemQuantity sets the quantity of a cart line. The join against carts
// scopes the update to the calling user, so a foreign item id reads as absent.
func (r *CartRepository) UpdateItemQuantity(ctx context.Context, userID, itemID string, quantity int) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()

	updateQuery := `
		UPDATE cart_items ci SET quantity = $1
		FROM carts c
		WHERE ci.id = $2 AND ci.cart_id = c.id AND c.user_id = $3`

	ct, err := tx.Exec(ctx, updateQuery, quantity, itemID, userID)
	if err != nil {
		return fmt.Errorf("update cart item quantity: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("cart item", itemID)
	}

	if _, err := tx.Exec(ctx, `UPDATE carts SET updated_at = $1 WHERE user_id = $2`, now, userID); err != nil {
		return fmt.Errorf("touch cart: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// RemoveItem deletes a cart line owned by the user.
func (r *CartRepository) RemoveItem(ctx context.Context, userID, itemID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()

	deleteQuery := `
		DELETE FROM cart_items ci
		USING carts c
		WHERE ci.id = $1 AND ci.cart_id = c.id AND c.user_id = $2`

	ct, err := tx.Exec(ctx, deleteQuery, itemID, userID)
	if err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("cart item", itemID)
	}

	if _, err := tx.Exec(ctx, `UPDATE carts SET updated_at = $1 WHERE user_id = $2`, now, userID); err != nil {
		return fmt.Errorf("touch cart: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}
