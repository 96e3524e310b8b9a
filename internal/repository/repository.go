package repository

import (
	"context"

	"github.com/TimohaSheff/uch-pract-parfum/internal/domain"
)

// ProductFilter defines filter criteria for listing catalog products.
type ProductFilter struct {
	BrandID       *string
	CategoryID    *string
	Gender        *string
	Concentration *string
	MinPrice      *int64
	MaxPrice      *int64
	InStock       *bool
	Query         string
	SortBy        string
	Page          int
	PerPage       int
}

// OrderFilter defines filter criteria for listing orders.
type OrderFilter struct {
	UserID  *string
	Status  *string
	Page    int
	PerPage int
}

// UserRepository defines the interface for user persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByLogin(ctx context.Context, login string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

// BrandRepository defines the interface for brand persistence operations.
type BrandRepository interface {
	Create(ctx context.Context, brand *domain.Brand) error
	GetByID(ctx context.Context, id string) (*domain.Brand, error)
	List(ctx context.Context) ([]domain.Brand, error)
}

// CategoryRepository defines the interface for category persistence operations.
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
}

// ProductRepository defines the interface for product persistence operations.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, int, error)
}

// CartRepository defines the interface for cart persistence operations.
// Item-level mutations are scoped by user ID so one user can never touch
// another user's cart lines.
type CartRepository interface {
	// GetOrCreate returns the user's cart with its items, creating an empty
	// cart row on first use.
	GetOrCreate(ctx context.Context, userID string) (*domain.Cart, error)

	// AddItem inserts a line for the product or atomically increments its
	// quantity by one when the line already exists.
	AddItem(ctx context.Context, userID, productID string) error

	// UpdateItemQuantity sets the quantity of a cart line owned by the user.
	UpdateItemQuantity(ctx context.Context, userID, itemID string, quantity int) error

	// RemoveItem deletes a cart line owned by the user.
	RemoveItem(ctx context.Context, userID, itemID string) error
}

// OrderRepository defines the interface for order persistence operations.
type OrderRepository interface {
	// Create atomically assigns the next order number for the day, inserts
	// the order with its item snapshots, and clears the user's cart. On
	// success the order's Number field is populated.
	Create(ctx context.Context, order *domain.Order) error

	// GetByID retrieves an order by its unique identifier, including items.
	GetByID(ctx context.Context, id string) (*domain.Order, error)

	// List returns orders matching the given filter along with the total count.
	List(ctx context.Context, filter OrderFilter) ([]domain.Order, int, error)

	// UpdateStatus changes the status of an order.
	UpdateStatus(ctx context.Context, id string, status string) error

	// Delete removes an order and its items.
	Delete(ctx context.Context, id string) error
}

// ReviewRepository defines the interface for review persistence operations.
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	ListByProduct(ctx context.Context, productID string) ([]domain.Review, error)
}

// WishlistRepository defines the interface for wishlist persistence operations.
type WishlistRepository interface {
	Add(ctx context.Context, userID, productID string) error
	Remove(ctx context.Context, userID, productID string) error
	ListByUser(ctx context.Context, userID string) ([]domain.WishlistItem, error)
}
