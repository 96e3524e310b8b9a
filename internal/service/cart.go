package service

import (
	"context"
	"fmt"
	"log/slog"

	apperrors "github.com/TimohaSheff/uch-pract-parfum/pkg/errors"

	"github.com/TimohaSheff/uch-pract-parfum/internal/domain"
	"github.com/TimohaSheff/uch-pract-parfum/internal/event"
	"github.com/TimohaSheff/uch-pract-parfum/internal/repository"
)

// CartService implements the business logic for cart operations.
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	producer    *event.Producer
	logger      *slog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	producer *event.Producer,
	logger *slog.Logger,
) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		producer:    producer,
		logger:      logger,
	}
}

// GetCart returns the user's cart, creating one on first use.
func (s *CartService) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return cart, nil
}

// AddItem puts one unit of the product into the cart, incrementing the
// existing line when the product is already there. Out-of-stock products
// are rejected.
func (s *CartService) AddItem(ctx context.Context, userID, productID string) (*domain.Cart, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("get product for cart add: %w", err)
	}

	if !product.InStock {
		return nil, apperrors.ProductUnavailable(product.Name)
	}

	// Ensure the cart row exists before the upsert targets it.
	if _, err := s.cartRepo.GetOrCreate(ctx, userID); err != nil {
		return nil, fmt.Errorf("ensure cart: %w", err)
	}

	if err := s.cartRepo.AddItem(ctx, userID, productID); err != nil {
		return nil, fmt.Errorf("add cart item: %w", err)
	}

	cart, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("reload cart: %w", err)
	}

	s.publishCartUpdated(ctx, cart)

	s.logger.InfoContext(ctx, "cart item added",
		slog.String("user_id", userID),
		slog.String("product_id", productID),
	)

	return cart, nil
}

// UpdateItemQuantity sets the quantity of a cart line within the allowed
// bounds.
func (s *CartService) UpdateItemQuantity(ctx context.Context, userID, itemID string, quantity int) (*domain.Cart, error) {
	if !domain.IsValidQuantity(quantity) {
		return nil, apperrors.InvalidQuantity(domain.MinCartQuantity, domain.MaxCartQuantity)
	}

	if err := s.cartRepo.UpdateItemQuantity(ctx, userID, itemID, quantity); err != nil {
		return nil, fmt.Errorf("update cart item quantity: %w", err)
	}

	cart, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("reload cart: %w", err)
	}

	s.publishCartUpdated(ctx, cart)

	s.logger.InfoContext(ctx, "cart item quantity updated",
		slog.String("user_id", userID),
		slog.String("item_id", itemID),
		slog.Int("quantity", quantity),
	)

	return cart, nil
}

// RemoveItem deletes a cart line owned by the user.
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID string) (*domain.Cart, error) {
	if err := s.cartRepo.RemoveItem(ctx, userID, itemID); err != nil {
		return nil, fmt.Errorf("remove cart item: %w", err)
	}

	cart, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("reload cart: %w", err)
	}

	s.publishCartUpdated(ctx, cart)

	s.logger.InfoContext(ctx, "cart item removed",
		slog.String("user_id", userID),
		slog.String("item_id", itemID),
	)

	return cart, nil
}

func (s *CartService) publishCartUpdated(ctx context.Context, cart *domain.Cart) {
	if err := s.producer.PublishCartUpdated(ctx, cart); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.updated event",
			slog.String("cart_id", cart.ID),
			slog.String("error", err.Error()),
		)
	}
}
