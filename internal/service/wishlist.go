package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/TimohaSheff/uch-pract-parfum/internal/domain"
	"github.com/TimohaSheff/uch-pract-parfum/internal/repository"
)

// WishlistService implements the business logic for wishlists.
type WishlistService struct {
	wishlistRepo repository.WishlistRepository
	productRepo  repository.ProductRepository
	logger       *slog.Logger
}

// NewWishlistService creates a new wishlist service.
func NewWishlistService(
	wishlistRepo repository.WishlistRepository,
	productRepo repository.ProductRepository,
	logger *slog.Logger,
) *WishlistService {
	return &WishlistService{
		wishlistRepo: wishlistRepo,
		productRepo:  productRepo,
		logger:       logger,
	}
}

// AddProduct saves a product to the user's wishlist. Adding the same product
// twice is a no-op.
func (s *WishlistService) AddProduct(ctx context.Context, userID, productID string) error {
	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		return fmt.Errorf("get product for wishlist: %w", err)
	}

	if err := s.wishlistRepo.Add(ctx, userID, productID); err != nil {
		return fmt.Errorf("add wishlist item: %w", err)
	}

	s.logger.InfoContext(ctx, "wishlist item added",
		slog.String("user_id", userID),
		slog.String("product_id", productID),
	)

	return nil
}

// RemoveProduct deletes a product from the user's wishlist.
func (s *WishlistService) RemoveProduct(ctx context.Context, userID, productID string) error {
	if err := s.wishlistRepo.Remove(ctx, userID, productID); err != nil {
		return fmt.Errorf("remove wishlist item: %w", err)
	}

	s.logger.InfoContext(ctx, "wishlist item removed",
		slog.String("user_id", userID),
		slog.String("product_id", productID),
	)

	return nil
}

// ListProducts returns the user's wishlist with current product rows.
func (s *WishlistService) ListProducts(ctx context.Context, userID string) ([]domain.WishlistItem, error) {
	items, err := s.wishlistRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list wishlist items: %w", err)
	}
	return items, nil
}
