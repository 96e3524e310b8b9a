package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/TimohaSheff/uch-pract-parfum/pkg/errors"

	"github.com/TimohaSheff/uch-pract-parfum/internal/domain"
	"github.com/TimohaSheff/uch-pract-parfum/internal/event"
	"github.com/TimohaSheff/uch-pract-parfum/internal/repository"
)

// OrderService implements the business logic for the order workflow.
type OrderService struct {
	orderRepo repository.OrderRepository
	cartRepo  repository.CartRepository
	userRepo  repository.UserRepository
	producer  *event.Producer
	logger    *slog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	userRepo repository.UserRepository,
	producer *event.Producer,
	logger *slog.Logger,
) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		userRepo:  userRepo,
		producer:  producer,
		logger:    logger,
	}
}

// PlaceOrderInput holds the parameters for placing an order from the cart.
type PlaceOrderInput struct {
	UserID          string
	Password        string
	PaymentMethod   string
	DeliveryAddress string
	DeliveryPhone   string
	DeliveryEmail   string
	Comment         string
}

// PlaceOrder converts the user's cart into an order. The caller re-confirms
// their password; the cart must be non-empty and every product in it must be
// in stock. Item prices are snapshotted at the current discounted price, so
// later catalog changes never affect the placed order. On any failure the
// cart is left untouched.
func (s *OrderService) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*domain.Order, error) {
	user, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, apperrors.AuthenticationFailed()
	}
	if !user.IsActive {
		return nil, apperrors.AuthenticationFailed()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, apperrors.AuthenticationFailed()
	}

	if !domain.IsValidPaymentMethod(input.PaymentMethod) {
		return nil, apperrors.InvalidInput("payment_method must be card or cash")
	}
	if strings.TrimSpace(input.DeliveryAddress) == "" {
		return nil, apperrors.InvalidInput("delivery address is required")
	}

	cart, err := s.cartRepo.GetOrCreate(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("get cart for placement: %w", err)
	}
	if cart.IsEmpty() {
		return nil, apperrors.EmptyCart()
	}

	for i := range cart.Items {
		item := &cart.Items[i]
		if item.Product == nil {
			continue
		}
		if !item.Product.InStock {
			return nil, apperrors.ProductUnavailable(item.Product.Name)
		}
	}

	// Delivery contacts fall back to the profile when not given.
	phone := input.DeliveryPhone
	if phone == "" {
		phone = user.Phone
	}
	email := input.DeliveryEmail
	if email == "" {
		email = user.Email
	}

	now := time.Now().UTC()
	orderID := uuid.New().String()

	items := make([]domain.OrderItem, 0, len(cart.Items))
	for i := range cart.Items {
		item := &cart.Items[i]
		if item.Product == nil {
			continue
		}
		price := item.Product.DiscountedPrice()
		items = append(items, domain.OrderItem{
			ID:          uuid.New().String(),
			OrderID:     orderID,
			ProductID:   item.ProductID,
			ProductName: item.Product.Name,
			Price:       price,
			Quantity:    item.Quantity,
			Subtotal:    price * int64(item.Quantity),
		})
	}

	order := &domain.Order{
		ID:              orderID,
		UserID:          input.UserID,
		Status:          domain.OrderStatusPending,
		Items:           items,
		TotalAmount:     cart.Total(),
		PaymentMethod:   input.PaymentMethod,
		DeliveryAddress: strings.TrimSpace(input.DeliveryAddress),
		DeliveryPhone:   phone,
		DeliveryEmail:   email,
		Comment:         input.Comment,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	if err := s.producer.PublishOrderPlaced(ctx, order); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.placed event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
		// Do not fail the operation if event publishing fails.
	}

	s.logger.InfoContext(ctx, "order placed",
		slog.String("order_id", order.ID),
		slog.String("number", order.Number),
		slog.String("user_id", order.UserID),
		slog.Int64("total_amount", order.TotalAmount),
	)

	return order, nil
}

// GetOrder retrieves an order owned by the given user. Another user's order
// reads as absent.
func (s *OrderService) GetOrder(ctx context.Context, userID, id string) (*domain.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order by id: %w", err)
	}
	if order.UserID != userID {
		return nil, apperrors.NotFound("order", id)
	}
	return order, nil
}

// ListOrders returns the user's orders, newest first.
func (s *OrderService) ListOrders(ctx context.Context, userID string, filter repository.OrderFilter) ([]domain.Order, int, error) {
	filter.UserID = &userID
	return s.list(ctx, filter)
}

// ListAllOrders returns orders across all users. Admin only.
func (s *OrderService) ListAllOrders(ctx context.Context, filter repository.OrderFilter) ([]domain.Order, int, error) {
	return s.list(ctx, filter)
}

func (s *OrderService) list(ctx context.Context, filter repository.OrderFilter) ([]domain.Order, int, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 {
		filter.PerPage = 20
	}
	if filter.PerPage > 100 {
		filter.PerPage = 100
	}

	orders, total, err := s.orderRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}

	return orders, total, nil
}

// CancelOrder cancels the user's order while it is still pending or confirmed.
func (s *OrderService) CancelOrder(ctx context.Context, userID, id string) (*domain.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order for cancel: %w", err)
	}
	if order.UserID != userID {
		return nil, apperrors.NotFound("order", id)
	}

	if !order.CanCancel() {
		return nil, apperrors.InvalidTransition(order.Status, domain.OrderStatusCancelled)
	}

	if err := s.orderRepo.UpdateStatus(ctx, id, domain.OrderStatusCancelled); err != nil {
		return nil, fmt.Errorf("cancel order: %w", err)
	}

	order.Status = domain.OrderStatusCancelled
	order.UpdatedAt = time.Now().UTC()

	if err := s.producer.PublishOrderCancelled(ctx, order); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.cancelled event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order cancelled",
		slog.String("order_id", order.ID),
		slog.String("number", order.Number),
	)

	return order, nil
}

// DeleteOrder removes the user's order entirely. Only pending orders can be
// deleted.
func (s *OrderService) DeleteOrder(ctx context.Context, userID, id string) error {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get order for delete: %w", err)
	}
	if order.UserID != userID {
		return apperrors.NotFound("order", id)
	}

	if !order.CanDelete() {
		return apperrors.InvalidTransition(order.Status, "deleted")
	}

	if err := s.orderRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}

	s.logger.InfoContext(ctx, "order deleted",
		slog.String("order_id", id),
		slog.String("number", order.Number),
	)

	return nil
}

// UpdateStatus transitions an order to a new status with validation.
// Admin only.
func (s *OrderService) UpdateStatus(ctx context.Context, id, newStatus string) (*domain.Order, error) {
	if !domain.IsValidStatus(newStatus) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid status %q, must be one of: %s", newStatus, strings.Join(domain.ValidStatuses(), ", ")))
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order for status update: %w", err)
	}

	if !order.CanTransitionTo(newStatus) {
		return nil, apperrors.InvalidTransition(order.Status, newStatus)
	}

	oldStatus := order.Status

	if err := s.orderRepo.UpdateStatus(ctx, id, newStatus); err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}

	order.Status = newStatus
	order.UpdatedAt = time.Now().UTC()

	if err := s.producer.PublishOrderStatusChanged(ctx, order, oldStatus); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.status_changed event",
			slog.String("order_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order status updated",
		slog.String("order_id", id),
		slog.String("old_status", oldStatus),
		slog.String("new_status", newStatus),
	)

	return order, nil
}
