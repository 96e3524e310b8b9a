package domain

import (
	"fmt"
	"time"
)

// Order status constants.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// Payment method constants.
const (
	PaymentMethodCard = "card"
	PaymentMethodCash = "cash"
)

// statusLabels maps order statuses to their storefront display labels.
var statusLabels = map[string]string{
	OrderStatusPending:   "Ожидает подтверждения",
	OrderStatusConfirmed: "Подтверждён",
	OrderStatusShipped:   "Передан в доставку",
	OrderStatusDelivered: "Доставлен",
	OrderStatusCancelled: "Отменён",
}

// Order represents a placed customer order. TotalAmount is the cart total
// captured at placement time, in minor currency units.
type Order struct {
	ID              string      `json:"id"`
	Number          string      `json:"number"`
	UserID          string      `json:"user_id"`
	Status          string      `json:"status"`
	Items           []OrderItem `json:"items"`
	TotalAmount     int64       `json:"total_amount"`
	PaymentMethod   string      `json:"payment_method"`
	DeliveryAddress string      `json:"delivery_address"`
	DeliveryPhone   string      `json:"delivery_phone,omitempty"`
	DeliveryEmail   string      `json:"delivery_email,omitempty"`
	Comment         string      `json:"comment,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// ValidStatuses returns all valid order statuses.
func ValidStatuses() []string {
	return []string{
		OrderStatusPending,
		OrderStatusConfirmed,
		OrderStatusShipped,
		OrderStatusDelivered,
		OrderStatusCancelled,
	}
}

// IsValidStatus checks if a status string is valid.
func IsValidStatus(status string) bool {
	_, ok := statusLabels[status]
	return ok
}

// IsValidPaymentMethod checks if a payment method string is valid.
func IsValidPaymentMethod(method string) bool {
	return method == PaymentMethodCard || method == PaymentMethodCash
}

// StatusLabel returns the display label for an order status, or the raw
// value when it is unknown.
func StatusLabel(status string) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return status
}

// AllowedTransitions defines which status transitions are valid.
// Delivered and cancelled are terminal.
func AllowedTransitions() map[string][]string {
	return map[string][]string{
		OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
		OrderStatusConfirmed: {OrderStatusShipped, OrderStatusCancelled},
		OrderStatusShipped:   {OrderStatusDelivered},
		OrderStatusDelivered: {},
		OrderStatusCancelled: {},
	}
}

// CanTransitionTo checks if the order can transition to the target status.
func (o *Order) CanTransitionTo(target string) bool {
	allowed, ok := AllowedTransitions()[o.Status]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == target {
			return true
		}
	}
	return false
}

// CanCancel reports whether the customer may still cancel the order.
func (o *Order) CanCancel() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusConfirmed
}

// CanDelete reports whether the customer may delete the order entirely.
func (o *Order) CanDelete() bool {
	return o.Status == OrderStatusPending
}

// FormatOrderNumber builds a human-readable order number of the form
// ORD-YYYYMMDD-NNNN, where seq is the 1-based position within the day.
func FormatOrderNumber(day time.Time, seq int) string {
	return fmt.Sprintf("ORD-%s-%04d", day.UTC().Format("20060102"), seq)
}

// OrderNumberDayPrefix returns the ORD-YYYYMMDD- prefix shared by all
// orders placed on the given day.
func OrderNumberDayPrefix(day time.Time) string {
	return fmt.Sprintf("ORD-%s-", day.UTC().Format("20060102"))
}
