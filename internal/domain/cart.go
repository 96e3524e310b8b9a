package domain

import (
	"encoding/json"
	"time"
)

// Cart item quantity bounds.
const (
	MinCartQuantity = 1
	MaxCartQuantity = 100
)

// Cart represents a user's shopping cart. Each user has at most one cart,
// created lazily on first use.
type Cart struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Items     []CartItem `json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CartItem is one product line in a cart. Product carries the current
// catalog row; line prices always reflect the live discounted price, not
// a snapshot.
type CartItem struct {
	ID        string    `json:"id"`
	CartID    string    `json:"cart_id"`
	ProductID string    `json:"product_id"`
	Product   *Product  `json:"product,omitempty"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"added_at"`
}

// LineTotal returns the discounted price of the product multiplied by the
// quantity. Items whose product reference is missing contribute zero.
func (i *CartItem) LineTotal() int64 {
	if i.Product == nil {
		return 0
	}
	return i.Product.DiscountedPrice() * int64(i.Quantity)
}

// Total sums the line totals of all items. Lines with a missing product
// reference are skipped.
func (c *Cart) Total() int64 {
	var total int64
	for i := range c.Items {
		total += c.Items[i].LineTotal()
	}
	return total
}

// TotalQuantity returns the total number of units across all lines.
func (c *Cart) TotalQuantity() int {
	var n int
	for i := range c.Items {
		n += c.Items[i].Quantity
	}
	return n
}

// IsEmpty reports whether the cart has no items.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// MarshalJSON serializes the item with its computed line total.
func (i CartItem) MarshalJSON() ([]byte, error) {
	type cartItem CartItem
	return json.Marshal(struct {
		cartItem
		LineTotal int64 `json:"line_total"`
	}{cartItem(i), i.LineTotal()})
}

// MarshalJSON serializes the cart with its computed totals.
func (c Cart) MarshalJSON() ([]byte, error) {
	type cart Cart
	return json.Marshal(struct {
		cart
		TotalQuantity int   `json:"total_quantity"`
		Total         int64 `json:"total"`
	}{cart(c), c.TotalQuantity(), c.Total()})
}

// IsValidQuantity checks that a quantity is within the allowed range.
func IsValidQuantity(q int) bool {
	return q >= MinCartQuantity && q <= MaxCartQuantity
}
