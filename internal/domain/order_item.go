package domain

// OrderItem is a line item in an order. ProductName and Price are snapshots
// taken at placement time and stay fixed if the catalog changes later.
type OrderItem struct {
	ID          string `json:"id"`
	OrderID     string `json:"order_id"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Price       int64  `json:"price"`
	Quantity    int    `json:"quantity"`
	Subtotal    int64  `json:"subtotal"`
}

// LineTotal returns the snapshot price multiplied by the quantity.
func (i *OrderItem) LineTotal() int64 {
	return i.Price * int64(i.Quantity)
}
