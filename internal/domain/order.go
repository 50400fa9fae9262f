package domain

import "time"

// Order is a placed order with its line items.
type Order struct {
	ID        string      `json:"id" db:"id"`
	UserID    string      `json:"userId" db:"user_id"`
	Total     float64     `json:"total" db:"total"`
	Status    string      `json:"status" db:"status"`
	CreatedAt time.Time   `json:"createdAt" db:"created_at"`
	Items     []OrderItem `json:"items"`
}

// OrderItem is one line of an order, with the product name and unit price
// captured at purchase time.
type OrderItem struct {
	ProductID string  `json:"productId" db:"product_id"`
	Name      string  `json:"name" db:"name"`
	Price     float64 `json:"price" db:"price"`
	Quantity  int     `json:"quantity" db:"quantity"`
}

// Order statuses.
const (
	OrderStatusPlaced = "placed"
)
