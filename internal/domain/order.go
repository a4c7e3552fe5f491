package domain

import "github.com/shopspring/decimal"

const (
	OrderPending   = "pending"
	OrderCompleted = "completed"
	OrderCancelled = "cancelled"
)

// ValidOrderStatus reports whether s is one of the canonical order statuses.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderPending, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

// CartItem holds a price snapshot taken when the product was first added.
type CartItem struct {
	ID          string          `db:"id" json:"id"`
	UserID      string          `db:"user_id" json:"userId"`
	ProductID   string          `db:"product_id" json:"productId"`
	Quantity    int             `db:"quantity" json:"quantity"`
	PriceAtTime decimal.Decimal `db:"price_at_time" json:"priceAtTime"`
	CreatedAt   string          `db:"created_at" json:"createdAt"`
	UpdatedAt   string          `db:"updated_at" json:"updatedAt"`

	Product *ProductRef `db:"-" json:"product,omitempty"`
}

// Subtotal is PriceAtTime × Quantity.
func (ci CartItem) Subtotal() decimal.Decimal {
	return ci.PriceAtTime.Mul(decimal.NewFromInt(int64(ci.Quantity)))
}

type Order struct {
	ID         string          `db:"id" json:"id"`
	UserID     string          `db:"user_id" json:"userId"`
	TotalPrice decimal.Decimal `db:"total_price" json:"totalPrice"`
	Status     string          `db:"status" json:"status"`
	CreatedAt  string          `db:"created_at" json:"createdAt"`

	Items []OrderItem `db:"-" json:"orderItems,omitempty"`
}

type OrderItem struct {
	ID          string          `db:"id" json:"id"`
	OrderID     string          `db:"order_id" json:"orderId"`
	ProductID   string          `db:"product_id" json:"productId"`
	Quantity    int             `db:"quantity" json:"quantity"`
	PriceAtTime decimal.Decimal `db:"price_at_time" json:"priceAtTime"`

	Product *ProductRef `db:"-" json:"product,omitempty"`
}

// Total sums PriceAtTime × Quantity over items.
func Total(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total
}
