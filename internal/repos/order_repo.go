package repos

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"shopapi/internal/domain"
)

type OrderRepo struct{ db sqlx.ExtContext }

func NewOrderRepo(db sqlx.ExtContext) *OrderRepo { return &OrderRepo{db: db} }

const orderCols = `id, user_id, total_price, status, created_at`

// Create inserts a new order header.
func (r *OrderRepo) Create(ctx context.Context, o *domain.Order) error {
	if !domain.ValidOrderStatus(o.Status) {
		return fmt.Errorf("order %s: unknown status %q", o.ID, o.Status)
	}
	if o.CreatedAt == "" {
		o.CreatedAt = now()
	}
	_, err := exec(ctx, r.db, `
		INSERT INTO orders(id, user_id, total_price, status, created_at)
		VALUES(?, ?, ?, ?, ?)
	`, o.ID, o.UserID, o.TotalPrice, o.Status, o.CreatedAt)
	return err
}

// InsertItem inserts a single line item.
func (r *OrderRepo) InsertItem(ctx context.Context, it *domain.OrderItem) error {
	_, err := exec(ctx, r.db, `
		INSERT INTO order_items(id, order_id, product_id, quantity, price_at_time)
		VALUES(?, ?, ?, ?, ?)
	`, it.ID, it.OrderID, it.ProductID, it.Quantity, it.PriceAtTime)
	return err
}

// Get returns one order with its line items.
func (r *OrderRepo) Get(ctx context.Context, id string) (domain.Order, error) {
	var o domain.Order
	if err := get(ctx, r.db, &o, `SELECT `+orderCols+` FROM orders WHERE id = ?`, id); err != nil {
		return domain.Order{}, err
	}
	orders := []domain.Order{o}
	if err := r.attachItems(ctx, orders); err != nil {
		return domain.Order{}, err
	}
	return orders[0], nil
}

// ListByUser returns a user's orders newest first, items nested.
func (r *OrderRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	out := []domain.Order{}
	if err := sel(ctx, r.db, &out, `
		SELECT `+orderCols+`
		FROM orders
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
	`, userID); err != nil {
		return nil, err
	}
	if err := r.attachItems(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListLatest returns the most recent orders across all users (admin view).
func (r *OrderRepo) ListLatest(ctx context.Context, limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 100
	}
	out := []domain.Order{}
	err := sel(ctx, r.db, &out, `
		SELECT `+orderCols+`
		FROM orders
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	return out, err
}

type orderItemRow struct {
	domain.OrderItem
	ProductName  string `db:"product_name"`
	ProductImage string `db:"product_image"`
}

func (r *OrderRepo) attachItems(ctx context.Context, orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]string, 0, len(orders))
	idx := make(map[string]int, len(orders))
	for i, o := range orders {
		ids = append(ids, o.ID)
		idx[o.ID] = i
	}
	q, args, err := in(r.db, `
		SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.price_at_time,
		       p.name AS product_name, p.image_url AS product_image
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id IN (?)
		ORDER BY oi.product_id
	`, ids)
	if err != nil {
		return err
	}
	var rows []orderItemRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, q, args...); err != nil {
		return classify(err)
	}
	for _, row := range rows {
		it := row.OrderItem
		it.Product = &domain.ProductRef{ID: it.ProductID, Name: row.ProductName, ImageURL: row.ProductImage}
		i := idx[it.OrderID]
		orders[i].Items = append(orders[i].Items, it)
	}
	return nil
}
