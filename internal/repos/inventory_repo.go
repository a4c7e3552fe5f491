package repos

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// InventoryRepo owns every stock mutation on products.
type InventoryRepo struct{ db sqlx.ExtContext }

func NewInventoryRepo(db sqlx.ExtContext) *InventoryRepo { return &InventoryRepo{db: db} }

// Qty returns current stock for a product, ErrNotFound if it does not exist.
func (r *InventoryRepo) Qty(ctx context.Context, productID string) (int, error) {
	var qty int
	if err := get(ctx, r.db, &qty, `SELECT stock FROM products WHERE id = ?`, productID); err != nil {
		return 0, err
	}
	return qty, nil
}

// Decrement atomically subtracts "by" units if enough stock exists. The
// check and the write are one statement, so concurrent callers cannot both
// take the last units.
func (r *InventoryRepo) Decrement(ctx context.Context, productID string, by int) error {
	res, err := exec(ctx, r.db, `
		UPDATE products
		SET stock = stock - ?, updated_at = ?
		WHERE id = ? AND stock >= ?
	`, by, now(), productID, by)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w for %s (need %d)", ErrInsufficientStock, productID, by)
	}
	return nil
}

// SetQty overwrites stock for a product (admin adjustment).
func (r *InventoryRepo) SetQty(ctx context.Context, productID string, qty int) error {
	res, err := exec(ctx, r.db, `UPDATE products SET stock = ?, updated_at = ? WHERE id = ?`, qty, now(), productID)
	if err != nil {
		return err
	}
	return mustAffect(res)
}
