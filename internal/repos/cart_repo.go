package repos

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"shopapi/internal/domain"
)

type CartRepo struct{ db sqlx.ExtContext }

func NewCartRepo(db sqlx.ExtContext) *CartRepo { return &CartRepo{db: db} }

const cartCols = `id, user_id, product_id, quantity, price_at_time, created_at, updated_at`

// UpsertItem adds qty of a product to the user's cart. The price snapshot is
// only written on first insert; later adds just grow the quantity.
func (r *CartRepo) UpsertItem(ctx context.Context, userID, productID string, qty int, price decimal.Decimal) (domain.CartItem, error) {
	ts := now()
	if _, err := exec(ctx, r.db, `
		INSERT INTO cart_items(id,user_id,product_id,quantity,price_at_time,created_at,updated_at)
		VALUES(?,?,?,?,?,?,?)
		ON CONFLICT(user_id,product_id) DO UPDATE
		SET quantity = cart_items.quantity + excluded.quantity, updated_at = excluded.updated_at
	`, uuid.NewString(), userID, productID, qty, price, ts, ts); err != nil {
		return domain.CartItem{}, err
	}
	var it domain.CartItem
	err := get(ctx, r.db, &it, `SELECT `+cartCols+` FROM cart_items WHERE user_id = ? AND product_id = ?`, userID, productID)
	return it, err
}

// Items returns the user's cart rows ordered by product id.
func (r *CartRepo) Items(ctx context.Context, userID string) ([]domain.CartItem, error) {
	out := []domain.CartItem{}
	err := sel(ctx, r.db, &out, `SELECT `+cartCols+` FROM cart_items WHERE user_id = ? ORDER BY product_id`, userID)
	return out, err
}

type cartViewRow struct {
	domain.CartItem
	ProductName  string          `db:"product_name"`
	ProductPrice decimal.Decimal `db:"product_price"`
	ProductImage string          `db:"product_image"`
}

// View joins the user's cart rows with display fields of their products.
func (r *CartRepo) View(ctx context.Context, userID string) ([]domain.CartItem, error) {
	var rows []cartViewRow
	if err := sel(ctx, r.db, &rows, `
		SELECT ci.id, ci.user_id, ci.product_id, ci.quantity, ci.price_at_time, ci.created_at, ci.updated_at,
		       p.name AS product_name, p.price AS product_price, p.image_url AS product_image
		FROM cart_items ci JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = ?
		ORDER BY ci.created_at, ci.id
	`, userID); err != nil {
		return nil, err
	}
	out := make([]domain.CartItem, 0, len(rows))
	for _, row := range rows {
		it := row.CartItem
		price := row.ProductPrice
		it.Product = &domain.ProductRef{ID: it.ProductID, Name: row.ProductName, Price: &price, ImageURL: row.ProductImage}
		out = append(out, it)
	}
	return out, nil
}

// Remove deletes one cart row owned by userID.
func (r *CartRepo) Remove(ctx context.Context, userID, itemID string) error {
	res, err := exec(ctx, r.db, `DELETE FROM cart_items WHERE id = ? AND user_id = ?`, itemID, userID)
	if err != nil {
		return err
	}
	return mustAffect(res)
}

// DeleteItems deletes the listed rows of the user's cart and reports how many
// were actually removed.
func (r *CartRepo) DeleteItems(ctx context.Context, userID string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	q, args, err := in(r.db, `DELETE FROM cart_items WHERE user_id = ? AND id IN (?)`, userID, ids)
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, classify(err)
	}
	return res.RowsAffected()
}
