package repos

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"shopapi/internal/domain"
)

type ProductRepo struct{ db sqlx.ExtContext }

func NewProductRepo(db sqlx.ExtContext) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `p.id, p.category_id, p.name, p.description, p.price, p.stock, p.image_url, p.created_at, p.updated_at`

type productRow struct {
	domain.Product
	CategoryName string `db:"category_name"`
}

func (row productRow) withCategory() domain.Product {
	p := row.Product
	p.Category = &domain.CategoryRef{ID: p.CategoryID, Name: row.CategoryName}
	return p
}

// ProductFilter maps listing query parameters onto a WHERE clause. Zero
// values mean "no constraint".
type ProductFilter struct {
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	CategoryID string
	Search     string
	Limit      int
	Offset     int
}

func (r *ProductRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	var p domain.Product
	err := get(ctx, r.db, &p, `SELECT `+productCols+` FROM products p WHERE p.id = ?`, id)
	return p, err
}

func (r *ProductRepo) Create(ctx context.Context, p *domain.Product) error {
	p.CreatedAt = now()
	_, err := exec(ctx, r.db, `
		INSERT INTO products(id,category_id,name,description,price,stock,image_url,created_at)
		VALUES(?,?,?,?,?,?,?,?)
	`, p.ID, p.CategoryID, p.Name, p.Description, p.Price, p.Stock, p.ImageURL, p.CreatedAt)
	return err
}

// Update writes the descriptive columns of p. Stock is left alone; it only
// changes through InventoryRepo.
func (r *ProductRepo) Update(ctx context.Context, p *domain.Product) error {
	p.UpdatedAt = now()
	res, err := exec(ctx, r.db, `
		UPDATE products
		SET category_id = ?, name = ?, description = ?, price = ?, image_url = ?, updated_at = ?
		WHERE id = ?
	`, p.CategoryID, p.Name, p.Description, p.Price, p.ImageURL, p.UpdatedAt, p.ID)
	if err != nil {
		return err
	}
	return mustAffect(res)
}

func (r *ProductRepo) AssignCategory(ctx context.Context, productID, categoryID string) error {
	res, err := exec(ctx, r.db, `UPDATE products SET category_id = ?, updated_at = ? WHERE id = ?`,
		categoryID, now(), productID)
	if err != nil {
		return err
	}
	return mustAffect(res)
}

// Delete removes a product and any cart lines holding it. Products that
// appear in order history are kept (ErrInUse). Run it inside a unit of work.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	var n int
	if err := get(ctx, r.db, &n, `SELECT COUNT(*) FROM order_items WHERE product_id = ?`, id); err != nil {
		return err
	}
	if n > 0 {
		return ErrInUse
	}
	if _, err := exec(ctx, r.db, `DELETE FROM cart_items WHERE product_id = ?`, id); err != nil {
		return err
	}
	res, err := exec(ctx, r.db, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return mustAffect(res)
}

// ListAll returns every product with its category, newest first.
func (r *ProductRepo) ListAll(ctx context.Context) ([]domain.Product, error) {
	var rows []productRow
	if err := sel(ctx, r.db, &rows, `
		SELECT `+productCols+`, c.name AS category_name
		FROM products p JOIN categories c ON c.id = p.category_id
		ORDER BY p.created_at DESC, p.id
	`); err != nil {
		return nil, err
	}
	return flatten(rows), nil
}

func (r *ProductRepo) Filter(ctx context.Context, f ProductFilter) ([]domain.Product, error) {
	where := []string{"1=1"}
	args := []any{}
	if f.MinPrice != nil {
		where = append(where, "p.price >= ?")
		args = append(args, *f.MinPrice)
	}
	if f.MaxPrice != nil {
		where = append(where, "p.price <= ?")
		args = append(args, *f.MaxPrice)
	}
	if f.CategoryID != "" {
		where = append(where, "p.category_id = ?")
		args = append(args, f.CategoryID)
	}
	if f.Search != "" {
		where = append(where, `LOWER(p.name) LIKE ? ESCAPE '\'`)
		args = append(args, "%"+likeEscaper.Replace(strings.ToLower(f.Search))+"%")
	}
	if f.Limit <= 0 {
		f.Limit = 10
	}
	args = append(args, f.Limit, f.Offset)

	var rows []productRow
	if err := sel(ctx, r.db, &rows, `
		SELECT `+productCols+`, c.name AS category_name
		FROM products p JOIN categories c ON c.id = p.category_id
		WHERE `+strings.Join(where, " AND ")+`
		ORDER BY p.created_at DESC, p.id
		LIMIT ? OFFSET ?`, args...); err != nil {
		return nil, err
	}
	return flatten(rows), nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func flatten(rows []productRow) []domain.Product {
	out := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.withCategory())
	}
	return out
}
