package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"shopapi/internal/domain"
)

type CategoryRepo struct{ db sqlx.ExtContext }

func NewCategoryRepo(db sqlx.ExtContext) *CategoryRepo { return &CategoryRepo{db: db} }

const categoryCols = `id, name, description, created_at, updated_at`

func (r *CategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	out := []domain.Category{}
	err := sel(ctx, r.db, &out, `SELECT `+categoryCols+` FROM categories ORDER BY name`)
	return out, err
}

func (r *CategoryRepo) Get(ctx context.Context, id string) (domain.Category, error) {
	var c domain.Category
	err := get(ctx, r.db, &c, `SELECT `+categoryCols+` FROM categories WHERE id = ?`, id)
	return c, err
}

func (r *CategoryRepo) Create(ctx context.Context, c *domain.Category) error {
	c.CreatedAt = now()
	_, err := exec(ctx, r.db, `
		INSERT INTO categories(id,name,description,created_at) VALUES(?,?,?,?)
	`, c.ID, c.Name, c.Description, c.CreatedAt)
	return err
}

func (r *CategoryRepo) Update(ctx context.Context, c *domain.Category) error {
	c.UpdatedAt = now()
	res, err := exec(ctx, r.db, `
		UPDATE categories SET name = ?, description = ?, updated_at = ? WHERE id = ?
	`, c.Name, c.Description, c.UpdatedAt, c.ID)
	if err != nil {
		return err
	}
	return mustAffect(res)
}

// Delete refuses to remove a category that products still reference.
func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	var n int
	if err := get(ctx, r.db, &n, `SELECT COUNT(*) FROM products WHERE category_id = ?`, id); err != nil {
		return err
	}
	if n > 0 {
		return ErrInUse
	}
	res, err := exec(ctx, r.db, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return mustAffect(res)
}
