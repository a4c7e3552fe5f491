package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"shopapi/internal/domain"
)

type UserRepo struct{ db sqlx.ExtContext }

func NewUserRepo(db sqlx.ExtContext) *UserRepo { return &UserRepo{db: db} }

const userCols = `id, email, name, password_hash, role, created_at`

// Create inserts u. A taken email surfaces as ErrDuplicate.
func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	if u.CreatedAt == "" {
		u.CreatedAt = now()
	}
	_, err := exec(ctx, r.db, `
		INSERT INTO users(id,email,name,password_hash,role,created_at)
		VALUES(?,?,?,?,?,?)
	`, u.ID, u.Email, u.Name, u.Hash, u.Role, u.CreatedAt)
	return err
}

func (r *UserRepo) ByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	if err := get(ctx, r.db, &u, `SELECT `+userCols+` FROM users WHERE LOWER(email)=LOWER(?)`, email); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	if err := get(ctx, r.db, &u, `SELECT `+userCols+` FROM users WHERE id=?`, id); err != nil {
		return nil, err
	}
	return &u, nil
}
