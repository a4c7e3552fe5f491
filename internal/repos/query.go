package repos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"shopapi/internal/domain"
)

// All statements are written with `?` placeholders and rebound for the
// active driver, so the same SQL runs on SQLite and PostgreSQL.

func get(ctx context.Context, q sqlx.ExtContext, dest any, query string, args ...any) error {
	return classify(sqlx.GetContext(ctx, q, dest, q.Rebind(query), args...))
}

func sel(ctx context.Context, q sqlx.ExtContext, dest any, query string, args ...any) error {
	return classify(sqlx.SelectContext(ctx, q, dest, q.Rebind(query), args...))
}

func exec(ctx context.Context, q sqlx.ExtContext, query string, args ...any) (sql.Result, error) {
	res, err := q.ExecContext(ctx, q.Rebind(query), args...)
	return res, classify(err)
}

// in expands a slice argument with sqlx.In and rebinds the result.
func in(q sqlx.ExtContext, query string, args ...any) (string, []any, error) {
	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return "", nil, err
	}
	return q.Rebind(query), args, nil
}

func now() string { return time.Now().UTC().Format(domain.TimeLayout) }

// mustAffect turns a zero-row UPDATE/DELETE into ErrNotFound.
func mustAffect(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
