package repos

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Store opens units of work over the shared database handle.
type Store struct{ db *sqlx.DB }

func NewStore(db *sqlx.DB) *Store { return &Store{db: db} }

// Tx exposes repositories bound to a single database transaction. It is only
// valid inside the InTx callback that produced it.
type Tx struct {
	Orders   *OrderRepo
	Carts    *CartRepo
	Stock    *InventoryRepo
	Products *ProductRepo
}

// InTx runs fn inside one transaction. The transaction commits only when fn
// returns nil; any error or panic rolls it back before InTx returns.
func (s *Store) InTx(ctx context.Context, fn func(tx *Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(&Tx{
		Orders:   NewOrderRepo(tx),
		Carts:    NewCartRepo(tx),
		Stock:    NewInventoryRepo(tx),
		Products: NewProductRepo(tx),
	}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	committed = true
	return nil
}
