package repos

import (
	"context"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	"shopapi/internal/domain"
	applog "shopapi/internal/log"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

// OpenDB connects and applies the schema. Call Seed afterwards for demo data.
func OpenDB(driver, dsn string) (*sqlx.DB, error) {
	if driver == "" {
		driver = DriverSQLite
	}
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == DriverSQLite {
		// One connection: ":memory:" databases are per-connection, and SQLite
		// serializes writers anyway.
		db.SetMaxOpenConns(1)
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}
	return db, nil
}

// Seed inserts demo categories/products (only into an empty catalog) and
// makes sure the demo users exist. Safe to run on every start.
func Seed(db *sqlx.DB) error {
	if err := seedIfEmpty(db); err != nil {
		return err
	}
	return seedUsers(db)
}

func ensureSchema(db *sqlx.DB) error {
	stmts := []string{}
	if db.DriverName() == DriverSQLite {
		stmts = append(stmts, `PRAGMA foreign_keys = ON`)
	}
	stmts = append(stmts,
		// Categories
		`CREATE TABLE IF NOT EXISTS categories(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL DEFAULT ''
)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_name_nocase ON categories(LOWER(name))`,

		// Products
		`CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  category_id TEXT NOT NULL REFERENCES categories(id) ON DELETE RESTRICT,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  price NUMERIC(12,2) NOT NULL CHECK (price >= 0),
  stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
  image_url TEXT NOT NULL DEFAULT '',
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL DEFAULT ''
)`,
		`CREATE INDEX IF NOT EXISTS idx_products_category ON products(category_id)`,
		`CREATE INDEX IF NOT EXISTS idx_products_name     ON products(LOWER(name))`,
		`CREATE INDEX IF NOT EXISTS idx_products_price    ON products(price)`,

		// Users
		`CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('admin','customer')),
  created_at TEXT NOT NULL
)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email))`,

		// Cart
		`CREATE TABLE IF NOT EXISTS cart_items(
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  quantity INTEGER NOT NULL CHECK (quantity >= 1),
  price_at_time NUMERIC(12,2) NOT NULL,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL DEFAULT '',
  UNIQUE (user_id, product_id)
)`,
		`CREATE INDEX IF NOT EXISTS idx_cart_items_user ON cart_items(user_id)`,

		// Orders
		`CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL REFERENCES users(id),
  total_price NUMERIC(12,2) NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending','completed','cancelled')),
  created_at TEXT NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_user_created ON orders(user_id, created_at)`,

		`CREATE TABLE IF NOT EXISTS order_items(
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE RESTRICT,
  quantity INTEGER NOT NULL CHECK (quantity >= 1),
  price_at_time NUMERIC(12,2) NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS idx_order_items_order   ON order_items(order_id)`,
		`CREATE INDEX IF NOT EXISTS idx_order_items_product ON order_items(product_id)`,
	)
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM categories`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	applog.L().Info("seed: inserting demo categories/products")

	ts := now()
	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, c := range []struct{ id, name, desc string }{
		{"cat-audio", "Audio", "Headphones, speakers and accessories"},
		{"cat-computing", "Computing", "Laptops, keyboards and peripherals"},
		{"cat-home", "Home", "Small appliances"},
	} {
		if _, err := tx.Exec(tx.Rebind(`INSERT INTO categories(id,name,description,created_at) VALUES(?,?,?,?)`),
			c.id, c.name, c.desc, ts); err != nil {
			return err
		}
	}

	for _, p := range []struct {
		id, cat, name, desc, price string
		stock                      int
	}{
		{"prod-headphones", "cat-audio", "Wireless Headphones", "Over-ear, noise cancelling", "149.99", 25},
		{"prod-speaker", "cat-audio", "Bookshelf Speaker", "Passive, pair", "89.50", 10},
		{"prod-keyboard", "cat-computing", "Mechanical Keyboard", "Tenkeyless, brown switches", "79.00", 40},
		{"prod-mouse", "cat-computing", "Wireless Mouse", "Ergonomic", "29.99", 0},
		{"prod-kettle", "cat-home", "Electric Kettle", "1.7L, stainless steel", "39.95", 15},
	} {
		if _, err := tx.Exec(tx.Rebind(`
			INSERT INTO products(id,category_id,name,description,price,stock,image_url,created_at)
			VALUES(?,?,?,?,?,?,'',?)`),
			p.id, p.cat, p.name, p.desc, p.price, p.stock, ts); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// seedUsers ensures one customer and one admin exist (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Email, Name, Role, Hash string
	}
	mk := func(id, email, name, role, raw string) (u, error) {
		h, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
		return u{ID: id, Email: email, Name: name, Role: role, Hash: string(h)}, err
	}

	var users []u
	for _, x := range [][4]string{
		{"u-alice", "alice@shop.test", "Alice", domain.RoleCustomer},
		{"u-bob", "bob@shop.test", "Bob", domain.RoleCustomer},
		{"u-admin", "admin@shop.test", "Admin", domain.RoleAdmin},
	} {
		usr, err := mk(x[0], x[1], x[2], x[3], "Passw0rd!")
		if err != nil {
			return err
		}
		users = append(users, usr)
	}

	ctx := context.Background()
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	ts := now()
	for _, x := range users {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`
			INSERT INTO users(id,email,name,password_hash,role,created_at)
			VALUES(?,?,?,?,?,?)
			ON CONFLICT DO NOTHING
		`), x.ID, x.Email, x.Name, x.Hash, x.Role, ts); err != nil {
			return err
		}
	}

	return tx.Commit()
}
