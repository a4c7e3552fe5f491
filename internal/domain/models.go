package domain

import "github.com/shopspring/decimal"

// TimeLayout is fixed-width so that text ordering of timestamps matches time ordering.
const TimeLayout = "2006-01-02T15:04:05.000000Z"

type Category struct {
	ID          string `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
	CreatedAt   string `db:"created_at" json:"createdAt"`
	UpdatedAt   string `db:"updated_at" json:"updatedAt"`
}

type Product struct {
	ID          string          `db:"id" json:"id"`
	CategoryID  string          `db:"category_id" json:"categoryId"`
	Name        string          `db:"name" json:"name"`
	Description string          `db:"description" json:"description"`
	Price       decimal.Decimal `db:"price" json:"price"`
	Stock       int             `db:"stock" json:"stock"`
	ImageURL    string          `db:"image_url" json:"imageUrl"`
	CreatedAt   string          `db:"created_at" json:"createdAt"`
	UpdatedAt   string          `db:"updated_at" json:"updatedAt"`

	Category *CategoryRef `db:"-" json:"category,omitempty"`
}

// CategoryRef is the slim category shape embedded in product listings.
type CategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ProductRef is the slim product shape embedded in cart and order lines.
type ProductRef struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Price    *decimal.Decimal `json:"price,omitempty"`
	ImageURL string           `json:"imageUrl"`
}

type Availability struct {
	Status string `json:"status"` // IN_STOCK | LOW_STOCK | OUT_OF_STOCK
	Qty    int    `json:"qty"`
}
