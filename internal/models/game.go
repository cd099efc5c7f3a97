package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Game is a catalog title. G2BulkCategoryID links it to the supplier's game
// code for catalog sync and fulfillment.
type Game struct {
	ID               string    `db:"id" json:"id"`
	Name             string    `db:"name" json:"name"`
	Image            string    `db:"image" json:"image"`
	Description      *string   `db:"description" json:"description,omitempty"`
	G2BulkCategoryID *string   `db:"g2bulk_category_id" json:"g2bulkCategoryId,omitempty"`
	IsActive         bool      `db:"is_active" json:"isActive"`
	SortOrder        int       `db:"sort_order" json:"sortOrder"`
	CreatedAt        time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time `db:"updated_at" json:"-"`
}

// Package is a purchasable denomination of a game. G2BulkProductID and
// G2BulkTypeID identify the supplier product used for fulfillment.
type Package struct {
	ID              string          `db:"id" json:"id"`
	GameID          string          `db:"game_id" json:"gameId"`
	Name            string          `db:"name" json:"name"`
	Amount          string          `db:"amount" json:"amount"`
	Price           decimal.Decimal `db:"price" json:"price"`
	G2BulkProductID *string         `db:"g2bulk_product_id" json:"g2bulkProductId,omitempty"`
	G2BulkTypeID    *string         `db:"g2bulk_type_id" json:"g2bulkTypeId,omitempty"`
	IsActive        bool            `db:"is_active" json:"isActive"`
	SortOrder       int             `db:"sort_order" json:"sortOrder"`
	CreatedAt       time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time       `db:"updated_at" json:"-"`
}

// SpecialPackage is a promoted bundle shown separately from the regular list.
type SpecialPackage struct {
	ID              string           `db:"id" json:"id"`
	GameID          string           `db:"game_id" json:"gameId"`
	Name            string           `db:"name" json:"name"`
	Amount          string           `db:"amount" json:"amount"`
	Price           decimal.Decimal  `db:"price" json:"price"`
	OriginalPrice   *decimal.Decimal `db:"original_price" json:"originalPrice,omitempty"`
	Badge           *string          `db:"badge" json:"badge,omitempty"`
	G2BulkProductID *string          `db:"g2bulk_product_id" json:"g2bulkProductId,omitempty"`
	G2BulkTypeID    *string          `db:"g2bulk_type_id" json:"g2bulkTypeId,omitempty"`
	IsActive        bool             `db:"is_active" json:"isActive"`
	SortOrder       int              `db:"sort_order" json:"sortOrder"`
	CreatedAt       time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time        `db:"updated_at" json:"-"`
}

// G2BulkProduct mirrors one supplier catalog entry, written by the sync
// service. ProductType is "recharge" for direct top-ups and "card" for
// vouchers/keys.
type G2BulkProduct struct {
	ID              int             `db:"id" json:"-"`
	G2BulkProductID string          `db:"g2bulk_product_id" json:"g2bulkProductId"`
	G2BulkTypeID    string          `db:"g2bulk_type_id" json:"g2bulkTypeId"`
	GameName        string          `db:"game_name" json:"gameName"`
	ProductName     string          `db:"product_name" json:"productName"`
	Denomination    string          `db:"denomination" json:"denomination"`
	Price           decimal.Decimal `db:"price" json:"price"`
	Currency        string          `db:"currency" json:"currency"`
	ProductType     string          `db:"product_type" json:"productType"`
	Fields          json.RawMessage `db:"fields" json:"fields,omitempty"`
	IsActive        bool            `db:"is_active" json:"isActive"`
	CreatedAt       time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updatedAt"`
}
