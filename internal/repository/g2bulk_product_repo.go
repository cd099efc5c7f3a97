package repository

import (
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/kesorhosting-wq/testtopupkesor/internal/models"
)

// G2BulkProductRepository handles the local mirror of the supplier catalog.
type G2BulkProductRepository struct {
	db *sqlx.DB
}

// NewG2BulkProductRepository creates a new G2BulkProductRepository.
func NewG2BulkProductRepository(db *sqlx.DB) *G2BulkProductRepository {
	return &G2BulkProductRepository{db: db}
}

// Upsert writes one supplier product, keyed by (g2bulk_product_id,
// g2bulk_type_id). Returns true when a new row was inserted.
func (r *G2BulkProductRepository) Upsert(p *models.G2BulkProduct) (bool, error) {
	const q = `
        INSERT INTO g2bulk_products (
            g2bulk_product_id, g2bulk_type_id, game_name, product_name,
            denomination, price, currency, product_type, fields, is_active,
            created_at, updated_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,NOW(),NOW())
        ON CONFLICT (g2bulk_product_id, g2bulk_type_id) DO UPDATE SET
            game_name = EXCLUDED.game_name,
            product_name = EXCLUDED.product_name,
            denomination = EXCLUDED.denomination,
            price = EXCLUDED.price,
            currency = EXCLUDED.currency,
            product_type = EXCLUDED.product_type,
            fields = EXCLUDED.fields,
            is_active = EXCLUDED.is_active,
            updated_at = NOW()
        RETURNING (xmax = 0)`

	var inserted bool
	err := r.db.QueryRow(q,
		p.G2BulkProductID, p.G2BulkTypeID, p.GameName, p.ProductName,
		p.Denomination, p.Price, p.Currency, p.ProductType, p.Fields, p.IsActive,
	).Scan(&inserted)
	return inserted, err
}

// DeactivateStale marks rows untouched since cutoff as inactive. A product
// the supplier stops listing disappears from sync and goes inactive here.
func (r *G2BulkProductRepository) DeactivateStale(cutoff time.Time) (int64, error) {
	const q = `
        UPDATE g2bulk_products SET is_active = FALSE, updated_at = NOW()
        WHERE is_active = TRUE AND updated_at < $1`
	res, err := r.db.Exec(q, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListByGameName returns active mirror rows for one supplier game.
func (r *G2BulkProductRepository) ListByGameName(gameName string) ([]models.G2BulkProduct, error) {
	const q = `
        SELECT * FROM g2bulk_products
        WHERE game_name = $1 AND is_active = TRUE
        ORDER BY price ASC`
	var products []models.G2BulkProduct
	if err := r.db.Select(&products, q, gameName); err != nil {
		return nil, err
	}
	return products, nil
}

// SyncStats summarizes the mirror for the admin dashboard.
type SyncStats struct {
	TotalProducts  int        `db:"total_products" json:"totalProducts"`
	ActiveProducts int        `db:"active_products" json:"activeProducts"`
	DistinctGames  int        `db:"distinct_games" json:"distinctGames"`
	LastSyncedAt   *time.Time `db:"last_synced_at" json:"lastSyncedAt,omitempty"`
}

// Stats computes mirror counts and the most recent sync time.
func (r *G2BulkProductRepository) Stats() (*SyncStats, error) {
	const q = `
        SELECT
            COUNT(*) AS total_products,
            COUNT(*) FILTER (WHERE is_active) AS active_products,
            COUNT(DISTINCT game_name) AS distinct_games,
            MAX(updated_at) AS last_synced_at
        FROM g2bulk_products`
	var s SyncStats
	if err := r.db.Get(&s, q); err != nil {
		return nil, err
	}
	return &s, nil
}
