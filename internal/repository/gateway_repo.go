package repository

import (
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/kesorhosting-wq/testtopupkesor/internal/models"
)

// GatewayRepository handles payment gateway rows.
type GatewayRepository struct {
	db *sqlx.DB
}

// NewGatewayRepository creates a new GatewayRepository.
func NewGatewayRepository(db *sqlx.DB) *GatewayRepository {
	return &GatewayRepository{db: db}
}

// GetBySlug returns a gateway by slug, nil when not found.
func (r *GatewayRepository) GetBySlug(slug string) (*models.PaymentGateway, error) {
	const q = `SELECT * FROM payment_gateways WHERE slug = $1 LIMIT 1`
	var g models.PaymentGateway
	if err := r.db.Get(&g, q, slug); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}

// List returns all gateways for the admin panel.
func (r *GatewayRepository) List() ([]models.PaymentGateway, error) {
	const q = `SELECT * FROM payment_gateways ORDER BY slug ASC`
	var gateways []models.PaymentGateway
	if err := r.db.Select(&gateways, q); err != nil {
		return nil, err
	}
	return gateways, nil
}

// Update sets a gateway's enabled flag and config blob.
func (r *GatewayRepository) Update(slug string, enabled bool, config json.RawMessage) error {
	const q = `
        UPDATE payment_gateways SET enabled = $2, config = $3, updated_at = NOW()
        WHERE slug = $1`
	res, err := r.db.Exec(q, slug, enabled, config)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
