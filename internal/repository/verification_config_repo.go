package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/kesorhosting-wq/testtopupkesor/internal/models"
)

// VerificationConfigRepository handles game verification config rows.
type VerificationConfigRepository struct {
	db *sqlx.DB
}

// NewVerificationConfigRepository creates a new VerificationConfigRepository.
func NewVerificationConfigRepository(db *sqlx.DB) *VerificationConfigRepository {
	return &VerificationConfigRepository{db: db}
}

// ListActive returns active configs. This is the cache loader, so it takes a
// context.
func (r *VerificationConfigRepository) ListActive(ctx context.Context) ([]models.GameVerificationConfig, error) {
	const q = `SELECT * FROM game_verification_configs WHERE is_active = TRUE ORDER BY game_name ASC`
	var configs []models.GameVerificationConfig
	if err := r.db.SelectContext(ctx, &configs, q); err != nil {
		return nil, err
	}
	return configs, nil
}

// List returns all configs for the admin table.
func (r *VerificationConfigRepository) List() ([]models.GameVerificationConfig, error) {
	const q = `SELECT * FROM game_verification_configs ORDER BY game_name ASC`
	var configs []models.GameVerificationConfig
	if err := r.db.Select(&configs, q); err != nil {
		return nil, err
	}
	return configs, nil
}

// Create inserts a config row.
func (r *VerificationConfigRepository) Create(c *models.GameVerificationConfig) error {
	const q = `
        INSERT INTO game_verification_configs (id, game_name, api_code, api_provider, requires_zone, default_zone, is_active, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,NOW(),NOW())
        RETURNING created_at, updated_at`
	return r.db.QueryRow(q, c.ID, c.GameName, c.APICode, c.APIProvider, c.RequiresZone, c.DefaultZone, c.IsActive).
		Scan(&c.CreatedAt, &c.UpdatedAt)
}

// Update overwrites a config row.
func (r *VerificationConfigRepository) Update(c *models.GameVerificationConfig) error {
	const q = `
        UPDATE game_verification_configs SET
            game_name = $2, api_code = $3, api_provider = $4,
            requires_zone = $5, default_zone = $6, is_active = $7, updated_at = NOW()
        WHERE id = $1`
	res, err := r.db.Exec(q, c.ID, c.GameName, c.APICode, c.APIProvider, c.RequiresZone, c.DefaultZone, c.IsActive)
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

// Delete removes a config row.
func (r *VerificationConfigRepository) Delete(id string) error {
	const q = `DELETE FROM game_verification_configs WHERE id = $1`
	res, err := r.db.Exec(q, id)
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

// GetByID returns a config by id, nil when not found.
func (r *VerificationConfigRepository) GetByID(id string) (*models.GameVerificationConfig, error) {
	const q = `SELECT * FROM game_verification_configs WHERE id = $1 LIMIT 1`
	var c models.GameVerificationConfig
	if err := r.db.Get(&c, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}
