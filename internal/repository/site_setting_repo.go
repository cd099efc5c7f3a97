package repository

import (
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/kesorhosting-wq/testtopupkesor/internal/models"
)

// SiteSettingRepository handles keyed storefront content blobs.
type SiteSettingRepository struct {
	db *sqlx.DB
}

// NewSiteSettingRepository creates a new SiteSettingRepository.
func NewSiteSettingRepository(db *sqlx.DB) *SiteSettingRepository {
	return &SiteSettingRepository{db: db}
}

// Get returns one setting, nil when the key is absent.
func (r *SiteSettingRepository) Get(key string) (*models.SiteSetting, error) {
	const q = `SELECT * FROM site_settings WHERE key = $1 LIMIT 1`
	var s models.SiteSetting
	if err := r.db.Get(&s, q, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// List returns all settings.
func (r *SiteSettingRepository) List() ([]models.SiteSetting, error) {
	const q = `SELECT * FROM site_settings ORDER BY key ASC`
	var settings []models.SiteSetting
	if err := r.db.Select(&settings, q); err != nil {
		return nil, err
	}
	return settings, nil
}

// Upsert writes a setting value under its key.
func (r *SiteSettingRepository) Upsert(key string, value json.RawMessage) (*models.SiteSetting, error) {
	const q = `
        INSERT INTO site_settings (key, value, updated_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
        RETURNING key, value, updated_at`
	var s models.SiteSetting
	if err := r.db.Get(&s, q, key, value); err != nil {
		return nil, err
	}
	return &s, nil
}
