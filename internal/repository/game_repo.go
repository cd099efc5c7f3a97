package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/kesorhosting-wq/testtopupkesor/internal/models"
)

// GameRepository handles catalog games.
type GameRepository struct {
	db *sqlx.DB
}

// NewGameRepository creates a new GameRepository.
func NewGameRepository(db *sqlx.DB) *GameRepository {
	return &GameRepository{db: db}
}

// List returns games, optionally restricted to active ones, ordered for
// storefront display.
func (r *GameRepository) List(activeOnly bool) ([]models.Game, error) {
	q := `SELECT * FROM games`
	if activeOnly {
		q += ` WHERE is_active = TRUE`
	}
	q += ` ORDER BY sort_order ASC, name ASC`

	var games []models.Game
	if err := r.db.Select(&games, q); err != nil {
		return nil, err
	}
	return games, nil
}

// GetByID returns a game by id, nil when not found.
func (r *GameRepository) GetByID(id string) (*models.Game, error) {
	const q = `SELECT * FROM games WHERE id = $1 LIMIT 1`
	var g models.Game
	if err := r.db.Get(&g, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}

// GetByName returns a game by exact name, nil when not found. Used by the
// bulk import to decide create vs update.
func (r *GameRepository) GetByName(name string) (*models.Game, error) {
	const q = `SELECT * FROM games WHERE name = $1 LIMIT 1`
	var g models.Game
	if err := r.db.Get(&g, q, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}

// Create inserts a game.
func (r *GameRepository) Create(g *models.Game) error {
	const q = `
        INSERT INTO games (id, name, image, description, g2bulk_category_id, is_active, sort_order, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,NOW(),NOW())
        RETURNING created_at, updated_at`
	return r.db.QueryRow(q, g.ID, g.Name, g.Image, g.Description, g.G2BulkCategoryID, g.IsActive, g.SortOrder).
		Scan(&g.CreatedAt, &g.UpdatedAt)
}

// Update overwrites a game's mutable fields.
func (r *GameRepository) Update(g *models.Game) error {
	const q = `
        UPDATE games SET
            name = $2, image = $3, description = $4, g2bulk_category_id = $5,
            is_active = $6, sort_order = $7, updated_at = NOW()
        WHERE id = $1`
	res, err := r.db.Exec(q, g.ID, g.Name, g.Image, g.Description, g.G2BulkCategoryID, g.IsActive, g.SortOrder)
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

// Delete removes a game and (via FK cascade) its packages.
func (r *GameRepository) Delete(id string) error {
	const q = `DELETE FROM games WHERE id = $1`
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
