package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/kesorhosting-wq/testtopupkesor/internal/models"
	"github.com/kesorhosting-wq/testtopupkesor/internal/utils"
)

// UserRepository handles account storage.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user. A duplicate email maps to utils.ErrEmailTaken.
func (r *UserRepository) Create(u *models.User) error {
	const q = `
        INSERT INTO users (id, email, password_hash, name, role, wallet_balance, is_active, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,TRUE,NOW(),NOW())
        RETURNING created_at, updated_at`

	err := r.db.QueryRow(q, u.ID, u.Email, u.PasswordHash, u.Name, u.Role, u.WalletBalance).
		Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return utils.ErrEmailTaken
		}
		return err
	}
	u.IsActive = true
	return nil
}

// GetByEmail returns a user by email, nil when not found.
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	const q = `SELECT * FROM users WHERE email = $1 LIMIT 1`
	var u models.User
	if err := r.db.Get(&u, q, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// GetByID returns a user by id, nil when not found.
func (r *UserRepository) GetByID(id string) (*models.User, error) {
	const q = `SELECT * FROM users WHERE id = $1 LIMIT 1`
	var u models.User
	if err := r.db.Get(&u, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
