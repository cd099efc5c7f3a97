package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/kesorhosting-wq/testtopupkesor/internal/models"
)

// PackageRepository handles regular and special packages.
type PackageRepository struct {
	db *sqlx.DB
}

// NewPackageRepository creates a new PackageRepository.
func NewPackageRepository(db *sqlx.DB) *PackageRepository {
	return &PackageRepository{db: db}
}

// ListByGame returns a game's packages in display order.
func (r *PackageRepository) ListByGame(gameID string, activeOnly bool) ([]models.Package, error) {
	q := `SELECT * FROM packages WHERE game_id = $1`
	if activeOnly {
		q += ` AND is_active = TRUE`
	}
	q += ` ORDER BY sort_order ASC, price ASC`

	var pkgs []models.Package
	if err := r.db.Select(&pkgs, q, gameID); err != nil {
		return nil, err
	}
	return pkgs, nil
}

// GetByID returns a package by id, nil when not found.
func (r *PackageRepository) GetByID(id string) (*models.Package, error) {
	const q = `SELECT * FROM packages WHERE id = $1 LIMIT 1`
	var p models.Package
	if err := r.db.Get(&p, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// Create inserts a package.
func (r *PackageRepository) Create(p *models.Package) error {
	const q = `
        INSERT INTO packages (id, game_id, name, amount, price, g2bulk_product_id, g2bulk_type_id, is_active, sort_order, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,NOW(),NOW())
        RETURNING created_at, updated_at`
	return r.db.QueryRow(q, p.ID, p.GameID, p.Name, p.Amount, p.Price, p.G2BulkProductID, p.G2BulkTypeID, p.IsActive, p.SortOrder).
		Scan(&p.CreatedAt, &p.UpdatedAt)
}

// Update overwrites a package's mutable fields.
func (r *PackageRepository) Update(p *models.Package) error {
	const q = `
        UPDATE packages SET
            name = $2, amount = $3, price = $4, g2bulk_product_id = $5,
            g2bulk_type_id = $6, is_active = $7, sort_order = $8, updated_at = NOW()
        WHERE id = $1`
	res, err := r.db.Exec(q, p.ID, p.Name, p.Amount, p.Price, p.G2BulkProductID, p.G2BulkTypeID, p.IsActive, p.SortOrder)
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

// Delete removes a package.
func (r *PackageRepository) Delete(id string) error {
	const q = `DELETE FROM packages WHERE id = $1`
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

// ListAll returns every package across all games. Used by the admin data
// export.
func (r *PackageRepository) ListAll() ([]models.Package, error) {
	const q = `SELECT * FROM packages ORDER BY game_id ASC, sort_order ASC`
	var pkgs []models.Package
	if err := r.db.Select(&pkgs, q); err != nil {
		return nil, err
	}
	return pkgs, nil
}

// ListAllSpecial returns every special package across all games. Used by the
// admin data export.
func (r *PackageRepository) ListAllSpecial() ([]models.SpecialPackage, error) {
	const q = `SELECT * FROM special_packages ORDER BY game_id ASC, sort_order ASC`
	var pkgs []models.SpecialPackage
	if err := r.db.Select(&pkgs, q); err != nil {
		return nil, err
	}
	return pkgs, nil
}

// ListLinked returns every package linked to a supplier product. The bulk
// import uses this to decide create vs skip vs price-update.
func (r *PackageRepository) ListLinked() ([]models.Package, error) {
	const q = `SELECT * FROM packages WHERE g2bulk_product_id IS NOT NULL`
	var pkgs []models.Package
	if err := r.db.Select(&pkgs, q); err != nil {
		return nil, err
	}
	return pkgs, nil
}

// UpdatePriceByProductID refreshes the price of every package linked to a
// supplier product. Used by catalog sync when update_existing_prices is on.
func (r *PackageRepository) UpdatePriceByProductID(productID string, price decimal.Decimal) (int64, error) {
	const q = `
        UPDATE packages SET price = $2, updated_at = NOW()
        WHERE g2bulk_product_id = $1`
	res, err := r.db.Exec(q, productID, price)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListSpecialByGame returns a game's special packages in display order.
func (r *PackageRepository) ListSpecialByGame(gameID string, activeOnly bool) ([]models.SpecialPackage, error) {
	q := `SELECT * FROM special_packages WHERE game_id = $1`
	if activeOnly {
		q += ` AND is_active = TRUE`
	}
	q += ` ORDER BY sort_order ASC, price ASC`

	var pkgs []models.SpecialPackage
	if err := r.db.Select(&pkgs, q, gameID); err != nil {
		return nil, err
	}
	return pkgs, nil
}

// GetSpecialByID returns a special package by id, nil when not found.
func (r *PackageRepository) GetSpecialByID(id string) (*models.SpecialPackage, error) {
	const q = `SELECT * FROM special_packages WHERE id = $1 LIMIT 1`
	var p models.SpecialPackage
	if err := r.db.Get(&p, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// CreateSpecial inserts a special package.
func (r *PackageRepository) CreateSpecial(p *models.SpecialPackage) error {
	const q = `
        INSERT INTO special_packages (id, game_id, name, amount, price, original_price, badge, g2bulk_product_id, g2bulk_type_id, is_active, sort_order, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,NOW(),NOW())
        RETURNING created_at, updated_at`
	return r.db.QueryRow(q, p.ID, p.GameID, p.Name, p.Amount, p.Price, p.OriginalPrice, p.Badge, p.G2BulkProductID, p.G2BulkTypeID, p.IsActive, p.SortOrder).
		Scan(&p.CreatedAt, &p.UpdatedAt)
}

// UpdateSpecial overwrites a special package's mutable fields.
func (r *PackageRepository) UpdateSpecial(p *models.SpecialPackage) error {
	const q = `
        UPDATE special_packages SET
            name = $2, amount = $3, price = $4, original_price = $5, badge = $6,
            g2bulk_product_id = $7, g2bulk_type_id = $8, is_active = $9, sort_order = $10,
            updated_at = NOW()
        WHERE id = $1`
	res, err := r.db.Exec(q, p.ID, p.Name, p.Amount, p.Price, p.OriginalPrice, p.Badge, p.G2BulkProductID, p.G2BulkTypeID, p.IsActive, p.SortOrder)
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

// DeleteSpecial removes a special package.
func (r *PackageRepository) DeleteSpecial(id string) error {
	const q = `DELETE FROM special_packages WHERE id = $1`
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
