package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"servicefinder/internal/models"
)

const packageColumns = `id, user_id, name, description, price, created_at, updated_at`

// CreatePackageChecked inserts pkg unless the owner already holds limit
// packages or one with the same name or price. Checks and insert share one
// immediate transaction, so concurrent creators cannot both pass.
func (db *DB) CreatePackageChecked(ctx context.Context, pkg *models.Package, limit int) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		var count int
		err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM packages WHERE user_id = ?`, pkg.UserID).Scan(&count)
		if err != nil {
			return fmt.Errorf("failed to count packages: %w", err)
		}
		if count >= limit {
			return ErrPackageLimit
		}

		if err := checkPackageUnique(ctx, tx, pkg); err != nil {
			return err
		}

		now := time.Now().UTC()
		result, err := tx.ExecContext(ctx,
			`INSERT INTO packages (user_id, name, description, price, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
			pkg.UserID, pkg.Name, pkg.Description, pkg.Price, now, now)
		if err != nil {
			if isForeignKeyViolation(err) {
				return fmt.Errorf("package owner: %w", ErrForeignKeyAbsent)
			}
			return fmt.Errorf("failed to create package: %w", err)
		}
		if pkg.ID, err = result.LastInsertId(); err != nil {
			return fmt.Errorf("failed to get last insert id: %w", err)
		}
		pkg.CreatedAt, pkg.UpdatedAt = now, now
		return nil
	})
}

// UpdatePackageChecked rewrites pkg after checking name and price against the
// owner's other packages.
func (db *DB) UpdatePackageChecked(ctx context.Context, pkg *models.Package) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		if err := checkPackageUnique(ctx, tx, pkg); err != nil {
			return err
		}

		pkg.UpdatedAt = time.Now().UTC()
		res, err := tx.ExecContext(ctx,
			`UPDATE packages SET name = ?, description = ?, price = ?, updated_at = ? WHERE id = ?`,
			pkg.Name, pkg.Description, pkg.Price, pkg.UpdatedAt, pkg.ID)
		if err != nil {
			return fmt.Errorf("failed to update package: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("package: %w", ErrNotFound)
		}
		return nil
	})
}

func checkPackageUnique(ctx context.Context, tx *sql.Tx, pkg *models.Package) error {
	var nameTaken, priceTaken bool
	err := tx.QueryRowContext(ctx, `
		SELECT
			EXISTS(SELECT 1 FROM packages WHERE user_id = ? AND name = ? AND id != ?),
			EXISTS(SELECT 1 FROM packages WHERE user_id = ? AND price = ? AND id != ?)`,
		pkg.UserID, pkg.Name, pkg.ID,
		pkg.UserID, pkg.Price, pkg.ID,
	).Scan(&nameTaken, &priceTaken)
	if err != nil {
		return fmt.Errorf("failed to check package uniqueness: %w", err)
	}
	if nameTaken {
		return ErrDuplicateName
	}
	if priceTaken {
		return ErrDuplicatePrice
	}
	return nil
}

func (db *DB) GetPackage(ctx context.Context, id int64) (*models.Package, error) {
	var p models.Package
	err := db.QueryRowContext(ctx, `SELECT `+packageColumns+` FROM packages WHERE id = ?`, id).
		Scan(&p.ID, &p.UserID, &p.Name, &p.Description, &p.Price, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, notFound(err, "package")
	}
	return &p, nil
}

func (db *DB) ListPackagesByUser(ctx context.Context, userID int64) ([]*models.Package, error) {
	return db.queryPackages(ctx, `SELECT `+packageColumns+` FROM packages WHERE user_id = ? ORDER BY id`, userID)
}

func (db *DB) packagesByIDs(ctx context.Context, ids []int64) (map[int64]*models.Package, error) {
	out := make(map[int64]*models.Package, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	pkgs, err := db.queryPackages(ctx,
		`SELECT `+packageColumns+` FROM packages WHERE id IN (`+inPlaceholders(len(ids))+`)`, int64Args(ids)...)
	if err != nil {
		return nil, err
	}
	for _, p := range pkgs {
		out[p.ID] = p
	}
	return out, nil
}

func (db *DB) queryPackages(ctx context.Context, query string, args ...any) ([]*models.Package, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list packages: %w", err)
	}
	defer rows.Close()

	pkgs := []*models.Package{}
	for rows.Next() {
		var p models.Package
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.Description, &p.Price, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan package: %w", err)
		}
		pkgs = append(pkgs, &p)
	}
	return pkgs, rows.Err()
}

func (db *DB) DeletePackage(ctx context.Context, id int64) error {
	return db.execAffecting(ctx, "package", `DELETE FROM packages WHERE id = ?`, id)
}
