package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"servicefinder/internal/models"
)

const certificationColumns = `id, user_id, title, issuer, earned_on, expires_on, created_at, updated_at`

func (db *DB) CreateCertification(ctx context.Context, c *models.Certification) error {
	now := time.Now().UTC()
	result, err := db.ExecContext(ctx, `INSERT INTO certifications (
			user_id, title, issuer, earned_on, expires_on, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.UserID, c.Title, c.Issuer, c.EarnedOn, c.ExpiresOn, now, now)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("certification owner: %w", ErrForeignKeyAbsent)
		}
		return fmt.Errorf("failed to create certification: %w", err)
	}
	if c.ID, err = result.LastInsertId(); err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	c.CreatedAt, c.UpdatedAt = now, now
	return nil
}

func (db *DB) GetCertification(ctx context.Context, id int64) (*models.Certification, error) {
	c, err := scanCertification(db.QueryRowContext(ctx, `SELECT `+certificationColumns+` FROM certifications WHERE id = ?`, id))
	if err != nil {
		return nil, notFound(err, "certification")
	}
	return c, nil
}

func (db *DB) ListCertificationsByUser(ctx context.Context, userID int64) ([]*models.Certification, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+certificationColumns+` FROM certifications WHERE user_id = ? ORDER BY earned_on DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list certifications: %w", err)
	}
	defer rows.Close()

	certs := []*models.Certification{}
	for rows.Next() {
		c, err := scanCertification(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan certification: %w", err)
		}
		certs = append(certs, c)
	}
	return certs, rows.Err()
}

// CertificationTitleExists reports whether the user already holds a
// certification with this title, ignoring excludeID.
func (db *DB) CertificationTitleExists(ctx context.Context, userID int64, title string, excludeID int64) (bool, error) {
	var exists bool
	err := db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM certifications WHERE user_id = ? AND title = ? AND id != ?)`,
		userID, title, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check certification title: %w", err)
	}
	return exists, nil
}

func (db *DB) UpdateCertification(ctx context.Context, c *models.Certification) error {
	c.UpdatedAt = time.Now().UTC()
	return db.execAffecting(ctx, "certification", `UPDATE certifications SET
			title = ?, issuer = ?, earned_on = ?, expires_on = ?, updated_at = ?
		WHERE id = ?`,
		c.Title, c.Issuer, c.EarnedOn, c.ExpiresOn, c.UpdatedAt, c.ID)
}

func (db *DB) DeleteCertification(ctx context.Context, id int64) error {
	return db.execAffecting(ctx, "certification", `DELETE FROM certifications WHERE id = ?`, id)
}

func scanCertification(row rowScanner) (*models.Certification, error) {
	var (
		c         models.Certification
		expiresOn sql.NullString
	)
	if err := row.Scan(&c.ID, &c.UserID, &c.Title, &c.Issuer, &c.EarnedOn, &expiresOn, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	if expiresOn.Valid {
		v := expiresOn.String
		c.ExpiresOn = &v
	}
	return &c, nil
}
