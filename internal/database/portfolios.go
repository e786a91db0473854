package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"servicefinder/internal/models"
)

func (db *DB) CreatePortfolio(ctx context.Context, p *models.Portfolio) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		now := time.Now().UTC()
		result, err := tx.ExecContext(ctx, `INSERT INTO portfolios (
				user_id, title, description, start_date, end_date, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			p.UserID, p.Title, p.Description, p.StartDate, p.EndDate, now, now)
		if err != nil {
			if isForeignKeyViolation(err) {
				return fmt.Errorf("portfolio owner: %w", ErrForeignKeyAbsent)
			}
			return fmt.Errorf("failed to create portfolio: %w", err)
		}
		if p.ID, err = result.LastInsertId(); err != nil {
			return fmt.Errorf("failed to get last insert id: %w", err)
		}
		p.CreatedAt, p.UpdatedAt = now, now

		return insertAttachments(ctx, tx, p)
	})
}

// UpdatePortfolio rewrites the portfolio row. When replaceAttachments is set
// the stored attachment list is replaced by p.Attachments.
func (db *DB) UpdatePortfolio(ctx context.Context, p *models.Portfolio, replaceAttachments bool) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		p.UpdatedAt = time.Now().UTC()
		res, err := tx.ExecContext(ctx, `UPDATE portfolios SET
				title = ?, description = ?, start_date = ?, end_date = ?, updated_at = ?
			WHERE id = ?`,
			p.Title, p.Description, p.StartDate, p.EndDate, p.UpdatedAt, p.ID)
		if err != nil {
			return fmt.Errorf("failed to update portfolio: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("portfolio: %w", ErrNotFound)
		}

		if !replaceAttachments {
			return nil
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM portfolio_attachments WHERE portfolio_id = ?`, p.ID); err != nil {
			return fmt.Errorf("failed to clear attachments: %w", err)
		}
		return insertAttachments(ctx, tx, p)
	})
}

func insertAttachments(ctx context.Context, tx *sql.Tx, p *models.Portfolio) error {
	for i := range p.Attachments {
		a := &p.Attachments[i]
		a.PortfolioID = p.ID
		a.CreatedAt = p.UpdatedAt
		result, err := tx.ExecContext(ctx,
			`INSERT INTO portfolio_attachments (portfolio_id, file_name, created_at) VALUES (?, ?, ?)`,
			a.PortfolioID, a.FileName, a.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to create attachment: %w", err)
		}
		if a.ID, err = result.LastInsertId(); err != nil {
			return fmt.Errorf("failed to get last insert id: %w", err)
		}
	}
	return nil
}

func (db *DB) GetPortfolio(ctx context.Context, id int64) (*models.Portfolio, error) {
	var p models.Portfolio
	err := db.QueryRowContext(ctx, `SELECT id, user_id, title, description, start_date, end_date, created_at, updated_at
		FROM portfolios WHERE id = ?`, id).
		Scan(&p.ID, &p.UserID, &p.Title, &p.Description, &p.StartDate, &p.EndDate, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, notFound(err, "portfolio")
	}

	list := []*models.Portfolio{&p}
	if err := db.attachAttachments(ctx, list); err != nil {
		return nil, err
	}
	return &p, nil
}

func (db *DB) ListPortfoliosByUser(ctx context.Context, userID int64) ([]*models.Portfolio, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, user_id, title, description, start_date, end_date, created_at, updated_at
		FROM portfolios WHERE user_id = ? ORDER BY start_date DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list portfolios: %w", err)
	}

	portfolios := []*models.Portfolio{}
	for rows.Next() {
		var p models.Portfolio
		if err := rows.Scan(&p.ID, &p.UserID, &p.Title, &p.Description, &p.StartDate, &p.EndDate, &p.CreatedAt, &p.UpdatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan portfolio: %w", err)
		}
		portfolios = append(portfolios, &p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if err := db.attachAttachments(ctx, portfolios); err != nil {
		return nil, err
	}
	return portfolios, nil
}

func (db *DB) attachAttachments(ctx context.Context, portfolios []*models.Portfolio) error {
	if len(portfolios) == 0 {
		return nil
	}
	byID := make(map[int64]*models.Portfolio, len(portfolios))
	ids := make([]int64, 0, len(portfolios))
	for _, p := range portfolios {
		p.Attachments = []models.PortfolioAttachment{}
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}

	rows, err := db.QueryContext(ctx, `SELECT id, portfolio_id, file_name, created_at FROM portfolio_attachments
		WHERE portfolio_id IN (`+inPlaceholders(len(ids))+`) ORDER BY id`, int64Args(ids)...)
	if err != nil {
		return fmt.Errorf("failed to load attachments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a models.PortfolioAttachment
		if err := rows.Scan(&a.ID, &a.PortfolioID, &a.FileName, &a.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan attachment: %w", err)
		}
		if p, ok := byID[a.PortfolioID]; ok {
			p.Attachments = append(p.Attachments, a)
		}
	}
	return rows.Err()
}

func (db *DB) DeletePortfolio(ctx context.Context, id int64) error {
	return db.execAffecting(ctx, "portfolio", `DELETE FROM portfolios WHERE id = ?`, id)
}
