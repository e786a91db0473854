package database

import (
	"context"
	"fmt"
	"time"

	"servicefinder/internal/models"
)

const modificationColumns = `id, service_request_id, user_id, reason, price, time_required, status, created_at, updated_at`

func (db *DB) CreateModification(ctx context.Context, m *models.RequestModification) error {
	now := time.Now().UTC()
	result, err := db.ExecContext(ctx, `INSERT INTO request_modifications (
			service_request_id, user_id, reason, price, time_required, status, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ServiceRequestID, m.UserID, m.Reason, m.Price, m.TimeRequired, m.Status, now, now)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("modification reference: %w", ErrForeignKeyAbsent)
		}
		return fmt.Errorf("failed to create modification: %w", err)
	}
	if m.ID, err = result.LastInsertId(); err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	m.CreatedAt, m.UpdatedAt = now, now
	return nil
}

func (db *DB) GetModification(ctx context.Context, id int64) (*models.RequestModification, error) {
	var m models.RequestModification
	err := db.QueryRowContext(ctx, `SELECT `+modificationColumns+` FROM request_modifications WHERE id = ?`, id).
		Scan(&m.ID, &m.ServiceRequestID, &m.UserID, &m.Reason, &m.Price, &m.TimeRequired, &m.Status, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, notFound(err, "modification")
	}
	return &m, nil
}

// ListModifications returns a booking's modifications oldest first with the requester joined in.
func (db *DB) ListModifications(ctx context.Context, serviceRequestID int64) ([]*models.RequestModification, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+modificationColumns+` FROM request_modifications
		WHERE service_request_id = ? ORDER BY created_at, id`, serviceRequestID)
	if err != nil {
		return nil, fmt.Errorf("failed to list modifications: %w", err)
	}

	mods := []*models.RequestModification{}
	var userIDs []int64
	for rows.Next() {
		var m models.RequestModification
		if err := rows.Scan(&m.ID, &m.ServiceRequestID, &m.UserID, &m.Reason, &m.Price, &m.TimeRequired, &m.Status, &m.CreatedAt, &m.UpdatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan modification: %w", err)
		}
		mods = append(mods, &m)
		userIDs = append(userIDs, m.UserID)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	users, err := db.userSummaries(ctx, uniqueIDs(userIDs))
	if err != nil {
		return nil, err
	}
	for _, m := range mods {
		m.User = users[m.UserID]
	}
	return mods, nil
}

func (db *DB) UpdateModification(ctx context.Context, m *models.RequestModification) error {
	m.UpdatedAt = time.Now().UTC()
	return db.execAffecting(ctx, "modification", `UPDATE request_modifications SET
			reason = ?, price = ?, time_required = ?, status = ?, updated_at = ?
		WHERE id = ?`,
		m.Reason, m.Price, m.TimeRequired, m.Status, m.UpdatedAt, m.ID)
}

func (db *DB) DeleteModification(ctx context.Context, id int64) error {
	return db.execAffecting(ctx, "modification", `DELETE FROM request_modifications WHERE id = ?`, id)
}
