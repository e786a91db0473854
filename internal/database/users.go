package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"servicefinder/internal/models"
)

const userColumns = `id, first_name, last_name, email, phone, password, address, about,
	role, sign_up_type, status, category_id, active_status, created_at, updated_at`

func (db *DB) CreateUser(ctx context.Context, user *models.User) error {
	query := `INSERT INTO users (
				first_name, last_name, email, phone, password, address, about,
				role, sign_up_type, status, category_id, active_status, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now().UTC()
	result, err := db.ExecContext(ctx, query,
		user.FirstName,
		user.LastName,
		user.Email,
		user.Phone,
		user.Password,
		user.Address,
		user.About,
		user.Role,
		user.SignUpType,
		user.Status,
		user.CategoryID,
		user.ActiveStatus,
		now,
		now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("user category: %w", ErrForeignKeyAbsent)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

func (db *DB) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return db.queryUser(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

func (db *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return db.queryUser(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
}

func (db *DB) queryUser(ctx context.Context, query string, args ...any) (*models.User, error) {
	user, err := scanUser(db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, notFound(err, "user")
	}
	return user, nil
}

func (db *DB) ListUsersByRole(ctx context.Context, role models.Role) ([]*models.User, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+userColumns+` FROM users WHERE role = ? ORDER BY id`, role)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (db *DB) UpdateUser(ctx context.Context, user *models.User) error {
	query := `UPDATE users SET
				first_name = ?, last_name = ?, phone = ?, address = ?, about = ?,
				status = ?, category_id = ?, active_status = ?, updated_at = ?
			WHERE id = ?`
	user.UpdatedAt = time.Now().UTC()
	err := db.execAffecting(ctx, "user", query,
		user.FirstName,
		user.LastName,
		user.Phone,
		user.Address,
		user.About,
		user.Status,
		user.CategoryID,
		user.ActiveStatus,
		user.UpdatedAt,
		user.ID,
	)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("user category: %w", ErrForeignKeyAbsent)
	}
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		user       models.User
		categoryID sql.NullInt64
	)
	err := row.Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.Phone,
		&user.Password,
		&user.Address,
		&user.About,
		&user.Role,
		&user.SignUpType,
		&user.Status,
		&categoryID,
		&user.ActiveStatus,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if categoryID.Valid {
		id := categoryID.Int64
		user.CategoryID = &id
	}
	return &user, nil
}

// userSummaries loads the non-sensitive identity of every id in one query.
func (db *DB) userSummaries(ctx context.Context, ids []int64) (map[int64]*models.UserSummary, error) {
	out := make(map[int64]*models.UserSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	query := `SELECT id, first_name, last_name, email, phone, role FROM users WHERE id IN (` + inPlaceholders(len(ids)) + `)`
	rows, err := db.QueryContext(ctx, query, int64Args(ids)...)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s models.UserSummary
		if err := rows.Scan(&s.ID, &s.FirstName, &s.LastName, &s.Email, &s.Phone, &s.Role); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		out[s.ID] = &s
	}
	return out, rows.Err()
}

func uniqueIDs(ids ...[]int64) []int64 {
	seen := make(map[int64]struct{})
	var out []int64
	for _, list := range ids {
		for _, id := range list {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}
