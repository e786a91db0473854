package database

import (
	"context"
	"fmt"
	"time"

	"servicefinder/internal/models"
)

const reviewColumns = `id, user_id, provider_id, service_request_id, rating, comment, created_at, updated_at`

func (db *DB) CreateReview(ctx context.Context, r *models.Review) error {
	now := time.Now().UTC()
	result, err := db.ExecContext(ctx, `INSERT INTO reviews (
			user_id, provider_id, service_request_id, rating, comment, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.UserID, r.ProviderID, r.ServiceRequestID, r.Rating, r.Comment, now, now)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateReview
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("review reference: %w", ErrForeignKeyAbsent)
		}
		return fmt.Errorf("failed to create review: %w", err)
	}
	if r.ID, err = result.LastInsertId(); err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	r.CreatedAt, r.UpdatedAt = now, now
	return nil
}

func (db *DB) GetReview(ctx context.Context, id int64) (*models.Review, error) {
	reviews, err := db.queryReviews(ctx, `WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(reviews) == 0 {
		return nil, fmt.Errorf("review: %w", ErrNotFound)
	}
	if err := db.attachReviewUsers(ctx, reviews); err != nil {
		return nil, err
	}
	return reviews[0], nil
}

// ListReviews returns reviews newest first. Zero filter ids match everything.
func (db *DB) ListReviews(ctx context.Context, authorID, providerID int64) ([]*models.Review, error) {
	clause, args := `WHERE 1 = 1`, []any{}
	if authorID != 0 {
		clause += ` AND user_id = ?`
		args = append(args, authorID)
	}
	if providerID != 0 {
		clause += ` AND provider_id = ?`
		args = append(args, providerID)
	}

	reviews, err := db.queryReviews(ctx, clause, args...)
	if err != nil {
		return nil, err
	}
	if err := db.attachReviewUsers(ctx, reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (db *DB) ReviewExists(ctx context.Context, serviceRequestID, userID int64) (bool, error) {
	var exists bool
	err := db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM reviews WHERE service_request_id = ? AND user_id = ?)`,
		serviceRequestID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check review: %w", err)
	}
	return exists, nil
}

func (db *DB) UpdateReview(ctx context.Context, r *models.Review) error {
	r.UpdatedAt = time.Now().UTC()
	return db.execAffecting(ctx, "review",
		`UPDATE reviews SET rating = ?, comment = ?, updated_at = ? WHERE id = ?`,
		r.Rating, r.Comment, r.UpdatedAt, r.ID)
}

func (db *DB) DeleteReview(ctx context.Context, id int64) error {
	return db.execAffecting(ctx, "review", `DELETE FROM reviews WHERE id = ?`, id)
}

// queryReviews reads reviews matching clause. Rows are closed before returning
// so callers may issue follow-up queries on a single-connection pool.
func (db *DB) queryReviews(ctx context.Context, clause string, args ...any) ([]*models.Review, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+reviewColumns+` FROM reviews `+clause+` ORDER BY created_at DESC, id DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []*models.Review{}
	for rows.Next() {
		var r models.Review
		if err := rows.Scan(&r.ID, &r.UserID, &r.ProviderID, &r.ServiceRequestID, &r.Rating, &r.Comment, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, &r)
	}
	return reviews, rows.Err()
}

func (db *DB) attachReviewUsers(ctx context.Context, reviews []*models.Review) error {
	var ids []int64
	for _, r := range reviews {
		ids = append(ids, r.UserID, r.ProviderID)
	}
	users, err := db.userSummaries(ctx, uniqueIDs(ids))
	if err != nil {
		return err
	}
	for _, r := range reviews {
		r.Author = users[r.UserID]
		r.Provider = users[r.ProviderID]
	}
	return nil
}
