package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"servicefinder/internal/models"
)

const bookingColumns = `id, user_id, service_provider_id, package_id, urgent_level, description, address,
	contact_number, preferred_date, preferred_time, status, created_at, updated_at`

func (db *DB) CreateBooking(ctx context.Context, b *models.Booking) error {
	query := `INSERT INTO service_requests (
				user_id, service_provider_id, package_id, urgent_level, description, address,
				contact_number, preferred_date, preferred_time, status, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now().UTC()
	result, err := db.ExecContext(ctx, query,
		b.UserID,
		b.ServiceProviderID,
		b.PackageID,
		b.UrgentLevel,
		b.Description,
		b.Address,
		b.ContactNumber,
		b.PreferredDate,
		b.PreferredTime,
		b.Status,
		now,
		now,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("booking reference: %w", ErrForeignKeyAbsent)
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	b.ID = id
	b.CreatedAt = now
	b.UpdatedAt = now
	return nil
}

// GetBooking loads one booking with parties, package, reviews and modifications.
func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	b, err := scanBooking(db.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM service_requests WHERE id = ?`, id))
	if err != nil {
		return nil, notFound(err, "booking")
	}

	list := []*models.Booking{b}
	if err := db.hydrateBookings(ctx, list); err != nil {
		return nil, err
	}

	mods, err := db.ListModifications(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	b.Modifications = make([]models.RequestModification, 0, len(mods))
	for _, m := range mods {
		b.Modifications = append(b.Modifications, *m)
	}
	return b, nil
}

// ListBookings returns matching bookings newest first, eager-loaded like GetBooking
// minus modifications.
func (db *DB) ListBookings(ctx context.Context, filter models.BookingFilter) ([]*models.Booking, error) {
	var (
		where []string
		args  []any
	)
	if filter.CustomerID != 0 {
		where = append(where, "user_id = ?")
		args = append(args, filter.CustomerID)
	}
	if filter.ProviderID != 0 {
		where = append(where, "service_provider_id = ?")
		args = append(args, filter.ProviderID)
	}

	query := `SELECT ` + bookingColumns + ` FROM service_requests`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	bookings := []*models.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if err := db.hydrateBookings(ctx, bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (db *DB) hydrateBookings(ctx context.Context, bookings []*models.Booking) error {
	if len(bookings) == 0 {
		return nil
	}

	var userIDs, pkgIDs, bookingIDs []int64
	for _, b := range bookings {
		userIDs = append(userIDs, b.UserID, b.ServiceProviderID)
		pkgIDs = append(pkgIDs, b.PackageID)
		bookingIDs = append(bookingIDs, b.ID)
	}

	users, err := db.userSummaries(ctx, uniqueIDs(userIDs))
	if err != nil {
		return err
	}
	pkgs, err := db.packagesByIDs(ctx, uniqueIDs(pkgIDs))
	if err != nil {
		return err
	}
	reviews, err := db.queryReviews(ctx,
		`WHERE service_request_id IN (`+inPlaceholders(len(bookingIDs))+`)`, int64Args(bookingIDs)...)
	if err != nil {
		return err
	}

	byBooking := make(map[int64][]models.Review, len(bookings))
	for _, r := range reviews {
		byBooking[r.ServiceRequestID] = append(byBooking[r.ServiceRequestID], *r)
	}

	for _, b := range bookings {
		b.Customer = users[b.UserID]
		b.Provider = users[b.ServiceProviderID]
		b.Package = pkgs[b.PackageID]
		b.Reviews = byBooking[b.ID]
		if b.Reviews == nil {
			b.Reviews = []models.Review{}
		}
	}
	return nil
}

func (db *DB) UpdateBooking(ctx context.Context, b *models.Booking) error {
	query := `UPDATE service_requests SET
				package_id = ?, urgent_level = ?, description = ?, address = ?, contact_number = ?,
				preferred_date = ?, preferred_time = ?, status = ?, updated_at = ?
			WHERE id = ?`
	b.UpdatedAt = time.Now().UTC()
	err := db.execAffecting(ctx, "booking", query,
		b.PackageID,
		b.UrgentLevel,
		b.Description,
		b.Address,
		b.ContactNumber,
		b.PreferredDate,
		b.PreferredTime,
		b.Status,
		b.UpdatedAt,
		b.ID,
	)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("booking package: %w", ErrForeignKeyAbsent)
	}
	return err
}

func (db *DB) DeleteBooking(ctx context.Context, id int64) error {
	return db.execAffecting(ctx, "booking", `DELETE FROM service_requests WHERE id = ?`, id)
}

func scanBooking(row rowScanner) (*models.Booking, error) {
	var b models.Booking
	err := row.Scan(
		&b.ID,
		&b.UserID,
		&b.ServiceProviderID,
		&b.PackageID,
		&b.UrgentLevel,
		&b.Description,
		&b.Address,
		&b.ContactNumber,
		&b.PreferredDate,
		&b.PreferredTime,
		&b.Status,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
