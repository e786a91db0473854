package database

import (
	"context"
	"fmt"
	"time"

	"servicefinder/internal/models"
)

func (db *DB) CreateCategory(ctx context.Context, c *models.Category) error {
	now := time.Now().UTC()
	result, err := db.ExecContext(ctx,
		`INSERT INTO categories (name, icon, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		c.Name, c.Icon, now, now)
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	if c.ID, err = result.LastInsertId(); err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	c.CreatedAt, c.UpdatedAt = now, now
	return nil
}

func (db *DB) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	var c models.Category
	err := db.QueryRowContext(ctx,
		`SELECT id, name, icon, created_at, updated_at FROM categories WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.Icon, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, notFound(err, "category")
	}
	return &c, nil
}

func (db *DB) ListCategories(ctx context.Context) ([]*models.Category, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, name, icon, created_at, updated_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []*models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Icon, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, &c)
	}
	return categories, rows.Err()
}

func (db *DB) UpdateCategory(ctx context.Context, c *models.Category) error {
	c.UpdatedAt = time.Now().UTC()
	return db.execAffecting(ctx, "category",
		`UPDATE categories SET name = ?, icon = ?, updated_at = ? WHERE id = ?`,
		c.Name, c.Icon, c.UpdatedAt, c.ID)
}

func (db *DB) DeleteCategory(ctx context.Context, id int64) error {
	return db.execAffecting(ctx, "category", `DELETE FROM categories WHERE id = ?`, id)
}

func (db *DB) CreateSubCategory(ctx context.Context, s *models.SubCategory) error {
	now := time.Now().UTC()
	result, err := db.ExecContext(ctx,
		`INSERT INTO sub_categories (category_id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		s.CategoryID, s.Name, now, now)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("sub category parent: %w", ErrForeignKeyAbsent)
		}
		return fmt.Errorf("failed to create sub category: %w", err)
	}
	if s.ID, err = result.LastInsertId(); err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	s.CreatedAt, s.UpdatedAt = now, now
	return nil
}

func (db *DB) GetSubCategory(ctx context.Context, id int64) (*models.SubCategory, error) {
	var s models.SubCategory
	err := db.QueryRowContext(ctx,
		`SELECT id, category_id, name, created_at, updated_at FROM sub_categories WHERE id = ?`, id).
		Scan(&s.ID, &s.CategoryID, &s.Name, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, notFound(err, "sub category")
	}
	return &s, nil
}

func (db *DB) ListSubCategories(ctx context.Context, categoryID int64) ([]*models.SubCategory, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, category_id, name, created_at, updated_at FROM sub_categories WHERE category_id = ? ORDER BY name`,
		categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sub categories: %w", err)
	}
	defer rows.Close()

	subs := []*models.SubCategory{}
	for rows.Next() {
		var s models.SubCategory
		if err := rows.Scan(&s.ID, &s.CategoryID, &s.Name, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan sub category: %w", err)
		}
		subs = append(subs, &s)
	}
	return subs, rows.Err()
}

func (db *DB) UpdateSubCategory(ctx context.Context, s *models.SubCategory) error {
	s.UpdatedAt = time.Now().UTC()
	err := db.execAffecting(ctx, "sub category",
		`UPDATE sub_categories SET category_id = ?, name = ?, updated_at = ? WHERE id = ?`,
		s.CategoryID, s.Name, s.UpdatedAt, s.ID)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("sub category parent: %w", ErrForeignKeyAbsent)
	}
	return err
}

func (db *DB) DeleteSubCategory(ctx context.Context, id int64) error {
	return db.execAffecting(ctx, "sub category", `DELETE FROM sub_categories WHERE id = ?`, id)
}
