package store

import (
	"context"
	"fmt"

	"project-hub/internal/database"
	"project-hub/internal/model"
)

func GetCategoryByID(ctx context.Context, db database.DB, id int) (*model.Category, error) {
	c := &model.Category{}
	if err := db.QueryRow(ctx,
		`SELECT id, name, created_at FROM categories WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
		return nil, fmt.Errorf("GetCategoryByID: %w", err)
	}
	return c, nil
}

func ListCategories(ctx context.Context, db database.DB) ([]model.Category, error) {
	rows, err := db.Query(ctx, `SELECT id, name, created_at FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("ListCategories: %w", err)
	}
	defer rows.Close()

	var list []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("ListCategories scan: %w", err)
		}
		list = append(list, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListCategories rows: %w", err)
	}
	return list, nil
}

// EnsureCategory 依名稱建立分類；已存在時不做變更並回傳既有資料
func EnsureCategory(ctx context.Context, db database.DB, name string) (*model.Category, error) {
	c := &model.Category{}
	if err := db.QueryRow(ctx,
		`INSERT INTO categories (name) VALUES ($1)
		 ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		 RETURNING id, name, created_at`,
		name,
	).Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
		return nil, fmt.Errorf("EnsureCategory: %w", err)
	}
	return c, nil
}
