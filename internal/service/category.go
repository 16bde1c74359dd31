package service

import (
	"context"
	"fmt"

	"project-hub/internal/database"
	"project-hub/internal/model"
	"project-hub/internal/store"
)

var ensureCategory = store.EnsureCategory

// SeedCategories 建立固定的分類清單，重複執行不會產生重複資料
func SeedCategories(ctx context.Context, db database.DB) error {
	for _, name := range model.CategoryNames {
		if _, err := ensureCategory(ctx, db, name); err != nil {
			return fmt.Errorf("seed category %q: %w", name, err)
		}
	}
	return nil
}

func (s *Projects) Categories(ctx context.Context) ([]model.Category, error) {
	list, err := listCategories(ctx, s.db)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []model.Category{}
	}
	return list, nil
}
