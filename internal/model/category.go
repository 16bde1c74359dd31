// File: internal/model/category.go
package model

import "time"

// Category 名稱固定為 CategoryNames 之一，只在啟動時建立
type Category struct {
	ID        int       `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

var CategoryNames = []string{"Technology", "Health", "Environment", "Education"}
