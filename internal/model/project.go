// File: internal/model/project.go
package model

import "time"

type Project struct {
	ID            int       `db:"id" json:"id"`
	Title         string    `db:"title" json:"title"`
	Description   string    `db:"description" json:"description"`
	FilePath      string    `db:"file_path" json:"file_path"`
	ThumbnailPath *string   `db:"thumbnail_path" json:"thumbnail_path"`
	UploadDate    time.Time `db:"upload_date" json:"upload_date"`
	CategoryID    int       `db:"category_id" json:"category_id"`
	OwnerID       int       `db:"owner_id" json:"owner_id"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`

	// 由 service 層在讀取後附加，不是資料表欄位
	Owner    *User     `db:"-" json:"-"`
	Category *Category `db:"-" json:"-"`
}
