package api

import "time"

// swagger:model api.ProjectResponse
type ProjectResponse struct {
	ID            int               `json:"id" example:"1"`
	Title         string            `json:"title" example:"Solar powered irrigation"`
	Description   string            `json:"description" example:"Capstone project report"`
	FilePath      string            `json:"file_path" example:"projects/0b6e...-report.pdf"`
	FileURL       string            `json:"file_url" example:"http://localhost:8080/storage/projects/0b6e...-report.pdf"`
	ThumbnailPath *string           `json:"thumbnail_path" example:"default/thumbnails/tech/1.png"`
	ThumbnailURL  *string           `json:"thumbnail_url" example:"http://localhost:8080/storage/default/thumbnails/tech/1.png"`
	UploadDate    time.Time         `json:"upload_date" example:"2025-03-14T10:00:00Z"`
	CategoryID    int               `json:"category_id" example:"1"`
	OwnerID       int               `json:"owner_id" example:"1"`
	Category      *CategoryResponse `json:"category,omitempty"`
	Owner         *UserResponse     `json:"owner,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}
