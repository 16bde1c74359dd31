package api

// swagger:model api.SearchProjectsRequest
type SearchProjectsRequest struct {
	Title      string `query:"title" example:"solar"`
	CategoryID *int   `query:"category_id" validate:"omitempty,gt=0" example:"1"`
	// UploadDate 格式為 YYYY-MM-DD
	UploadDate string `query:"upload_date" validate:"omitempty,datetime=2006-01-02" example:"2025-03-14"`
}
