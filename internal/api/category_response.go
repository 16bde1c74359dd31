package api

// swagger:model api.CategoryResponse
type CategoryResponse struct {
	ID   int    `json:"id" example:"1"`
	Name string `json:"name" example:"Technology"`
}
