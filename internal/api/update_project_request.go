package api

// UpdateProjectRequest 沒有出現在表單中的欄位為 nil，代表保留原值
// swagger:model api.UpdateProjectRequest
type UpdateProjectRequest struct {
	Title       *string `form:"title" validate:"omitempty,max=255" example:"Solar powered irrigation v2"`
	Description *string `form:"description" example:"Revised report"`
	CategoryID  *int    `form:"category_id" validate:"omitempty,gt=0" example:"2"`
}
