package api

// CreateProjectRequest 是 multipart 表單中的文字欄位，檔案欄位 "file" 另外讀取
// swagger:model api.CreateProjectRequest
type CreateProjectRequest struct {
	Title       string `form:"title" validate:"required,max=255" example:"Solar powered irrigation"`
	Description string `form:"description" validate:"required" example:"Capstone project report"`
	CategoryID  int    `form:"category_id" validate:"required,gt=0" example:"1"`
}
