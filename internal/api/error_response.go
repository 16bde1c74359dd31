package api

// ErrorResponse 全域錯誤響應模型
// swagger:model api.ErrorResponse
type ErrorResponse struct {
	// message 錯誤描述
	Message string `json:"message" example:"The given data was invalid."`
	// errors 欄位層級錯誤，只在驗證失敗時出現
	Errors map[string][]string `json:"errors,omitempty"`
}
