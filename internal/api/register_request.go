package api

// swagger:model api.RegisterRequest
type RegisterRequest struct {
	Name                 string  `form:"name" json:"name" validate:"required,max=255" example:"Alice"`
	Email                string  `form:"email" json:"email" validate:"required,email,max=255" example:"alice@example.com"`
	Password             string  `form:"password" json:"password" validate:"required,min=8" example:"Secret123!"`
	PasswordConfirmation string  `form:"password_confirmation" json:"password_confirmation" validate:"required,eqfield=Password" example:"Secret123!"`
	Course               *string `form:"course" json:"course" validate:"omitempty,max=255" example:"BSc Computer Science"`
	School               *string `form:"school" json:"school" validate:"omitempty,max=255" example:"Example University"`
	Department           *string `form:"department" json:"department" validate:"omitempty,max=255" example:"Engineering"`
	Bio                  *string `form:"bio" json:"bio" example:"Final year student"`
}
