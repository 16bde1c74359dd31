// File: cmd/service/main.go
// @title        Project Hub API
// @version      1.0
// @description  學生專題作品庫的後端 API 文件
// @host         localhost:8080
// @BasePath     /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
package main

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"

	"project-hub/internal/handler"
)

// CustomValidator wraps go-playground/validator for Echo
// swagger:ignore
type CustomValidator struct {
	validator *validator.Validate
}

func newValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(handler.FieldName)
	return &CustomValidator{validator: v}
}

// Validate calls the underlying validator
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func main() {
	if err := run(); err != nil {
		log.Error(err)
		exitFunc(1)
	}
}
