package handler

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"sort"
	"strings"

	"project-hub/internal/api"
	"project-hub/internal/service"
	"project-hub/internal/storage"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

const (
	msgInvalid  = "The given data was invalid."
	msgInternal = "internal server error"
	msgStorage  = "file storage failure"
)

// fieldErrors 把 service 的欄位錯誤轉成 {field: [message]} 格式
func fieldErrors(fields map[string]string) map[string][]string {
	out := make(map[string][]string, len(fields))
	for k, v := range fields {
		out[k] = []string{v}
	}
	return out
}

var validationMessages = map[string]string{
	"required": "The %s field is required.",
	"email":    "The %s must be a valid email address.",
	"max":      "The %s may not be greater than %s characters.",
	"min":      "The %s must be at least %s characters.",
	"eqfield":  "The %s confirmation does not match.",
	"gt":       "The selected %s is invalid.",
	"datetime": "The %s does not match the format %s.",
}

func validationMessage(fe validator.FieldError) string {
	name := fe.Field()
	tmpl, ok := validationMessages[fe.Tag()]
	if !ok {
		return "The " + name + " is invalid."
	}
	switch fe.Tag() {
	case "max", "min", "datetime":
		return fmt.Sprintf(tmpl, name, fe.Param())
	case "eqfield":
		return fmt.Sprintf(tmpl, strings.ToLower(fe.Param()))
	}
	return fmt.Sprintf(tmpl, name)
}

// FieldName 讓 validator 以表單欄位名稱回報錯誤，依序採用 form、query、json tag
func FieldName(f reflect.StructField) string {
	for _, key := range []string{"form", "query", "json"} {
		name, _, _ := strings.Cut(f.Tag.Get(key), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// ValidationFailed 回傳 422；validator 的錯誤逐欄轉成訊息，其他錯誤只回傳通用訊息
func ValidationFailed(c echo.Context, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return c.JSON(http.StatusUnprocessableEntity, api.ErrorResponse{Message: msgInvalid})
	}
	fields := map[string][]string{}
	for _, fe := range verrs {
		fields[fe.Field()] = append(fields[fe.Field()], validationMessage(fe))
	}
	return c.JSON(http.StatusUnprocessableEntity, api.ErrorResponse{Message: firstMessage(fields), Errors: fields})
}

// firstMessage 依欄位名稱排序取第一個訊息，讓回應穩定
func firstMessage(fields map[string][]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return msgInvalid
	}
	sort.Strings(keys)
	return fields[keys[0]][0]
}

// BindFailed 表單無法解析時回傳 400
func BindFailed(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid form data"})
}

// RespondError 依錯誤種類決定狀態碼，內部錯誤內容只寫入 log
func RespondError(c echo.Context, err error) error {
	var (
		verr *service.ValidationError
		serr *storage.Error
	)
	switch {
	case errors.As(err, &verr):
		fields := fieldErrors(verr.Fields)
		return c.JSON(http.StatusUnprocessableEntity, api.ErrorResponse{Message: firstMessage(fields), Errors: fields})
	case errors.Is(err, service.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: service.ErrInvalidCredentials.Error()})
	case errors.Is(err, service.ErrSessionRevoked):
		return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "Unauthenticated."})
	case errors.Is(err, service.ErrSessionStore):
		log.Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
		return c.JSON(http.StatusServiceUnavailable, api.ErrorResponse{Message: "session store unavailable"})
	case errors.Is(err, service.ErrForbidden):
		return c.JSON(http.StatusForbidden, api.ErrorResponse{Message: "Unauthorized"})
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "Not found."})
	case errors.As(err, &serr):
		log.Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
		return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: msgStorage})
	}
	log.Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
	return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: msgInternal})
}

// HTTPErrorHandler 讓 echo 本身產生的錯誤（404 路由、中介層拒絕、panic）也使用 ErrorResponse 格式
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := msgInternal
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if s, ok := he.Message.(string); ok {
			msg = s
		} else {
			msg = http.StatusText(code)
		}
	} else {
		log.Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
	}

	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(code)
	} else {
		werr = c.JSON(code, api.ErrorResponse{Message: msg})
	}
	if werr != nil {
		log.Errorf("write error response: %v", werr)
	}
}
