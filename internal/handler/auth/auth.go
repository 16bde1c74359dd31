package auth

import (
	"context"
	"net/http"

	"project-hub/internal/api"
	"project-hub/internal/handler"
	"project-hub/internal/middleware"
	"project-hub/internal/model"
	"project-hub/internal/service"

	"github.com/labstack/echo/v4"
)

// Accounts 是 auth handler 需要的帳號服務，由 service.Accounts 實作
type Accounts interface {
	Register(ctx context.Context, in service.RegisterInput) (*model.User, *service.Session, error)
	Login(ctx context.Context, email, password string) (*model.User, *service.Session, error)
	Logout(ctx context.Context, sessionID string) error
	Me(ctx context.Context, caller service.Caller) (*model.User, error)
}

func authResponse(p *handler.Presenter, u model.User, s *service.Session) api.AuthResponse {
	return api.AuthResponse{
		User:        p.User(u),
		AccessToken: s.AccessToken,
		TokenType:   s.TokenType,
		ExpiresAt:   s.ExpiresAt,
	}
}

// RegisterHandler 註冊新會員並直接登入
// @Summary     註冊
// @Description 建立會員帳號，隨機指派預設頭像，回傳使用者資料與存取令牌
// @Tags        auth
// @Accept      application/x-www-form-urlencoded
// @Produce     json
// @Param       name                  formData string true  "姓名"
// @Param       email                 formData string true  "Email"
// @Param       password              formData string true  "密碼（至少 8 碼）"
// @Param       password_confirmation formData string true  "確認密碼"
// @Param       course                formData string false "課程"
// @Param       school                formData string false "學校"
// @Param       department            formData string false "系所"
// @Param       bio                   formData string false "自我介紹"
// @Success     201 {object} api.AuthResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     422 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /register [post]
func RegisterHandler(accounts Accounts, p *handler.Presenter) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.RegisterRequest
		if err := c.Bind(&req); err != nil {
			return handler.BindFailed(c)
		}
		if err := c.Validate(&req); err != nil {
			return handler.ValidationFailed(c, err)
		}

		user, sess, err := accounts.Register(c.Request().Context(), service.RegisterInput{
			Name:       req.Name,
			Email:      req.Email,
			Password:   req.Password,
			Course:     req.Course,
			School:     req.School,
			Department: req.Department,
			Bio:        req.Bio,
		})
		if err != nil {
			return handler.RespondError(c, err)
		}
		return c.JSON(http.StatusCreated, authResponse(p, *user, sess))
	}
}

// LoginHandler 使用 Email/Password 驗證並回傳存取令牌
// @Summary     登入
// @Description 帳號或密碼錯誤時一律回傳相同訊息
// @Tags        auth
// @Accept      application/x-www-form-urlencoded
// @Produce     json
// @Param       email    formData string true "Email"
// @Param       password formData string true "密碼"
// @Success     200 {object} api.AuthResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     422 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /login [post]
func LoginHandler(accounts Accounts, p *handler.Presenter) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.LoginRequest
		if err := c.Bind(&req); err != nil {
			return handler.BindFailed(c)
		}
		if err := c.Validate(&req); err != nil {
			return handler.ValidationFailed(c, err)
		}

		user, sess, err := accounts.Login(c.Request().Context(), req.Email, req.Password)
		if err != nil {
			return handler.RespondError(c, err)
		}
		return c.JSON(http.StatusOK, authResponse(p, *user, sess))
	}
}

// LogoutHandler 撤銷目前出示的 token
// @Summary     登出
// @Tags        auth
// @Produce     json
// @Success     200 {object} api.MessageResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /logout [post]
func LogoutHandler(accounts Accounts) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := middleware.Claims(c)
		if claims == nil {
			return handler.RespondError(c, service.ErrSessionRevoked)
		}
		if err := accounts.Logout(c.Request().Context(), claims.ID); err != nil {
			return handler.RespondError(c, err)
		}
		return c.JSON(http.StatusOK, api.MessageResponse{Message: "Logged out successfully"})
	}
}

// GetMeHandler 取得目前登入的使用者
// @Summary     取得目前使用者
// @Tags        auth
// @Produce     json
// @Success     200 {object} api.UserResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /user [get]
func GetMeHandler(accounts Accounts, p *handler.Presenter) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := accounts.Me(c.Request().Context(), middleware.CallerFrom(c))
		if err != nil {
			return handler.RespondError(c, err)
		}
		return c.JSON(http.StatusOK, p.User(*user))
	}
}
