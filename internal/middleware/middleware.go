package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"project-hub/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

const ContextUserKey = "user"

// Verifier 驗證 bearer token 並確認 session 仍有效，由 service.Sessions 實作
type Verifier interface {
	Verify(ctx context.Context, token string) (*service.CustomClaims, error)
}

func bearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Unauthenticated.")
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header format")
	}
	return strings.TrimSpace(parts[1]), nil
}

func extractClaims(c echo.Context, v Verifier) (*service.CustomClaims, error) {
	token, err := bearerToken(c)
	if err != nil {
		return nil, err
	}
	claims, err := v.Verify(c.Request().Context(), token)
	if errors.Is(err, service.ErrSessionStore) {
		log.Errorf("verify session: %v", err)
		return nil, echo.NewHTTPError(http.StatusServiceUnavailable, "session store unavailable")
	}
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Unauthenticated.")
	}
	return claims, nil
}

// RequireAuth 驗證 token 後把 claims 放進 context
func RequireAuth(v Verifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := extractClaims(c, v)
			if err != nil {
				return err
			}
			c.Set(ContextUserKey, claims)
			return next(c)
		}
	}
}

// RequireAdmin 必須排在 RequireAuth 之後
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := c.Get(ContextUserKey).(*service.CustomClaims)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "Unauthenticated.")
		}
		if !claims.IsAdmin() {
			return echo.NewHTTPError(http.StatusForbidden, "admin privileges required")
		}
		return next(c)
	}
}

// Claims 取出 RequireAuth 設定的 claims；未經驗證的路由回傳 nil
func Claims(c echo.Context) *service.CustomClaims {
	claims, _ := c.Get(ContextUserKey).(*service.CustomClaims)
	return claims
}

// CallerFrom 回傳請求者身分；未登入時為零值
func CallerFrom(c echo.Context) service.Caller {
	if claims := Claims(c); claims != nil {
		return claims.Caller()
	}
	return service.Caller{}
}
