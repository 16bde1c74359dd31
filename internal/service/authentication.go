// File: internal/service/authentication.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"project-hub/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	timeNow         = time.Now
	parseWithClaims = jwt.ParseWithClaims
	newTokenID      = func() string { return uuid.NewString() }
)

// CustomClaims 定義 JWT 負載內容；RegisteredClaims.ID (jti) 對應到 session 登記
type CustomClaims struct {
	UserID int    `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func (c CustomClaims) IsAdmin() bool {
	return c.Role == model.RoleAdmin
}

// Caller 回傳請求者身分，交給 service 做授權判斷
func (c CustomClaims) Caller() Caller {
	return Caller{ID: c.UserID, Role: c.Role}
}

// AuthenticateUser 根據使用者結構和明文密碼驗證
func AuthenticateUser(ctx context.Context, user model.User, password string) error {
	if user.PasswordHash == "" {
		return errors.New("invalid password")
	}
	if err := ComparePassword(user.PasswordHash, password); err != nil {
		return errors.New("invalid password")
	}
	return nil
}

var errNoSecret = errors.New("jwt secret not set")

// IssueAccessToken 依據使用者資訊與 TTL 產生帶有唯一 jti 的 JWT
func IssueAccessToken(secret []byte, user model.User, ttl time.Duration) (string, *CustomClaims, error) {
	if len(secret) == 0 {
		return "", nil, errNoSecret
	}

	now := timeNow()
	claims := &CustomClaims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        newTokenID(),
			Subject:   fmt.Sprint(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

// VerifyAccessToken 驗證並解析 JWT 令牌
func VerifyAccessToken(secret []byte, tokenString string) (*CustomClaims, error) {
	if len(secret) == 0 {
		return nil, errNoSecret
	}

	token, err := parseWithClaims(tokenString, &CustomClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
