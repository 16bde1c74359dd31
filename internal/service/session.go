package service

import (
	"context"
	"fmt"
	"time"

	"project-hub/internal/cache"
	"project-hub/internal/model"
)

const sessionKeyPrefix = "session:"

// Session 是登入或註冊後發給客戶端的 bearer token
type Session struct {
	ID          string
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
}

// Sessions 以 JWT 作為 token，並在 cache 登記每個 jti，登出時只撤銷該筆
type Sessions struct {
	cache  cache.Cache
	secret []byte
	ttl    time.Duration
}

func NewSessions(c cache.Cache, secret string, ttl time.Duration) *Sessions {
	return &Sessions{cache: c, secret: []byte(secret), ttl: ttl}
}

func sessionKey(id string) string { return sessionKeyPrefix + id }

func (s *Sessions) Issue(ctx context.Context, user model.User) (*Session, error) {
	token, claims, err := IssueAccessToken(s.secret, user, s.ttl)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	if err := s.cache.Set(ctx, sessionKey(claims.ID), user.ID, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("register session: %w", err)
	}
	return &Session{
		ID:          claims.ID,
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   claims.ExpiresAt.Time,
	}, nil
}

// Verify 檢查簽章與效期，並確認 session 尚未被撤銷
func (s *Sessions) Verify(ctx context.Context, token string) (*CustomClaims, error) {
	claims, err := VerifyAccessToken(s.secret, token)
	if err != nil {
		return nil, err
	}
	if claims.ID == "" {
		return nil, ErrSessionRevoked
	}
	n, err := s.cache.Exists(ctx, sessionKey(claims.ID)).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSessionStore, err)
	}
	if n == 0 {
		return nil, ErrSessionRevoked
	}
	return claims, nil
}

// Revoke 只撤銷指定的 session，同一使用者的其他 session 不受影響
func (s *Sessions) Revoke(ctx context.Context, id string) error {
	if err := s.cache.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}
