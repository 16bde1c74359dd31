package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"project-hub/internal/database"
	"project-hub/internal/model"
	"project-hub/internal/store"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
)

// fieldRules 與 HTTP 層使用相同的 validator 規則
var fieldRules = validator.New()

const (
	MinPasswordLength = 8
	maxFieldLength    = 255
)

var (
	hashPassword   = HashPassword
	createUser     = store.CreateUser
	getUserByID    = store.GetUserByID
	getUserByEmail = store.GetUserByEmail
)

// AvatarPicker 在註冊時挑選預設頭像
type AvatarPicker interface {
	PickDefaultAvatar() *string
}

// TokenProvider 發行、撤銷 session token
type TokenProvider interface {
	Issue(ctx context.Context, user model.User) (*Session, error)
	Revoke(ctx context.Context, id string) error
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string

	// 選填個人資料；nil 時 course/school/department 使用 model.ProfileDefault
	Course     *string
	School     *string
	Department *string
	Bio        *string
}

type Accounts struct {
	db      database.DB
	tokens  TokenProvider
	avatars AvatarPicker
}

func NewAccounts(db database.DB, tokens TokenProvider, avatars AvatarPicker) *Accounts {
	return &Accounts{db: db, tokens: tokens, avatars: avatars}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func profileField(v *string) string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return model.ProfileDefault
	}
	return strings.TrimSpace(*v)
}

func (in RegisterInput) validate() *ValidationError {
	verr := &ValidationError{}
	name := strings.TrimSpace(in.Name)
	switch {
	case name == "":
		verr.add("name", "The name field is required.")
	case utf8.RuneCountInString(name) > maxFieldLength:
		verr.add("name", "The name may not be greater than 255 characters.")
	}
	switch {
	case in.Email == "":
		verr.add("email", "The email field is required.")
	case len(in.Email) > maxFieldLength:
		verr.add("email", "The email may not be greater than 255 characters.")
	default:
		if err := fieldRules.Var(in.Email, "email"); err != nil {
			verr.add("email", "The email must be a valid email address.")
		}
	}
	switch {
	case in.Password == "":
		verr.add("password", "The password field is required.")
	case utf8.RuneCountInString(in.Password) < MinPasswordLength:
		verr.add("password", fmt.Sprintf("The password must be at least %d characters.", MinPasswordLength))
	}
	for field, v := range map[string]*string{"course": in.Course, "school": in.School, "department": in.Department} {
		if v != nil && utf8.RuneCountInString(*v) > maxFieldLength {
			verr.add(field, fmt.Sprintf("The %s may not be greater than 255 characters.", field))
		}
	}
	return verr
}

// Register 建立會員帳號、指派隨機預設頭像，並立即發行 session（註冊即登入）
func (a *Accounts) Register(ctx context.Context, in RegisterInput) (*model.User, *Session, error) {
	in.Email = normalizeEmail(in.Email)
	verr := in.validate()
	if err := verr.orNil(); err != nil {
		return nil, nil, err
	}

	if _, err := getUserByEmail(ctx, a.db, in.Email); err == nil {
		verr.add("email", "The email has already been taken.")
		return nil, nil, verr
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, err
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	var bio *string
	if in.Bio != nil && strings.TrimSpace(*in.Bio) != "" {
		bio = in.Bio
	}

	user, err := createUser(ctx, a.db, &model.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        in.Email,
		PasswordHash: hash,
		Course:       profileField(in.Course),
		School:       profileField(in.School),
		Department:   profileField(in.Department),
		Bio:          bio,
		AvatarPath:   a.avatars.PickDefaultAvatar(),
		Role:         model.RoleMember,
	})
	if err != nil {
		if isUniqueViolation(err) {
			verr.add("email", "The email has already been taken.")
			return nil, nil, verr
		}
		return nil, nil, err
	}

	sess, err := a.tokens.Issue(ctx, *user)
	if err != nil {
		return nil, nil, err
	}
	return user, sess, nil
}

// Login 驗證帳密；email 不存在與密碼錯誤回傳同一個 ErrInvalidCredentials
func (a *Accounts) Login(ctx context.Context, email, password string) (*model.User, *Session, error) {
	user, err := getUserByEmail(ctx, a.db, normalizeEmail(email))
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, err
		}
		burnCompare(password)
		return nil, nil, ErrInvalidCredentials
	}
	if err := AuthenticateUser(ctx, *user, password); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	sess, err := a.tokens.Issue(ctx, *user)
	if err != nil {
		return nil, nil, err
	}
	return user, sess, nil
}

// Logout 只撤銷本次請求出示的 token
func (a *Accounts) Logout(ctx context.Context, sessionID string) error {
	return a.tokens.Revoke(ctx, sessionID)
}

func (a *Accounts) Me(ctx context.Context, caller Caller) (*model.User, error) {
	user, err := getUserByID(ctx, a.db, caller.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
