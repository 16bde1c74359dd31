package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"project-hub/internal/api"
	"project-hub/internal/handler"
	"project-hub/internal/middleware"
	"project-hub/internal/model"
	"project-hub/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

type stubValidator struct{ err error }

func (s *stubValidator) Validate(i interface{}) error { return s.err }

type errBinder struct{}

func (errBinder) Bind(any, echo.Context) error { return errors.New("bind") }

type stubAssets struct{}

func (stubAssets) URL(rel string) string { return "http://files/" + rel }
func (stubAssets) UserAvatar(u model.User) *string {
	s := "http://files/default/profiles/1.png"
	return &s
}
func (stubAssets) ProjectThumbnail(model.Project) *string { return nil }

var presenter = handler.NewPresenter(stubAssets{})

type fakeAccounts struct {
	registerIn service.RegisterInput
	revoked    string
	err        error
}

var session = &service.Session{ID: "jti", AccessToken: "tok", TokenType: "Bearer", ExpiresAt: time.Unix(0, 0).UTC()}

func (f *fakeAccounts) Register(_ context.Context, in service.RegisterInput) (*model.User, *service.Session, error) {
	f.registerIn = in
	if f.err != nil {
		return nil, nil, f.err
	}
	return &model.User{ID: 1, Name: in.Name, Email: in.Email, Role: model.RoleMember}, session, nil
}

func (f *fakeAccounts) Login(_ context.Context, email, _ string) (*model.User, *service.Session, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	return &model.User{ID: 1, Email: email}, session, nil
}

func (f *fakeAccounts) Logout(_ context.Context, id string) error {
	f.revoked = id
	return f.err
}

func (f *fakeAccounts) Me(_ context.Context, c service.Caller) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &model.User{ID: c.ID, Name: "me"}, nil
}

func newFormCtx(e *echo.Echo, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func withClaims(c echo.Context, claims *service.CustomClaims) echo.Context {
	c.Set(middleware.ContextUserKey, claims)
	return c
}

func TestRegisterHandler(t *testing.T) {
	t.Run("bind error", func(t *testing.T) {
		e := echo.New()
		e.Binder = errBinder{}
		ctx, rec := newFormCtx(e, "")
		require.NoError(t, RegisterHandler(&fakeAccounts{}, presenter)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("validate error", func(t *testing.T) {
		e := echo.New()
		e.Validator = &stubValidator{err: errors.New("v")}
		ctx, rec := newFormCtx(e, "name=a")
		require.NoError(t, RegisterHandler(&fakeAccounts{}, presenter)(ctx))
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("email taken", func(t *testing.T) {
		e := echo.New()
		e.Validator = &stubValidator{}
		acc := &fakeAccounts{err: &service.ValidationError{Fields: map[string]string{"email": "The email has already been taken."}}}
		ctx, rec := newFormCtx(e, "name=a&email=a@b.co&password=12345678&password_confirmation=12345678")
		require.NoError(t, RegisterHandler(acc, presenter)(ctx))
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		var body api.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, []string{"The email has already been taken."}, body.Errors["email"])
	})

	t.Run("success", func(t *testing.T) {
		e := echo.New()
		e.Validator = &stubValidator{}
		acc := &fakeAccounts{}
		ctx, rec := newFormCtx(e, "name=Ada&email=ada@b.co&password=12345678&password_confirmation=12345678&school=MIT")
		require.NoError(t, RegisterHandler(acc, presenter)(ctx))
		require.Equal(t, http.StatusCreated, rec.Code)
		require.Equal(t, "MIT", *acc.registerIn.School)
		require.Nil(t, acc.registerIn.Course)

		var body api.AuthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, "tok", body.AccessToken)
		require.Equal(t, "Bearer", body.TokenType)
		require.Equal(t, "Ada", body.User.Name)
		require.NotNil(t, body.User.ProfilePictureURL)
	})
}

func TestLoginHandler(t *testing.T) {
	e := echo.New()
	e.Validator = &stubValidator{}

	ctx, rec := newFormCtx(e, "email=a@b.co&password=wrong")
	require.NoError(t, LoginHandler(&fakeAccounts{err: service.ErrInvalidCredentials}, presenter)(ctx))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "The provided credentials are incorrect.")

	ctx, rec = newFormCtx(e, "email=a@b.co&password=x")
	require.NoError(t, LoginHandler(&fakeAccounts{err: errors.New("db")}, presenter)(ctx))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotContains(t, rec.Body.String(), "db")

	ctx, rec = newFormCtx(e, "email=a@b.co&password=right")
	require.NoError(t, LoginHandler(&fakeAccounts{}, presenter)(ctx))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "access_token")

	e.Validator = &stubValidator{err: errors.New("v")}
	ctx, rec = newFormCtx(e, "")
	require.NoError(t, LoginHandler(&fakeAccounts{}, presenter)(ctx))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestLogoutHandler(t *testing.T) {
	e := echo.New()

	ctx, rec := newFormCtx(e, "")
	require.NoError(t, LogoutHandler(&fakeAccounts{})(ctx))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	acc := &fakeAccounts{}
	ctx, rec = newFormCtx(e, "")
	claims := &service.CustomClaims{UserID: 1}
	claims.ID = "jti-7"
	require.NoError(t, LogoutHandler(acc)(withClaims(ctx, claims)))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "jti-7", acc.revoked)

	ctx, rec = newFormCtx(e, "")
	require.NoError(t, LogoutHandler(&fakeAccounts{err: errors.New("redis")})(withClaims(ctx, claims)))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGetMeHandler(t *testing.T) {
	e := echo.New()

	ctx, rec := newFormCtx(e, "")
	ctx = withClaims(ctx, &service.CustomClaims{UserID: 5, Role: model.RoleMember})
	require.NoError(t, GetMeHandler(&fakeAccounts{}, presenter)(ctx))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"id":5`)
	require.Contains(t, rec.Body.String(), "profile_picture_url")

	ctx, rec = newFormCtx(e, "")
	require.NoError(t, GetMeHandler(&fakeAccounts{err: service.ErrNotFound}, presenter)(ctx))
	require.Equal(t, http.StatusNotFound, rec.Code)
}
