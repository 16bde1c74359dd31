package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"project-hub/internal/api"
	"project-hub/internal/service"
	"project-hub/internal/storage"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func newCtx(method string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) api.ErrorResponse {
	t.Helper()
	var body api.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRespondError(t *testing.T) {
	cases := []struct {
		err  error
		code int
		msg  string
	}{
		{&service.ValidationError{Fields: map[string]string{"title": "The title field is required."}}, http.StatusUnprocessableEntity, "The title field is required."},
		{service.ErrInvalidCredentials, http.StatusUnauthorized, "The provided credentials are incorrect."},
		{service.ErrSessionRevoked, http.StatusUnauthorized, "Unauthenticated."},
		{fmt.Errorf("%w: %w", service.ErrSessionStore, errors.New("dial")), http.StatusServiceUnavailable, "session store unavailable"},
		{service.ErrForbidden, http.StatusForbidden, "Unauthorized"},
		{fmt.Errorf("wrap: %w", service.ErrNotFound), http.StatusNotFound, "Not found."},
		{&storage.Error{Op: "put", Path: "projects/a", Err: errors.New("no space left")}, http.StatusInternalServerError, "file storage failure"},
		{errors.New("pq: secret detail"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tc := range cases {
		ctx, rec := newCtx(http.MethodGet)
		require.NoError(t, RespondError(ctx, tc.err))
		require.Equal(t, tc.code, rec.Code, tc.err.Error())
		require.Equal(t, tc.msg, decode(t, rec).Message)
	}

	ctx, rec := newCtx(http.MethodGet)
	require.NoError(t, RespondError(ctx, &service.ValidationError{Fields: map[string]string{"email": "taken"}}))
	require.Equal(t, map[string][]string{"email": {"taken"}}, decode(t, rec).Errors)
}

func TestValidationFailed(t *testing.T) {
	v := validator.New()
	v.RegisterTagNameFunc(FieldName)

	req := api.RegisterRequest{Email: "nope", Password: "short", PasswordConfirmation: "other"}
	err := v.Struct(&req)
	require.Error(t, err)

	ctx, rec := newCtx(http.MethodPost)
	require.NoError(t, ValidationFailed(ctx, err))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	body := decode(t, rec)
	require.Equal(t, []string{"The name field is required."}, body.Errors["name"])
	require.Equal(t, []string{"The email must be a valid email address."}, body.Errors["email"])
	require.Equal(t, []string{"The password must be at least 8 characters."}, body.Errors["password"])
	require.Equal(t, []string{"The password confirmation does not match."}, body.Errors["password_confirmation"])
	require.Equal(t, "The email must be a valid email address.", body.Message, "first field in name order")

	ctx, rec = newCtx(http.MethodPost)
	require.NoError(t, ValidationFailed(ctx, errors.New("not a validator error")))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Nil(t, decode(t, rec).Errors)
}

func TestBindFailed(t *testing.T) {
	ctx, rec := newCtx(http.MethodPost)
	require.NoError(t, BindFailed(ctx))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHTTPErrorHandler(t *testing.T) {
	ctx, rec := newCtx(http.MethodGet)
	HTTPErrorHandler(echo.NewHTTPError(http.StatusForbidden, "admin privileges required"), ctx)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "admin privileges required", decode(t, rec).Message)

	ctx, rec = newCtx(http.MethodGet)
	HTTPErrorHandler(echo.ErrNotFound, ctx)
	require.Equal(t, http.StatusNotFound, rec.Code)

	ctx, rec = newCtx(http.MethodGet)
	HTTPErrorHandler(&echo.HTTPError{Code: http.StatusTeapot, Message: 42}, ctx)
	require.Equal(t, http.StatusTeapot, rec.Code)
	require.Equal(t, http.StatusText(http.StatusTeapot), decode(t, rec).Message)

	ctx, rec = newCtx(http.MethodGet)
	HTTPErrorHandler(errors.New("panic: secret"), ctx)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.False(t, strings.Contains(rec.Body.String(), "secret"))

	ctx, rec = newCtx(http.MethodHead)
	HTTPErrorHandler(echo.ErrUnauthorized, ctx)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Empty(t, rec.Body.String())

	// 已經寫出回應時不再覆寫
	ctx, rec = newCtx(http.MethodGet)
	require.NoError(t, ctx.String(http.StatusOK, "done"))
	HTTPErrorHandler(errors.New("late"), ctx)
	require.Equal(t, "done", rec.Body.String())
}
