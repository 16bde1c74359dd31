package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"project-hub/internal/cache"
	"project-hub/internal/database"
	"project-hub/internal/handler"
	"project-hub/internal/handler/auth"
	"project-hub/internal/handler/projects"
	"project-hub/internal/model"
	"project-hub/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

type tokenVerifier map[string]*service.CustomClaims

func (v tokenVerifier) Verify(_ context.Context, token string) (*service.CustomClaims, error) {
	if c, ok := v[token]; ok {
		return c, nil
	}
	return nil, service.ErrSessionRevoked
}

type nopAssets struct{}

func (nopAssets) URL(p string) string                    { return "/storage/" + p }
func (nopAssets) UserAvatar(model.User) *string          { return nil }
func (nopAssets) ProjectThumbnail(model.Project) *string { return nil }

// catalog 只實作路由測試會打到的方法
type catalog struct{ projects.Projects }

func (catalog) List(context.Context, service.ListFilter) ([]model.Project, error) {
	return []model.Project{}, nil
}

func (catalog) Categories(context.Context) ([]model.Category, error) {
	return []model.Category{{ID: 1, Name: "Technology"}}, nil
}

type noAccounts struct{ auth.Accounts }

func newTestEcho(t *testing.T) (*echo.Echo, string) {
	t.Helper()
	dir := t.TempDir()
	e := echo.New()
	e.HTTPErrorHandler = handler.HTTPErrorHandler
	Setup(e, Deps{
		DB:       &database.FakeDB{},
		Cache:    &cache.FakeCache{},
		Accounts: noAccounts{},
		Projects: catalog{},
		Sessions: tokenVerifier{
			"member": {UserID: 1, Role: model.RoleMember},
			"admin":  {UserID: 2, Role: model.RoleAdmin},
		},
		Presenter:  handler.NewPresenter(nopAssets{}),
		StorageDir: dir,
		AuthRate:   5,
	})
	return e, dir
}

func TestSetupRoutes(t *testing.T) {
	e, _ := newTestEcho(t)

	got := map[string]struct{}{}
	for _, r := range e.Routes() {
		got[r.Method+" "+r.Path] = struct{}{}
	}

	expected := []string{
		http.MethodGet + " /api/ping",
		http.MethodPost + " /api/register",
		http.MethodPost + " /api/login",
		http.MethodPost + " /api/logout",
		http.MethodGet + " /api/user",
		http.MethodGet + " /api/projects",
		http.MethodGet + " /api/projects/search",
		http.MethodGet + " /api/projects/:id",
		http.MethodPost + " /api/projects",
		http.MethodPut + " /api/projects/:id",
		http.MethodPatch + " /api/projects/:id",
		http.MethodDelete + " /api/projects/:id",
		http.MethodGet + " /api/my-projects",
		http.MethodGet + " /api/categories",
		http.MethodGet + " /api/admin/projects",
		http.MethodGet + " /api/admin/projects/search",
		http.MethodPost + " /api/admin/projects",
		http.MethodPut + " /api/admin/projects/:id",
		http.MethodDelete + " /api/admin/projects/:id",
	}
	for _, k := range expected {
		_, ok := got[k]
		require.True(t, ok, "missing route %s", k)
	}
}

func TestRouteGuards(t *testing.T) {
	e, dir := newTestEcho(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "projects"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "projects", "a.pdf"), []byte("%PDF-1.4"), 0o644))

	cases := []struct {
		method, path, token string
		code                int
	}{
		{http.MethodGet, "/api/categories", "", http.StatusOK},
		{http.MethodGet, "/api/projects", "", http.StatusOK},
		{http.MethodPost, "/api/projects", "", http.StatusUnauthorized},
		{http.MethodDelete, "/api/projects/1", "stale", http.StatusUnauthorized},
		{http.MethodGet, "/api/my-projects", "", http.StatusUnauthorized},
		{http.MethodGet, "/api/admin/projects", "", http.StatusUnauthorized},
		{http.MethodGet, "/api/admin/projects", "member", http.StatusForbidden},
		{http.MethodGet, "/api/admin/projects", "admin", http.StatusOK},
		{http.MethodGet, "/storage/projects/a.pdf", "", http.StatusOK},
		{http.MethodGet, "/api/nowhere", "", http.StatusNotFound},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		if tc.token != "" {
			req.Header.Set(echo.HeaderAuthorization, "Bearer "+tc.token)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		require.Equal(t, tc.code, rec.Code, "%s %s", tc.method, tc.path)
	}
}

func TestPingRoute(t *testing.T) {
	dir := t.TempDir()
	e := echo.New()
	e.HTTPErrorHandler = handler.HTTPErrorHandler
	Setup(e, Deps{
		DB:         &database.FakeDB{PingFn: func(context.Context) error { return errors.New("down") }},
		Cache:      &cache.FakeCache{},
		Projects:   catalog{},
		Sessions:   tokenVerifier{},
		Presenter:  handler.NewPresenter(nopAssets{}),
		StorageDir: dir,
	})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ping", nil))
	require.NotEqual(t, http.StatusOK, rec.Code)
}
