// File: internal/router/router.go
package router

import (
	"project-hub/internal/cache"
	"project-hub/internal/database"
	"project-hub/internal/handler"
	"project-hub/internal/handler/auth"
	"project-hub/internal/handler/projects"
	"project-hub/internal/middleware"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// Deps 是註冊路由需要的所有元件
type Deps struct {
	DB        database.DB
	Cache     cache.Cache
	Accounts  auth.Accounts
	Projects  projects.Projects
	Sessions  middleware.Verifier
	Presenter *handler.Presenter
	// StorageDir 非空時以 /storage 對外提供上傳檔案與預設圖庫
	StorageDir string
	// AuthRate 限制每個 IP 每秒的註冊/登入次數，0 表示不限制
	AuthRate rate.Limit
}

// Setup 註冊所有路由與中介層
func Setup(e *echo.Echo, d Deps) {
	api := e.Group("/api")
	requireAuth := middleware.RequireAuth(d.Sessions)

	// 健康檢查
	api.GET("/ping", handler.PingHandler(d.DB, d.Cache))

	// 註冊、登入
	var throttle []echo.MiddlewareFunc
	if d.AuthRate > 0 {
		throttle = append(throttle, echomw.RateLimiter(echomw.NewRateLimiterMemoryStore(d.AuthRate)))
	}
	api.POST("/register", auth.RegisterHandler(d.Accounts, d.Presenter), throttle...)
	api.POST("/login", auth.LoginHandler(d.Accounts, d.Presenter), throttle...)

	// 公開瀏覽
	api.GET("/projects", projects.ListProjectsHandler(d.Projects, d.Presenter))
	api.GET("/projects/search", projects.SearchProjectsHandler(d.Projects, d.Presenter))
	api.GET("/projects/:id", projects.GetProjectHandler(d.Projects, d.Presenter))
	api.GET("/categories", projects.ListCategoriesHandler(d.Projects, d.Presenter))

	// 需登入
	api.POST("/logout", auth.LogoutHandler(d.Accounts), requireAuth)
	api.GET("/user", auth.GetMeHandler(d.Accounts, d.Presenter), requireAuth)
	api.GET("/my-projects", projects.ListMyProjectsHandler(d.Projects, d.Presenter), requireAuth)
	api.POST("/projects", projects.CreateProjectHandler(d.Projects, d.Presenter), requireAuth)
	api.PUT("/projects/:id", projects.UpdateProjectHandler(d.Projects, d.Presenter), requireAuth)
	api.PATCH("/projects/:id", projects.UpdateProjectHandler(d.Projects, d.Presenter), requireAuth)
	api.DELETE("/projects/:id", projects.DeleteProjectHandler(d.Projects), requireAuth)

	// 管理員專屬
	admin := api.Group("/admin", requireAuth, middleware.RequireAdmin)
	admin.GET("/projects", projects.ListProjectsHandler(d.Projects, d.Presenter))
	admin.GET("/projects/search", projects.SearchProjectsHandler(d.Projects, d.Presenter))
	admin.POST("/projects", projects.CreateProjectHandler(d.Projects, d.Presenter))
	admin.PUT("/projects/:id", projects.UpdateProjectHandler(d.Projects, d.Presenter))
	admin.DELETE("/projects/:id", projects.DeleteProjectHandler(d.Projects))

	if d.StorageDir != "" {
		e.Static("/storage", d.StorageDir)
	}
}
