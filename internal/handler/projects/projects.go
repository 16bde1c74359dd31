package projects

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"project-hub/internal/api"
	"project-hub/internal/handler"
	"project-hub/internal/middleware"
	"project-hub/internal/model"
	"project-hub/internal/service"

	"github.com/labstack/echo/v4"
)

// Projects 是 handler 需要的專案服務，由 service.Projects 實作
type Projects interface {
	List(ctx context.Context, filter service.ListFilter) ([]model.Project, error)
	Search(ctx context.Context, c service.SearchCriteria) ([]model.Project, error)
	Get(ctx context.Context, id int) (*model.Project, error)
	Create(ctx context.Context, caller service.Caller, in service.CreateProjectInput) (*model.Project, error)
	Update(ctx context.Context, caller service.Caller, id int, patch service.ProjectPatch) (*model.Project, error)
	Destroy(ctx context.Context, caller service.Caller, id int) error
	Categories(ctx context.Context) ([]model.Category, error)
}

func projectID(c echo.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	return id, err == nil && id > 0
}

func badID(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid project id"})
}

// ListProjectsHandler 列出所有專案，新的在前
// @Summary     列出專案
// @Tags        projects
// @Produce     json
// @Success     200 {array}  api.ProjectResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /projects [get]
// @Router      /admin/projects [get]
func ListProjectsHandler(svc Projects, p *handler.Presenter) echo.HandlerFunc {
	return func(c echo.Context) error {
		list, err := svc.List(c.Request().Context(), service.ListFilter{})
		if err != nil {
			return handler.RespondError(c, err)
		}
		return c.JSON(http.StatusOK, p.Projects(list))
	}
}

// ListMyProjectsHandler 列出目前使用者上傳的專案
// @Summary     我的專案
// @Tags        projects
// @Produce     json
// @Success     200 {array}  api.ProjectResponse
// @Failure     401 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /my-projects [get]
func ListMyProjectsHandler(svc Projects, p *handler.Presenter) echo.HandlerFunc {
	return func(c echo.Context) error {
		caller := middleware.CallerFrom(c)
		if caller.ID == 0 {
			return handler.RespondError(c, service.ErrSessionRevoked)
		}
		list, err := svc.List(c.Request().Context(), service.ListFilter{OwnerID: &caller.ID})
		if err != nil {
			return handler.RespondError(c, err)
		}
		return c.JSON(http.StatusOK, p.Projects(list))
	}
}

// SearchProjectsHandler 依標題、分類、上傳日期搜尋，條件以 AND 組合
// @Summary     搜尋專案
// @Tags        projects
// @Produce     json
// @Param       title       query string false "標題（不分大小寫的部分比對）"
// @Param       category_id query int    false "分類 ID"
// @Param       upload_date query string false "上傳日期 YYYY-MM-DD"
// @Success     200 {array}  api.ProjectResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     422 {object} api.ErrorResponse
// @Router      /projects/search [get]
// @Router      /admin/projects/search [get]
func SearchProjectsHandler(svc Projects, p *handler.Presenter) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.SearchProjectsRequest
		if err := c.Bind(&req); err != nil {
			return handler.BindFailed(c)
		}
		if err := c.Validate(&req); err != nil {
			return handler.ValidationFailed(c, err)
		}

		criteria := service.SearchCriteria{CategoryID: req.CategoryID}
		// 標題原樣做部分比對，只有空字串視為不篩選
		if req.Title != "" {
			title := req.Title
			criteria.Title = &title
		}
		if req.UploadDate != "" {
			d, err := time.Parse(time.DateOnly, req.UploadDate)
			if err != nil {
				return handler.RespondError(c, &service.ValidationError{Fields: map[string]string{
					"upload_date": "The upload date does not match the format Y-m-d.",
				}})
			}
			criteria.UploadDate = &d
		}

		list, err := svc.Search(c.Request().Context(), criteria)
		if err != nil {
			return handler.RespondError(c, err)
		}
		return c.JSON(http.StatusOK, p.Projects(list))
	}
}

// GetProjectHandler 取得單一專案
// @Summary     專案詳情
// @Tags        projects
// @Produce     json
// @Param       id path int true "專案 ID"
// @Success     200 {object} api.ProjectResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Router      /projects/{id} [get]
func GetProjectHandler(svc Projects, p *handler.Presenter) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := projectID(c)
		if !ok {
			return badID(c)
		}
		project, err := svc.Get(c.Request().Context(), id)
		if err != nil {
			return handler.RespondError(c, err)
		}
		return c.JSON(http.StatusOK, p.Project(*project))
	}
}

// CreateProjectHandler 上傳專案文件（PDF/DOCX，20 MiB 以內）
// @Summary     上傳專案
// @Tags        projects
// @Accept      multipart/form-data
// @Produce     json
// @Param       title       formData string true "標題"
// @Param       description formData string true "說明"
// @Param       category_id formData int    true "分類 ID"
// @Param       file        formData file   true "專案文件"
// @Success     201 {object} api.ProjectResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     422 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /projects [post]
// @Router      /admin/projects [post]
func CreateProjectHandler(svc Projects, p *handler.Presenter) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.CreateProjectRequest
		if err := c.Bind(&req); err != nil {
			return handler.BindFailed(c)
		}
		if err := c.Validate(&req); err != nil {
			return handler.ValidationFailed(c, err)
		}

		file, closer, err := handler.ReadUpload(c, "file")
		if err != nil {
			return handler.RespondError(c, err)
		}
		if file == nil {
			return handler.RespondError(c, &service.ValidationError{Fields: map[string]string{
				"file": "The file field is required.",
			}})
		}
		defer closer.Close()

		project, err := svc.Create(c.Request().Context(), middleware.CallerFrom(c), service.CreateProjectInput{
			Title:       req.Title,
			Description: req.Description,
			CategoryID:  req.CategoryID,
			File:        file,
		})
		if err != nil {
			return handler.RespondError(c, err)
		}
		return c.JSON(http.StatusCreated, p.Project(*project))
	}
}

// UpdateProjectHandler 部分更新專案；只有擁有者或管理員可以修改
// @Summary     更新專案
// @Tags        projects
// @Accept      multipart/form-data
// @Produce     json
// @Param       id          path     int    true  "專案 ID"
// @Param       title       formData string false "標題"
// @Param       description formData string false "說明"
// @Param       category_id formData int    false "分類 ID"
// @Param       file        formData file   false "新的專案文件"
// @Success     200 {object} api.ProjectResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     403 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     422 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /projects/{id} [put]
// @Router      /projects/{id} [patch]
// @Router      /admin/projects/{id} [put]
func UpdateProjectHandler(svc Projects, p *handler.Presenter) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := projectID(c)
		if !ok {
			return badID(c)
		}
		var req api.UpdateProjectRequest
		if err := c.Bind(&req); err != nil {
			return handler.BindFailed(c)
		}
		if err := c.Validate(&req); err != nil {
			return handler.ValidationFailed(c, err)
		}

		file, closer, err := handler.ReadUpload(c, "file")
		if err != nil {
			return handler.RespondError(c, err)
		}
		if closer != nil {
			defer closer.Close()
		}

		project, err := svc.Update(c.Request().Context(), middleware.CallerFrom(c), id, service.ProjectPatch{
			Title:       req.Title,
			Description: req.Description,
			CategoryID:  req.CategoryID,
			File:        file,
		})
		if err != nil {
			return handler.RespondError(c, err)
		}
		return c.JSON(http.StatusOK, p.Project(*project))
	}
}

// DeleteProjectHandler 刪除專案與其文件；只有擁有者或管理員可以刪除
// @Summary     刪除專案
// @Tags        projects
// @Produce     json
// @Param       id path int true "專案 ID"
// @Success     200 {object} api.MessageResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     403 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /projects/{id} [delete]
// @Router      /admin/projects/{id} [delete]
func DeleteProjectHandler(svc Projects) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := projectID(c)
		if !ok {
			return badID(c)
		}
		if err := svc.Destroy(c.Request().Context(), middleware.CallerFrom(c), id); err != nil {
			return handler.RespondError(c, err)
		}
		return c.JSON(http.StatusOK, api.MessageResponse{Message: "Project deleted successfully"})
	}
}

// ListCategoriesHandler 列出所有分類
// @Summary     列出分類
// @Tags        categories
// @Produce     json
// @Success     200 {array}  api.CategoryResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /categories [get]
func ListCategoriesHandler(svc Projects, p *handler.Presenter) echo.HandlerFunc {
	return func(c echo.Context) error {
		list, err := svc.Categories(c.Request().Context())
		if err != nil {
			return handler.RespondError(c, err)
		}
		return c.JSON(http.StatusOK, p.Categories(list))
	}
}
