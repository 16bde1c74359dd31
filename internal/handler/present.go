package handler

import (
	"project-hub/internal/api"
	"project-hub/internal/model"
)

// Assets 把儲存的相對路徑轉成對外 URL，由 asset.Resolver 實作
type Assets interface {
	URL(relPath string) string
	UserAvatar(u model.User) *string
	ProjectThumbnail(p model.Project) *string
}

// Presenter 在 API 邊界把資料轉成回應格式並填入 URL 欄位
type Presenter struct {
	Assets Assets
}

func NewPresenter(a Assets) *Presenter {
	return &Presenter{Assets: a}
}

func (p *Presenter) User(u model.User) api.UserResponse {
	return api.UserResponse{
		ID:                u.ID,
		Name:              u.Name,
		Email:             u.Email,
		Course:            u.Course,
		School:            u.School,
		Department:        u.Department,
		Bio:               u.Bio,
		Role:              u.Role,
		ProfilePictureURL: p.Assets.UserAvatar(u),
		CreatedAt:         u.CreatedAt,
	}
}

func (p *Presenter) Category(c model.Category) api.CategoryResponse {
	return api.CategoryResponse{ID: c.ID, Name: c.Name}
}

func (p *Presenter) Categories(list []model.Category) []api.CategoryResponse {
	out := make([]api.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, p.Category(c))
	}
	return out
}

func (p *Presenter) Project(pr model.Project) api.ProjectResponse {
	resp := api.ProjectResponse{
		ID:            pr.ID,
		Title:         pr.Title,
		Description:   pr.Description,
		FilePath:      pr.FilePath,
		FileURL:       p.Assets.URL(pr.FilePath),
		ThumbnailPath: pr.ThumbnailPath,
		ThumbnailURL:  p.Assets.ProjectThumbnail(pr),
		UploadDate:    pr.UploadDate,
		CategoryID:    pr.CategoryID,
		OwnerID:       pr.OwnerID,
		CreatedAt:     pr.CreatedAt,
		UpdatedAt:     pr.UpdatedAt,
	}
	if pr.Category != nil {
		c := p.Category(*pr.Category)
		resp.Category = &c
	}
	if pr.Owner != nil {
		o := p.User(*pr.Owner)
		resp.Owner = &o
	}
	return resp
}

func (p *Presenter) Projects(list []model.Project) []api.ProjectResponse {
	out := make([]api.ProjectResponse, 0, len(list))
	for _, pr := range list {
		out = append(out, p.Project(pr))
	}
	return out
}
