package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"project-hub/internal/database"
	"project-hub/internal/model"
	"project-hub/internal/storage"
	"project-hub/internal/store"
	"project-hub/internal/worker"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/gommon/log"
)

// ProjectBucket 是專案文件在 storage 中的 bucket
const ProjectBucket = "projects"

var (
	getProjectByID  = store.GetProjectByID
	listProjects    = store.ListProjects
	createProject   = store.CreateProject
	updateProject   = store.UpdateProject
	deleteProject   = store.DeleteProject
	getCategoryByID = store.GetCategoryByID
	listCategories  = store.ListCategories
	listUsersByIDs  = store.ListUsersByIDs
)

// ThumbnailPicker 依分類挑選預設縮圖
type ThumbnailPicker interface {
	PickCategoryThumbnail(category string) *string
}

// Upload 是已經通過格式與大小檢查的上傳檔案
type Upload struct {
	Filename string
	// Ext 是依內容判斷出的副檔名（例如 ".pdf"），儲存時只採用它
	Ext     string
	Content io.Reader
}

type CreateProjectInput struct {
	Title       string
	Description string
	CategoryID  int
	File        *Upload
}

// ProjectPatch 只有非 nil 的欄位會被更新
type ProjectPatch struct {
	Title       *string
	Description *string
	CategoryID  *int
	File        *Upload
}

// SearchCriteria 所有條件皆為選填，以 AND 組合
type SearchCriteria struct {
	Title      *string
	CategoryID *int
	UploadDate *time.Time
}

// ListFilter OwnerID 為 nil 時列出全部專案
type ListFilter struct {
	OwnerID *int
}

type Projects struct {
	db      database.DB
	files   storage.Store
	thumbs  ThumbnailPicker
	cleanup worker.Pool
}

func NewProjects(db database.DB, files storage.Store, thumbs ThumbnailPicker, cleanup worker.Pool) *Projects {
	return &Projects{db: db, files: files, thumbs: thumbs, cleanup: cleanup}
}

func (s *Projects) List(ctx context.Context, filter ListFilter) ([]model.Project, error) {
	list, err := listProjects(ctx, s.db, store.ProjectFilter{OwnerID: filter.OwnerID})
	if err != nil {
		return nil, err
	}
	return s.attach(ctx, list)
}

func (s *Projects) Search(ctx context.Context, c SearchCriteria) ([]model.Project, error) {
	filter := store.ProjectFilter{CategoryID: c.CategoryID, UploadDate: c.UploadDate}
	if c.Title != nil && *c.Title != "" {
		filter.Title = c.Title
	}
	list, err := listProjects(ctx, s.db, filter)
	if err != nil {
		return nil, err
	}
	return s.attach(ctx, list)
}

func (s *Projects) Get(ctx context.Context, id int) (*model.Project, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	list, err := s.attach(ctx, []model.Project{*p})
	if err != nil {
		return nil, err
	}
	return &list[0], nil
}

// Create 先驗證所有輸入，再寫檔、挑縮圖、寫入資料庫；upload_date 與 owner 由伺服器決定
func (s *Projects) Create(ctx context.Context, caller Caller, in CreateProjectInput) (*model.Project, error) {
	verr := &ValidationError{}
	checkTitle(verr, &in.Title)
	checkDescription(verr, &in.Description)
	if in.File == nil {
		verr.add("file", "The file field is required.")
	}
	category, err := s.category(ctx, verr, in.CategoryID)
	if err != nil {
		return nil, err
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	filePath, err := s.files.Put(ProjectBucket, in.File.Content, in.File.Filename, in.File.Ext)
	if err != nil {
		return nil, err
	}

	p, err := createProject(ctx, s.db, &model.Project{
		Title:         strings.TrimSpace(in.Title),
		Description:   in.Description,
		FilePath:      filePath,
		ThumbnailPath: s.thumbs.PickCategoryThumbnail(category.Name),
		UploadDate:    timeNow().UTC(),
		CategoryID:    category.ID,
		OwnerID:       caller.ID,
	})
	if err != nil {
		s.discard(filePath)
		return nil, err
	}
	p.Category = category
	return s.withOwner(ctx, p)
}

// Update 做部分更新。換檔時新檔寫入且資料庫更新成功後才刪除舊檔
func (s *Projects) Update(ctx context.Context, caller Caller, id int, patch ProjectPatch) (*model.Project, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanMutate(*p, caller) {
		return nil, ErrForbidden
	}

	verr := &ValidationError{}
	if patch.Title != nil {
		checkTitle(verr, patch.Title)
	}
	if patch.Description != nil {
		checkDescription(verr, patch.Description)
	}
	var category *model.Category
	if patch.CategoryID != nil {
		if category, err = s.category(ctx, verr, *patch.CategoryID); err != nil {
			return nil, err
		}
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	if patch.Title != nil {
		p.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if category != nil && category.ID != p.CategoryID {
		p.CategoryID = category.ID
		p.ThumbnailPath = s.thumbs.PickCategoryThumbnail(category.Name)
	}

	oldFile := p.FilePath
	if patch.File != nil {
		newFile, err := s.files.Put(ProjectBucket, patch.File.Content, patch.File.Filename, patch.File.Ext)
		if err != nil {
			return nil, err
		}
		p.FilePath = newFile
	}

	if err := updateProject(ctx, s.db, p); err != nil {
		if p.FilePath != oldFile {
			s.discard(p.FilePath)
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if p.FilePath != oldFile {
		if err := s.files.Delete(oldFile); err != nil {
			log.Warnf("project %d: remove replaced file %s: %v", p.ID, oldFile, err)
		}
	}
	list, err := s.attach(ctx, []model.Project{*p})
	if err != nil {
		return nil, err
	}
	return &list[0], nil
}

// Destroy 刪除紀錄後再刪檔；檔案刪除失敗只記錄，不影響結果
func (s *Projects) Destroy(ctx context.Context, caller Caller, id int) error {
	p, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !CanMutate(*p, caller) {
		return ErrForbidden
	}
	if err := deleteProject(ctx, s.db, p.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if p.FilePath != "" {
		if err := s.files.Delete(p.FilePath); err != nil {
			log.Warnf("project %d: remove file %s: %v", p.ID, p.FilePath, err)
		}
	}
	return nil
}

func (s *Projects) load(ctx context.Context, id int) (*model.Project, error) {
	p, err := getProjectByID(ctx, s.db, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// category 分類不存在時記為欄位錯誤，其他資料庫錯誤直接回傳
func (s *Projects) category(ctx context.Context, verr *ValidationError, id int) (*model.Category, error) {
	if id <= 0 {
		verr.add("category_id", "The category id field is required.")
		return nil, nil
	}
	c, err := getCategoryByID(ctx, s.db, id)
	if errors.Is(err, pgx.ErrNoRows) {
		verr.add("category_id", "The selected category id is invalid.")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// discard 在背景刪除寫入後用不到的檔案
func (s *Projects) discard(relPath string) {
	task := func() {
		if err := s.files.Delete(relPath); err != nil {
			log.Warnf("discard stored file %s: %v", relPath, err)
		}
	}
	if !s.cleanup.Submit(task) {
		task()
	}
}

func (s *Projects) withOwner(ctx context.Context, p *model.Project) (*model.Project, error) {
	owners, err := listUsersByIDs(ctx, s.db, []int{p.OwnerID})
	if err != nil {
		return nil, err
	}
	if len(owners) > 0 {
		p.Owner = &owners[0]
	}
	return p, nil
}

// attach 一次查出所有 owner 與 category 並附加到每筆專案
func (s *Projects) attach(ctx context.Context, list []model.Project) ([]model.Project, error) {
	if len(list) == 0 {
		return []model.Project{}, nil
	}

	seen := map[int]bool{}
	var ids []int
	for _, p := range list {
		if !seen[p.OwnerID] {
			seen[p.OwnerID] = true
			ids = append(ids, p.OwnerID)
		}
	}
	users, err := listUsersByIDs(ctx, s.db, ids)
	if err != nil {
		return nil, err
	}
	owners := make(map[int]*model.User, len(users))
	for i := range users {
		owners[users[i].ID] = &users[i]
	}

	cats, err := listCategories(ctx, s.db)
	if err != nil {
		return nil, err
	}
	categories := make(map[int]*model.Category, len(cats))
	for i := range cats {
		categories[cats[i].ID] = &cats[i]
	}

	for i := range list {
		list[i].Owner = owners[list[i].OwnerID]
		list[i].Category = categories[list[i].CategoryID]
	}
	return list, nil
}

func checkTitle(verr *ValidationError, title *string) {
	t := strings.TrimSpace(*title)
	switch {
	case t == "":
		verr.add("title", "The title field is required.")
	case utf8.RuneCountInString(t) > maxFieldLength:
		verr.add("title", "The title may not be greater than 255 characters.")
	}
}

func checkDescription(verr *ValidationError, desc *string) {
	if strings.TrimSpace(*desc) == "" {
		verr.add("description", "The description field is required.")
	}
}
