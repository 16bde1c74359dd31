// Package asset 挑選預設頭像與分類縮圖，並把相對路徑轉成對外的絕對 URL。
// 檔案是否存在在每次讀取時重新確認，不做快取。
package asset

import (
	"math/rand"
	"net/url"
	"path"
	"strings"

	"project-hub/internal/model"
	"project-hub/internal/storage"
)

const (
	AvatarPool    = "default/profiles"
	ThumbnailPool = "default/thumbnails"
)

var (
	avatarExts    = []string{"jpg", "jpeg", "png", "webp"}
	thumbnailExts = []string{"jpg", "jpeg", "png", "webp", "gif"}

	// categorySlugs 分類名稱（小寫）對應到縮圖資料夾
	categorySlugs = map[string]string{
		"education":   "educ",
		"environment": "env",
		"technology":  "tech",
		"health":      "med",
	}
)

// randIntN 測試可覆寫
var randIntN = rand.Intn

// Files 是 Resolver 需要的儲存能力，storage.Store 的子集
type Files interface {
	Exists(relPath string) bool
	List(dir string) ([]string, error)
}

var _ Files = (storage.Store)(nil)

type Resolver struct {
	files   Files
	baseURL string
}

func NewResolver(files Files, baseURL string) *Resolver {
	return &Resolver{files: files, baseURL: strings.TrimRight(baseURL, "/")}
}

// URL 把相對路徑接在公開 base URL 後面
func (r *Resolver) URL(relPath string) string {
	u, err := url.JoinPath(r.baseURL, strings.Split(relPath, "/")...)
	if err != nil {
		return r.baseURL + "/" + strings.TrimLeft(relPath, "/")
	}
	return u
}

// UserAvatar 回傳使用者頭像 URL；檔案不存在時改用預設圖庫的第一張，圖庫為空則回傳 nil
func (r *Resolver) UserAvatar(u model.User) *string {
	if u.AvatarPath != nil && *u.AvatarPath != "" && r.files.Exists(*u.AvatarPath) {
		s := r.URL(*u.AvatarPath)
		return &s
	}
	images := r.images(AvatarPool, avatarExts)
	if len(images) == 0 {
		return nil
	}
	s := r.URL(images[0])
	return &s
}

// PickDefaultAvatar 從預設頭像圖庫隨機挑一張
func (r *Resolver) PickDefaultAvatar() *string {
	return r.pick(AvatarPool, avatarExts)
}

// PickCategoryThumbnail 依分類名稱（不分大小寫）從對應的縮圖資料夾隨機挑一張
func (r *Resolver) PickCategoryThumbnail(category string) *string {
	slug, ok := categorySlugs[strings.ToLower(strings.TrimSpace(category))]
	if !ok {
		return nil
	}
	return r.pick(path.Join(ThumbnailPool, slug), thumbnailExts)
}

// ProjectThumbnail 縮圖可有可無，檔案不存在就回傳 nil
func (r *Resolver) ProjectThumbnail(p model.Project) *string {
	if p.ThumbnailPath == nil || *p.ThumbnailPath == "" || !r.files.Exists(*p.ThumbnailPath) {
		return nil
	}
	s := r.URL(*p.ThumbnailPath)
	return &s
}

func (r *Resolver) pick(dir string, exts []string) *string {
	images := r.images(dir, exts)
	if len(images) == 0 {
		return nil
	}
	chosen := images[randIntN(len(images))]
	return &chosen
}

// images 列出 dir 中副檔名符合的檔案；讀取失敗視同空圖庫
func (r *Resolver) images(dir string, exts []string) []string {
	files, err := r.files.List(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, f := range files {
		ext := strings.ToLower(strings.TrimPrefix(path.Ext(f), "."))
		for _, allowed := range exts {
			if ext == allowed {
				out = append(out, f)
				break
			}
		}
	}
	return out
}
