// Package storage 保存上傳檔案並提供預設圖庫的讀取。
// 所有路徑都是相對於根目錄、以 "/" 分隔的相對路徑，資料庫只存這種路徑。
package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// Store 是 service 與 asset 層使用的檔案儲存介面
type Store interface {
	// Put 把 r 的內容寫入 bucket 底下新產生的路徑並回傳該相對路徑。
	// 副檔名只取 ext（由內容判斷而來），originalName 僅提供可讀的檔名部分。
	Put(bucket string, r io.Reader, originalName, ext string) (string, error)
	// Delete 刪除檔案；檔案不存在不算錯誤
	Delete(relPath string) error
	Exists(relPath string) bool
	// List 依檔名排序回傳 dir 底下的一般檔案；目錄不存在時回傳空結果
	List(dir string) ([]string, error)
}

// Error 表示磁碟或權限等儲存層失敗
type Error struct {
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

var ErrInvalidPath = errors.New("invalid storage path")

// maxNameLen 限制檔名中可讀部分的長度
const maxNameLen = 48

var newID = func() string { return uuid.NewString() }

// Local 是以本機目錄為根的 Store
type Local struct {
	root string
}

func NewLocal(root string) (*Local, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, &Error{Op: "init", Path: root, Err: err}
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, &Error{Op: "init", Path: abs, Err: err}
	}
	return &Local{root: abs}, nil
}

// Root 回傳根目錄的絕對路徑
func (l *Local) Root() string { return l.root }

// clean 檢查相對路徑並轉成根目錄下的實際路徑，拒絕跳出根目錄的路徑
func (l *Local) clean(relPath string) (string, error) {
	if relPath == "" || strings.HasPrefix(relPath, "/") || strings.Contains(relPath, `\`) {
		return "", ErrInvalidPath
	}
	cleaned := path.Clean(relPath)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ErrInvalidPath
	}
	return filepath.Join(l.root, filepath.FromSlash(cleaned)), nil
}

// fileName 產生 "<uuid>-<slug><ext>"，uuid 保證唯一，slug 只是方便辨識。
// 原始檔名的副檔名一律捨棄。
func fileName(originalName, ext string) string {
	base := filepath.Base(originalName)
	name := slug.Make(strings.TrimSuffix(base, filepath.Ext(base)))
	ext = normalizeExt(ext)
	if len(name) > maxNameLen {
		name = strings.Trim(name[:maxNameLen], "-")
	}
	if name == "" {
		return newID() + ext
	}
	return newID() + "-" + name + ext
}

// normalizeExt 回傳 ".xxx" 形式的小寫副檔名，只允許英數字
func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if ext == "" {
		return ""
	}
	for _, r := range ext {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return "." + ext
}

func (l *Local) Put(bucket string, r io.Reader, originalName, ext string) (string, error) {
	dir, err := l.clean(bucket)
	if err != nil {
		return "", &Error{Op: "put", Path: bucket, Err: err}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &Error{Op: "put", Path: bucket, Err: err}
	}

	rel := path.Join(path.Clean(bucket), fileName(originalName, ext))
	full := filepath.Join(dir, path.Base(rel))

	// O_EXCL 確保絕不覆寫既有檔案
	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", &Error{Op: "put", Path: rel, Err: err}
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(full)
		return "", &Error{Op: "put", Path: rel, Err: err}
	}
	if err := f.Close(); err != nil {
		os.Remove(full)
		return "", &Error{Op: "put", Path: rel, Err: err}
	}
	return rel, nil
}

func (l *Local) Delete(relPath string) error {
	full, err := l.clean(relPath)
	if err != nil {
		return &Error{Op: "delete", Path: relPath, Err: err}
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &Error{Op: "delete", Path: relPath, Err: err}
	}
	return nil
}

func (l *Local) Exists(relPath string) bool {
	full, err := l.clean(relPath)
	if err != nil {
		return false
	}
	info, err := os.Stat(full)
	return err == nil && info.Mode().IsRegular()
}

func (l *Local) List(dir string) ([]string, error) {
	full, err := l.clean(dir)
	if err != nil {
		return nil, &Error{Op: "list", Path: dir, Err: err}
	}
	entries, err := os.ReadDir(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &Error{Op: "list", Path: dir, Err: err}
	}

	var files []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		files = append(files, path.Join(path.Clean(dir), e.Name()))
	}
	return files, nil
}
