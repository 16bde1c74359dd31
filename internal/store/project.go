package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"project-hub/internal/database"
	"project-hub/internal/model"

	"github.com/jackc/pgx/v5"
)

const projectColumns = `id, title, description, file_path, thumbnail_path, upload_date, category_id, owner_id, created_at, updated_at`

// ProjectFilter 所有條件皆為選填，有設定的條件以 AND 組合
type ProjectFilter struct {
	OwnerID    *int
	CategoryID *int
	// Title 為不分大小寫的子字串比對
	Title *string
	// UploadDate 只比對日期部分
	UploadDate *time.Time
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// where 依 filter 產生 WHERE 子句與對應參數
func (f ProjectFilter) where() (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, strings.ReplaceAll(cond, "?", "$"+strconv.Itoa(len(args))))
	}
	if f.OwnerID != nil {
		add("owner_id = ?", *f.OwnerID)
	}
	if f.CategoryID != nil {
		add("category_id = ?", *f.CategoryID)
	}
	if f.Title != nil {
		add("title ILIKE '%' || ? || '%'", likeEscaper.Replace(*f.Title))
	}
	if f.UploadDate != nil {
		add("(upload_date AT TIME ZONE 'UTC')::date = ?::date", f.UploadDate.Format(time.DateOnly))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanProject(row rowScanner) (*model.Project, error) {
	p := &model.Project{}
	if err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Description,
		&p.FilePath,
		&p.ThumbnailPath,
		&p.UploadDate,
		&p.CategoryID,
		&p.OwnerID,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return p, nil
}

func GetProjectByID(ctx context.Context, db database.DB, id int) (*model.Project, error) {
	row := db.QueryRow(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = $1`,
		id,
	)
	p, err := scanProject(row)
	if err != nil {
		return nil, fmt.Errorf("GetProjectByID: %w", err)
	}
	return p, nil
}

// ListProjects 依建立順序由新到舊回傳符合 filter 的專案
func ListProjects(ctx context.Context, db database.DB, filter ProjectFilter) ([]model.Project, error) {
	where, args := filter.where()
	rows, err := db.Query(ctx,
		`SELECT `+projectColumns+` FROM projects`+where+` ORDER BY created_at DESC, id DESC`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("ListProjects: %w", err)
	}
	defer rows.Close()

	var list []model.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("ListProjects scan: %w", err)
		}
		list = append(list, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListProjects rows: %w", err)
	}
	return list, nil
}

func CreateProject(ctx context.Context, db database.DB, p *model.Project) (*model.Project, error) {
	row := db.QueryRow(ctx,
		`INSERT INTO projects (title, description, file_path, thumbnail_path, upload_date, category_id, owner_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at`,
		p.Title,
		p.Description,
		p.FilePath,
		p.ThumbnailPath,
		p.UploadDate,
		p.CategoryID,
		p.OwnerID,
	)
	if err := row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, fmt.Errorf("CreateProject: %w", err)
	}
	return p, nil
}

// UpdateProject 寫回可變欄位；upload_date 與 owner_id 不在更新範圍
func UpdateProject(ctx context.Context, db database.DB, p *model.Project) error {
	row := db.QueryRow(ctx,
		`UPDATE projects
		 SET title = $1, description = $2, file_path = $3, thumbnail_path = $4, category_id = $5, updated_at = now()
		 WHERE id = $6
		 RETURNING updated_at`,
		p.Title,
		p.Description,
		p.FilePath,
		p.ThumbnailPath,
		p.CategoryID,
		p.ID,
	)
	if err := row.Scan(&p.UpdatedAt); err != nil {
		return fmt.Errorf("UpdateProject: %w", err)
	}
	return nil
}

// DeleteProject 刪除指定專案，找不到時回傳包裝過的 pgx.ErrNoRows
func DeleteProject(ctx context.Context, db database.DB, id int) error {
	tag, err := db.Exec(ctx,
		`DELETE FROM projects WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("DeleteProject: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("DeleteProject: %w", pgx.ErrNoRows)
	}
	return nil
}
