// File: internal/model/user.go
package model

import "time"

const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

// ProfileDefault 是未填寫的個人資料欄位預設值
const ProfileDefault = "Not specified"

type User struct {
	ID           int       `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Course       string    `db:"course" json:"course"`
	School       string    `db:"school" json:"school"`
	Department   string    `db:"department" json:"department"`
	Bio          *string   `db:"bio" json:"bio"`
	AvatarPath   *string   `db:"avatar_path" json:"-"`
	Role         string    `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
