package service

import "project-hub/internal/model"

// Caller 是明確傳入每個 service 呼叫的請求者身分
type Caller struct {
	ID   int
	Role string
}

func (c Caller) IsAdmin() bool { return c.Role == model.RoleAdmin }

// CanMutate 管理員或專案擁有者才能修改、刪除專案
func CanMutate(p model.Project, c Caller) bool {
	return c.IsAdmin() || (c.ID != 0 && c.ID == p.OwnerID)
}
