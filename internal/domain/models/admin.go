package models

import "time"

// Admin represents a privileged dashboard account
type Admin struct {
	BaseModel
	Name              string        `gorm:"type:varchar(100);not null" json:"name"`
	Email             string        `gorm:"type:varchar(100);unique;not null" json:"email"` // 全小写存储，唯一
	Password          string        `gorm:"type:varchar(100);not null" json:"-"`            // Password not exposed in JSON
	Role              Role          `gorm:"type:varchar(50);default:'admin'" json:"role"`
	Permissions       PermissionSet `gorm:"type:json" json:"permissions"`
	Status            string        `gorm:"type:varchar(20);default:'active'" json:"status"` // Status: active, inactive, suspended
	TwoFactorAuth     bool          `gorm:"default:false" json:"twofactor_auth"`
	LastLogin         *time.Time    `json:"last_login,omitempty"`
	PasswordChangedAt *time.Time    `json:"password_changed_at,omitempty"`
	Phone             string        `gorm:"type:varchar(20)" json:"phone"`
	Department        string        `gorm:"type:varchar(100)" json:"department"`
}

// 账户状态
const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusSuspended = "suspended"
)

// ValidStatus 判断账户状态是否合法
func ValidStatus(s string) bool {
	switch s {
	case StatusActive, StatusInactive, StatusSuspended:
		return true
	}
	return false
}

// Can 权限判定入口：超级管理员隐式放行，其余角色查询权限矩阵
func (a *Admin) Can(module string, action Action) bool {
	if a.Role.IsSuperAdmin() {
		return true
	}
	return a.Permissions.Allows(module, action)
}

// IsActive 账户是否处于可登录状态
func (a *Admin) IsActive() bool {
	return a.Status == StatusActive
}
