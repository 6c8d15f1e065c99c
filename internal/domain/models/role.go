package models

import "fmt"

// Role 管理员角色，封闭枚举
type Role string

const (
	RoleSuperAdmin       Role = "super_admin"
	RoleAdmin            Role = "admin"
	RoleDeliveryManager  Role = "delivery_manager"
	RoleInventoryManager Role = "inventory_manager"
)

// 角色显示名称映射
var roleLabels = map[Role]string{
	RoleSuperAdmin:       "Super Admin",
	RoleAdmin:            "Admin",
	RoleDeliveryManager:  "Delivery Manager",
	RoleInventoryManager: "Inventory Manager",
}

// ErrInvalidRole 表示存储或输入中出现了枚举之外的角色值。
// 读取路径遇到时按数据完整性错误处理，不做静默纠正。
type ErrInvalidRole struct {
	Value string
}

func (e ErrInvalidRole) Error() string {
	return fmt.Sprintf("invalid admin role: %q", e.Value)
}

// ParseRole 校验并转换角色字符串
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", ErrInvalidRole{Value: s}
	}
	return r, nil
}

// Valid 判断角色是否属于封闭枚举
func (r Role) Valid() bool {
	_, ok := roleLabels[r]
	return ok
}

// IsSuperAdmin 超级管理员绕过权限矩阵，对所有模块/操作放行
func (r Role) IsSuperAdmin() bool {
	return r == RoleSuperAdmin
}

// Label 获取角色的显示名称
func (r Role) Label() string {
	if label, ok := roleLabels[r]; ok {
		return label
	}
	return string(r)
}

// ValidRoles 返回全部合法角色
func ValidRoles() []Role {
	return []Role{RoleSuperAdmin, RoleAdmin, RoleDeliveryManager, RoleInventoryManager}
}
