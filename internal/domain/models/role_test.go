package models

import (
	"errors"
	"testing"
)

func TestParseRoleClosedEnum(t *testing.T) {
	valid := []string{"super_admin", "admin", "delivery_manager", "inventory_manager"}
	for _, s := range valid {
		role, err := ParseRole(s)
		if err != nil {
			t.Fatalf("合法角色被拒绝: %s: %v", s, err)
		}
		if string(role) != s {
			t.Fatalf("角色值不一致: got %s want %s", role, s)
		}
	}

	invalid := []string{"", "root", "SUPER_ADMIN", "superadmin", "manager"}
	for _, s := range invalid {
		if _, err := ParseRole(s); err == nil {
			t.Fatalf("非法角色应被拒绝: %q", s)
		}
	}
}

func TestParseRoleErrorType(t *testing.T) {
	_, err := ParseRole("root")

	var invalidRole ErrInvalidRole
	if !errors.As(err, &invalidRole) {
		t.Fatalf("应返回 ErrInvalidRole, got %T", err)
	}
	if invalidRole.Value != "root" {
		t.Fatalf("错误应携带原始值: %q", invalidRole.Value)
	}
}

func TestRoleLabels(t *testing.T) {
	cases := map[Role]string{
		RoleSuperAdmin:       "Super Admin",
		RoleAdmin:            "Admin",
		RoleDeliveryManager:  "Delivery Manager",
		RoleInventoryManager: "Inventory Manager",
	}
	for role, want := range cases {
		if got := role.Label(); got != want {
			t.Errorf("角色 %s 的展示名: got %q want %q", role, got, want)
		}
	}
}

func TestIsSuperAdmin(t *testing.T) {
	if !RoleSuperAdmin.IsSuperAdmin() {
		t.Fatal("super_admin 应被识别为超级管理员")
	}
	for _, role := range []Role{RoleAdmin, RoleDeliveryManager, RoleInventoryManager} {
		if role.IsSuperAdmin() {
			t.Errorf("%s 不应被识别为超级管理员", role)
		}
	}
}
