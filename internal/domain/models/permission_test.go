package models

import (
	"encoding/json"
	"testing"
)

func TestToggleGrantAndRevoke(t *testing.T) {
	p := PermissionSet{}

	p.Toggle("orders", ActionRead)
	if !p.Allows("orders", ActionRead) {
		t.Fatal("打开后应允许 orders/read")
	}

	p.Toggle("orders", ActionRead)
	if p.Allows("orders", ActionRead) {
		t.Fatal("再次切换后应收回 orders/read")
	}
	// 最后一个操作被收回后整个模块条目应消失
	if _, exists := p["orders"]; exists {
		t.Fatal("空的模块条目应被删除")
	}
}

func TestToggleDoubleToggleIdentity(t *testing.T) {
	p := PermissionSet{}
	p.Toggle("orders", ActionRead)
	p.Toggle("orders", ActionUpdate)
	p.Toggle("users", ActionDelete)

	before := p.Clone()

	p.Toggle("delivery", ActionCreate)
	p.Toggle("delivery", ActionCreate)

	if !p.Equal(before) {
		t.Fatalf("连续切换两次后矩阵应回到原状: got %v want %v", p, before)
	}
}

func TestToggleKeepsOtherActions(t *testing.T) {
	p := PermissionSet{}
	p.Toggle("orders", ActionRead)
	p.Toggle("orders", ActionUpdate)

	p.Toggle("orders", ActionUpdate)

	if !p.Allows("orders", ActionRead) {
		t.Fatal("收回 update 不应影响 read")
	}
	if p.Allows("orders", ActionUpdate) {
		t.Fatal("orders/update 应已收回")
	}
}

func TestAllowsUnknownModule(t *testing.T) {
	p := PermissionSet{}
	p.Toggle("orders", ActionRead)

	if p.Allows("unknown", ActionRead) {
		t.Fatal("未授权模块不应放行")
	}
	if p.Allows("orders", ActionDelete) {
		t.Fatal("未授权操作不应放行")
	}
}

func TestSuperAdminBypassesMatrix(t *testing.T) {
	admin := &Admin{Role: RoleSuperAdmin, Permissions: PermissionSet{}, Status: StatusActive}

	for _, module := range Modules {
		for _, action := range []Action{ActionRead, ActionCreate, ActionUpdate, ActionDelete} {
			if !admin.Can(module, action) {
				t.Fatalf("超级管理员应绕过矩阵: %s/%s", module, action)
			}
		}
	}
}

func TestRegularAdminUsesMatrix(t *testing.T) {
	admin := &Admin{Role: RoleDeliveryManager, Permissions: PermissionSet{}, Status: StatusActive}
	admin.Permissions.Toggle("delivery", ActionRead)

	if !admin.Can("delivery", ActionRead) {
		t.Fatal("矩阵中的权限应放行")
	}
	if admin.Can("delivery", ActionUpdate) {
		t.Fatal("矩阵外的操作不应放行")
	}
	if admin.Can("orders", ActionRead) {
		t.Fatal("矩阵外的模块不应放行")
	}
}

func TestParsePermissionsRejectsUnknown(t *testing.T) {
	cases := []struct {
		name    string
		entries []PermissionEntry
	}{
		{"未知模块", []PermissionEntry{{Module: "warehouse", Actions: []string{"read"}}}},
		{"未知操作", []PermissionEntry{{Module: "orders", Actions: []string{"approve"}}}},
		{"重复模块", []PermissionEntry{
			{Module: "orders", Actions: []string{"read"}},
			{Module: "orders", Actions: []string{"update"}},
		}},
		{"空操作集合", []PermissionEntry{{Module: "orders", Actions: []string{}}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParsePermissions(tc.entries); err == nil {
				t.Fatalf("应拒绝: %v", tc.entries)
			}
		})
	}
}

func TestParsePermissionsRoundTrip(t *testing.T) {
	entries := []PermissionEntry{
		{Module: "orders", Actions: []string{"read", "update"}},
		{Module: "admins", Actions: []string{"read"}},
	}

	p, err := ParsePermissions(entries)
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if !p.Allows("orders", ActionUpdate) || !p.Allows("admins", ActionRead) {
		t.Fatal("解析结果不完整")
	}

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("序列化失败: %v", err)
	}

	var restored PermissionSet
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("反序列化失败: %v", err)
	}
	if !restored.Equal(p) {
		t.Fatalf("序列化往返后矩阵不一致: %s", data)
	}
}

func TestPermissionSetSQLValue(t *testing.T) {
	p := PermissionSet{}
	p.Toggle("orders", ActionRead)

	v, err := p.Value()
	if err != nil {
		t.Fatalf("Value失败: %v", err)
	}

	var restored PermissionSet
	if err := restored.Scan(v); err != nil {
		t.Fatalf("Scan失败: %v", err)
	}
	if !restored.Allows("orders", ActionRead) {
		t.Fatal("数据库列往返后权限丢失")
	}
}
