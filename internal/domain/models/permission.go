package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
)

// Action 模块内的操作类型
type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// 操作的规范顺序，序列化时保持稳定输出
var actionOrder = []Action{ActionRead, ActionCreate, ActionUpdate, ActionDelete}

// Modules 平台的受控模块全集
var Modules = []string{
	"users", "orders", "products", "delivery", "merchants",
	"analytics", "categories", "admins", "system",
}

var moduleSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Modules))
	for _, name := range Modules {
		m[name] = struct{}{}
	}
	return m
}()

// ValidModule 判断模块名是否属于受控模块全集
func ValidModule(name string) bool {
	_, ok := moduleSet[name]
	return ok
}

// ValidAction 判断操作是否合法
func ValidAction(a Action) bool {
	switch a {
	case ActionRead, ActionCreate, ActionUpdate, ActionDelete:
		return true
	}
	return false
}

// ActionSet 某个模块下被允许的操作集合
type ActionSet map[Action]struct{}

// Has 判断集合中是否包含某操作
func (s ActionSet) Has(a Action) bool {
	_, ok := s[a]
	return ok
}

// PermissionSet 管理员的权限矩阵，按模块建键，每个模块至多一条。
// 空操作集不允许存在：切空即删除整个模块条目。
type PermissionSet map[string]ActionSet

// PermissionEntry 权限的传输形态，与管理后台约定的JSON结构一致
type PermissionEntry struct {
	Module  string   `json:"module"`
	Actions []string `json:"actions"`
}

// Allows 权限矩阵查询。仅对非超级管理员角色调用；
// 未知模块/操作不会命中任何条目，自然返回 false。
func (p PermissionSet) Allows(module string, action Action) bool {
	actions, ok := p[module]
	if !ok {
		return false
	}
	return actions.Has(action)
}

// Toggle 翻转某模块下的某操作：无条目则新建，已含则移除，
// 移除后集合为空则删除整个条目。对相同输入连续调用两次回到原状态。
func (p PermissionSet) Toggle(module string, action Action) {
	actions, ok := p[module]
	if !ok {
		p[module] = ActionSet{action: {}}
		return
	}
	if actions.Has(action) {
		delete(actions, action)
		if len(actions) == 0 {
			delete(p, module)
		}
		return
	}
	actions[action] = struct{}{}
}

// Clone 深拷贝权限矩阵
func (p PermissionSet) Clone() PermissionSet {
	out := make(PermissionSet, len(p))
	for module, actions := range p {
		copied := make(ActionSet, len(actions))
		for a := range actions {
			copied[a] = struct{}{}
		}
		out[module] = copied
	}
	return out
}

// Equal 判断两个权限矩阵的成员是否一致
func (p PermissionSet) Equal(other PermissionSet) bool {
	if len(p) != len(other) {
		return false
	}
	for module, actions := range p {
		otherActions, ok := other[module]
		if !ok || len(actions) != len(otherActions) {
			return false
		}
		for a := range actions {
			if !otherActions.Has(a) {
				return false
			}
		}
	}
	return true
}

// Entries 转换为传输形态，模块和操作均按规范顺序排序
func (p PermissionSet) Entries() []PermissionEntry {
	modules := make([]string, 0, len(p))
	for module := range p {
		modules = append(modules, module)
	}
	sort.Strings(modules)

	entries := make([]PermissionEntry, 0, len(modules))
	for _, module := range modules {
		actions := p[module]
		names := make([]string, 0, len(actions))
		for _, a := range actionOrder {
			if actions.Has(a) {
				names = append(names, string(a))
			}
		}
		entries = append(entries, PermissionEntry{Module: module, Actions: names})
	}
	return entries
}

// ParsePermissions 在输入边界校验并构造权限矩阵：
// 未知模块、未知操作、空操作集、重复模块条目均拒绝。
func ParsePermissions(entries []PermissionEntry) (PermissionSet, error) {
	p := make(PermissionSet, len(entries))
	for _, entry := range entries {
		if !ValidModule(entry.Module) {
			return nil, fmt.Errorf("unknown permission module: %q", entry.Module)
		}
		if _, dup := p[entry.Module]; dup {
			return nil, fmt.Errorf("duplicate permission entry for module: %q", entry.Module)
		}
		if len(entry.Actions) == 0 {
			return nil, fmt.Errorf("empty action set for module: %q", entry.Module)
		}
		actions := make(ActionSet, len(entry.Actions))
		for _, name := range entry.Actions {
			a := Action(name)
			if !ValidAction(a) {
				return nil, fmt.Errorf("unknown permission action: %q", name)
			}
			actions[a] = struct{}{}
		}
		p[entry.Module] = actions
	}
	return p, nil
}

// MarshalJSON 输出为 [{module, actions}] 列表
func (p PermissionSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Entries())
}

// UnmarshalJSON 从 [{module, actions}] 列表解析
func (p *PermissionSet) UnmarshalJSON(data []byte) error {
	var entries []PermissionEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	parsed, err := ParsePermissions(entries)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Value 实现 driver.Valuer，权限矩阵以JSON列存储
func (p PermissionSet) Value() (driver.Value, error) {
	if p == nil {
		return "[]", nil
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan 实现 sql.Scanner
func (p *PermissionSet) Scan(value interface{}) error {
	if value == nil {
		*p = PermissionSet{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan permission set from %T", value)
	}

	if len(data) == 0 {
		*p = PermissionSet{}
		return nil
	}
	return p.UnmarshalJSON(data)
}
