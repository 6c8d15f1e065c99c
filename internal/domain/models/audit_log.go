package models

// 审计动作类型
const (
	AuditAdminCreate       = "admin_create"
	AuditAdminUpdate       = "admin_update"
	AuditAdminDelete       = "admin_delete"
	AuditStatusChange      = "status_change"
	AuditPermissionsChange = "permissions_change"
	AuditPinRotate         = "pin_rotate"
)

// AuditLog 记录特权操作的审计日志
type AuditLog struct {
	BaseModel
	ActorID   uint   `json:"actor_id"` // 执行操作的管理员ID，0表示系统自动操作
	Action    string `gorm:"type:varchar(100);not null" json:"action"`
	TargetID  uint   `json:"target_id"` // 操作对象的管理员ID，无对象时为0
	Details   string `gorm:"type:text" json:"details"`
	RequestID string `gorm:"type:varchar(64)" json:"request_id"`
	IPAddress string `gorm:"type:varchar(45)" json:"ip_address"`
}
