package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"grojet-admin-service/internal/domain/models"
	"grojet-admin-service/internal/infrastructure/config"
	"grojet-admin-service/pkg/logger"
	"grojet-admin-service/utils"

	"gorm.io/gorm"
)

// InterfaceAdminService 管理员服务接口
type InterfaceAdminService interface {
	CheckPassword(password, hash string) bool
	GetAdminByID(id uint) (*models.Admin, error)
	GetAdminByEmail(email string) (*models.Admin, error)
	ListAdmins(query *AdminListQuery) ([]models.Admin, int64, error)
	CreateAdmin(actorID uint, input *CreateAdminInput) (*models.Admin, error)
	UpdateAdmin(actorID, id uint, input *UpdateAdminInput) (*models.Admin, error)
	UpdateStatus(actorID, id uint, status string) (*models.Admin, error)
	UpdatePermissions(actorID, id uint, permissions models.PermissionSet) (*models.Admin, error)
	DeleteAdmin(actorID, id uint) error
	ChangePassword(id uint, currentPassword, newPassword string) error
	SetTwoFactor(id uint, enabled bool) (*models.Admin, error)
	RecordLogin(id uint) error
	GetPinHash() (string, error)
	RotatePin(actorID uint, newPin string) error
	EnsureSeedData() error
}

// AdminListQuery 管理员列表查询条件
type AdminListQuery struct {
	Page     int
	PageSize int
	Search   string
	Role     string
	Status   string
}

// CreateAdminInput 创建管理员的输入
type CreateAdminInput struct {
	Name        string
	Email       string
	Password    string
	Role        models.Role
	Permissions models.PermissionSet
	Phone       string
	Department  string
}

// UpdateAdminInput 更新管理员资料的输入，nil字段保持不变
type UpdateAdminInput struct {
	Name        *string
	Email       *string
	Role        *models.Role
	Permissions models.PermissionSet
	Phone       *string
	Department  *string
}

// AdminService 提供管理员生命周期相关的服务
type AdminService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewAdminService 创建一个新的管理员服务
func NewAdminService(db *gorm.DB, cfg *config.Config) InterfaceAdminService {
	return &AdminService{
		DB:     db,
		Config: cfg,
	}
}

// ValidatePassword 校验密码强度
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return &ValidationError{Msg: "密码长度至少8位"}
	}
	return nil
}

// ValidateCreateAdminInput 校验创建管理员的输入
func ValidateCreateAdminInput(input *CreateAdminInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return &ValidationError{Msg: "姓名不能为空"}
	}
	if strings.TrimSpace(input.Email) == "" {
		return &ValidationError{Msg: "邮箱不能为空"}
	}
	if err := ValidatePassword(input.Password); err != nil {
		return err
	}
	if !input.Role.Valid() {
		return models.ErrInvalidRole{Value: string(input.Role)}
	}
	return nil
}

// CheckPassword 验证密码是否匹配
func (s *AdminService) CheckPassword(password, hash string) bool {
	return utils.CheckPasswordHash(password, hash)
}

// GetAdminByID 根据ID获取管理员
func (s *AdminService) GetAdminByID(id uint) (*models.Admin, error) {
	var admin models.Admin
	if err := s.DB.First(&admin, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return &admin, nil
}

// GetAdminByEmail 根据邮箱获取管理员，邮箱不区分大小写
func (s *AdminService) GetAdminByEmail(email string) (*models.Admin, error) {
	var admin models.Admin
	if err := s.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return &admin, nil
}

// ListAdmins 获取管理员列表，支持分页、搜索和筛选
func (s *AdminService) ListAdmins(query *AdminListQuery) ([]models.Admin, int64, error) {
	var admins []models.Admin
	var total int64

	db := s.DB.Model(&models.Admin{})

	if query.Search != "" {
		like := "%" + query.Search + "%"
		db = db.Where("name LIKE ? OR email LIKE ?", like, like)
	}
	if query.Role != "" {
		db = db.Where("role = ?", query.Role)
	}
	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if query.Page < 1 {
		query.Page = 1
	}
	if query.PageSize < 1 || query.PageSize > 100 {
		query.PageSize = 20
	}

	offset := (query.Page - 1) * query.PageSize
	if err := db.Order("id ASC").Offset(offset).Limit(query.PageSize).Find(&admins).Error; err != nil {
		return nil, 0, err
	}

	return admins, total, nil
}

// CreateAdmin 创建新管理员。邮箱全局唯一，新账号一律以激活状态进入。
func (s *AdminService) CreateAdmin(actorID uint, input *CreateAdminInput) (*models.Admin, error) {
	if err := ValidateCreateAdminInput(input); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	var count int64
	if err := s.DB.Model(&models.Admin{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("密码加密失败: %v", err)
	}

	permissions := input.Permissions
	if permissions == nil {
		permissions = models.PermissionSet{}
	}

	admin := &models.Admin{
		Name:        strings.TrimSpace(input.Name),
		Email:       email,
		Password:    hashed,
		Role:        input.Role,
		Permissions: permissions,
		Status:      models.StatusActive,
		Phone:       input.Phone,
		Department:  input.Department,
	}

	if err := s.DB.Create(admin).Error; err != nil {
		return nil, err
	}

	s.audit(actorID, models.AuditAdminCreate, admin.ID, fmt.Sprintf("role=%s email=%s", admin.Role, admin.Email))
	return admin, nil
}

// UpdateAdmin 更新管理员资料
func (s *AdminService) UpdateAdmin(actorID, id uint, input *UpdateAdminInput) (*models.Admin, error) {
	admin, err := s.GetAdminByID(id)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if email != admin.Email {
			var count int64
			if err := s.DB.Model(&models.Admin{}).Where("email = ? AND id != ?", email, admin.ID).Count(&count).Error; err != nil {
				return nil, err
			}
			if count > 0 {
				return nil, ErrEmailTaken
			}
			admin.Email = email
		}
	}

	if input.Name != nil {
		admin.Name = strings.TrimSpace(*input.Name)
	}
	if input.Phone != nil {
		admin.Phone = *input.Phone
	}
	if input.Department != nil {
		admin.Department = *input.Department
	}

	if input.Role != nil && *input.Role != admin.Role {
		if !input.Role.Valid() {
			return nil, models.ErrInvalidRole{Value: string(*input.Role)}
		}
		// 不允许把最后一个超级管理员降级
		if admin.Role.IsSuperAdmin() && !input.Role.IsSuperAdmin() {
			if err := s.ensureNotLastSuperAdmin(admin.ID); err != nil {
				return nil, err
			}
		}
		admin.Role = *input.Role
	}

	if input.Permissions != nil {
		admin.Permissions = input.Permissions
	}

	if err := s.DB.Save(admin).Error; err != nil {
		return nil, err
	}

	s.audit(actorID, models.AuditAdminUpdate, admin.ID, "")
	return admin, nil
}

// UpdateStatus 修改管理员状态。不允许操作自己的状态。
func (s *AdminService) UpdateStatus(actorID, id uint, status string) (*models.Admin, error) {
	if actorID == id {
		return nil, ErrSelfModification
	}
	if !models.ValidStatus(status) {
		return nil, &ValidationError{Msg: fmt.Sprintf("无效的状态: %s", status)}
	}

	admin, err := s.GetAdminByID(id)
	if err != nil {
		return nil, err
	}

	if admin.Role.IsSuperAdmin() && status != models.StatusActive {
		if err := s.ensureNotLastSuperAdmin(admin.ID); err != nil {
			return nil, err
		}
	}

	admin.Status = status
	if err := s.DB.Save(admin).Error; err != nil {
		return nil, err
	}

	s.audit(actorID, models.AuditStatusChange, admin.ID, "status="+status)
	return admin, nil
}

// UpdatePermissions 整体替换管理员的权限矩阵
func (s *AdminService) UpdatePermissions(actorID, id uint, permissions models.PermissionSet) (*models.Admin, error) {
	admin, err := s.GetAdminByID(id)
	if err != nil {
		return nil, err
	}

	if permissions == nil {
		permissions = models.PermissionSet{}
	}
	admin.Permissions = permissions

	if err := s.DB.Save(admin).Error; err != nil {
		return nil, err
	}

	s.audit(actorID, models.AuditPermissionsChange, admin.ID, "")
	return admin, nil
}

// DeleteAdmin 硬删除管理员。不允许删除自己，也不允许删除最后一个超级管理员。
func (s *AdminService) DeleteAdmin(actorID, id uint) error {
	if actorID == id {
		return ErrSelfModification
	}

	admin, err := s.GetAdminByID(id)
	if err != nil {
		return err
	}

	// 最后一个超级管理员的判定和删除放在同一事务里，
	// 避免并发删除把超级管理员清空
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if admin.Role.IsSuperAdmin() {
			var count int64
			if err := tx.Model(&models.Admin{}).
				Where("role = ? AND status = ? AND id != ?", models.RoleSuperAdmin, models.StatusActive, admin.ID).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrLastSuperAdmin
			}
		}
		return tx.Unscoped().Delete(admin).Error
	})
	if err != nil {
		return err
	}

	s.audit(actorID, models.AuditAdminDelete, id, "email="+admin.Email)
	return nil
}

// ChangePassword 管理员修改自己的密码，必须先验证当前密码
func (s *AdminService) ChangePassword(id uint, currentPassword, newPassword string) error {
	admin, err := s.GetAdminByID(id)
	if err != nil {
		return err
	}

	if !utils.CheckPasswordHash(currentPassword, admin.Password) {
		return ErrPasswordIncorrect
	}
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("密码加密失败: %v", err)
	}

	now := time.Now()
	return s.DB.Model(admin).Updates(map[string]interface{}{
		"password":            hashed,
		"password_changed_at": &now,
	}).Error
}

// SetTwoFactor 开关管理员的两步验证
func (s *AdminService) SetTwoFactor(id uint, enabled bool) (*models.Admin, error) {
	admin, err := s.GetAdminByID(id)
	if err != nil {
		return nil, err
	}

	admin.TwoFactorAuth = enabled
	if err := s.DB.Model(admin).Update("two_factor_auth", enabled).Error; err != nil {
		return nil, err
	}
	return admin, nil
}

// RecordLogin 更新最近登录时间
func (s *AdminService) RecordLogin(id uint) error {
	now := time.Now()
	return s.DB.Model(&models.Admin{}).Where("id = ?", id).Update("last_login", &now).Error
}

// GetPinHash 读取当前授权PIN的哈希
func (s *AdminService) GetPinHash() (string, error) {
	var setting models.AuthSetting
	if err := s.DB.First(&setting).Error; err != nil {
		return "", err
	}
	return setting.PinHash, nil
}

// RotatePin 轮换授权PIN。旧PIN立即作废，只向前生效，
// 已签发的OTP和令牌不受影响。
func (s *AdminService) RotatePin(actorID uint, newPin string) error {
	if len(newPin) < 4 {
		return &ValidationError{Msg: "PIN长度至少4位"}
	}

	hashed, err := utils.HashPassword(newPin)
	if err != nil {
		return fmt.Errorf("PIN加密失败: %v", err)
	}

	var setting models.AuthSetting
	if err := s.DB.First(&setting).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		setting = models.AuthSetting{PinHash: hashed}
		if err := s.DB.Create(&setting).Error; err != nil {
			return err
		}
	} else {
		if err := s.DB.Model(&setting).Update("pin_hash", hashed).Error; err != nil {
			return err
		}
	}

	s.audit(actorID, models.AuditPinRotate, 0, "")
	return nil
}

// EnsureSeedData 确保默认超级管理员和授权PIN存在，服务启动时调用
func (s *AdminService) EnsureSeedData() error {
	var count int64
	if err := s.DB.Model(&models.Admin{}).Where("role = ?", models.RoleSuperAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		hashed, err := utils.HashPassword(s.Config.DefaultAdminPassword)
		if err != nil {
			return err
		}
		admin := &models.Admin{
			Name:        "Super Admin",
			Email:       strings.ToLower(s.Config.DefaultAdminEmail),
			Password:    hashed,
			Role:        models.RoleSuperAdmin,
			Permissions: models.PermissionSet{},
			Status:      models.StatusActive,
		}
		if err := s.DB.Create(admin).Error; err != nil {
			return err
		}
		logger.Info("已创建默认超级管理员: %s", admin.Email)
	}

	var settingCount int64
	if err := s.DB.Model(&models.AuthSetting{}).Count(&settingCount).Error; err != nil {
		return err
	}
	if settingCount == 0 {
		hashed, err := utils.HashPassword(s.Config.AuthPinDefault)
		if err != nil {
			return err
		}
		if err := s.DB.Create(&models.AuthSetting{PinHash: hashed}).Error; err != nil {
			return err
		}
		logger.Info("已初始化默认授权PIN")
	}

	return nil
}

// ensureNotLastSuperAdmin 目标是激活状态超级管理员中的最后一个时拒绝操作
func (s *AdminService) ensureNotLastSuperAdmin(excludeID uint) error {
	var count int64
	if err := s.DB.Model(&models.Admin{}).
		Where("role = ? AND status = ? AND id != ?", models.RoleSuperAdmin, models.StatusActive, excludeID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrLastSuperAdmin
	}
	return nil
}

// audit 写一条审计日志，失败只记日志不影响主流程
func (s *AdminService) audit(actorID uint, action string, targetID uint, details string) {
	entry := &models.AuditLog{
		ActorID:  actorID,
		Action:   action,
		TargetID: targetID,
		Details:  details,
	}
	if err := s.DB.Create(entry).Error; err != nil {
		logger.Error("写审计日志失败: action=%s err=%v", action, err)
	}
}
