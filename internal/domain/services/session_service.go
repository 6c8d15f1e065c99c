package services

import (
	"context"
	"errors"
	"time"

	"grojet-admin-service/internal/domain/models"
	"grojet-admin-service/internal/infrastructure/config"
	"grojet-admin-service/pkg/logger"
	"grojet-admin-service/utils"

	"github.com/google/uuid"
)

// InterfaceSessionService 定义会话认证服务接口
type InterfaceSessionService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(ctx context.Context, sessionID string) error
	Validate(ctx context.Context, tokenString string) (*JWTClaims, error)
}

// LoginResult 表示登录结果
type LoginResult struct {
	Token string
	Admin *models.Admin
}

// SessionService 管理仪表盘登录会话。令牌为JWT，但会话状态
// 保存在服务端存储中，登出后令牌立即失效。
type SessionService struct {
	cfg          *config.Config
	jwtService   InterfaceJWTService
	store        InterfaceSessionStore
	adminService InterfaceAdminService
}

// NewSessionService 创建会话认证服务
func NewSessionService(cfg *config.Config, jwtService InterfaceJWTService, store InterfaceSessionStore, adminService InterfaceAdminService) InterfaceSessionService {
	return &SessionService{
		cfg:          cfg,
		jwtService:   jwtService,
		store:        store,
		adminService: adminService,
	}
}

// Login 校验邮箱和密码并签发会话。凭据错误与账号不存在
// 返回同一个错误，不泄露邮箱是否注册。
func (s *SessionService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	admin, err := s.adminService.GetAdminByEmail(email)
	if err != nil {
		if errors.Is(err, ErrAdminNotFound) {
			return nil, ErrAuthFailed
		}
		return nil, err
	}

	if !utils.CheckPasswordHash(password, admin.Password) {
		return nil, ErrAuthFailed
	}

	if !admin.IsActive() {
		return nil, ErrAccountDisabled
	}

	now := time.Now()
	sessionID := uuid.NewString()
	record := &SessionRecord{
		AdminID:   admin.ID,
		Role:      string(admin.Role),
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.SessionTTL),
	}
	if err := s.store.Put(ctx, sessionID, record, s.cfg.SessionTTL); err != nil {
		return nil, err
	}

	token, err := s.jwtService.GenerateToken(admin.ID, string(admin.Role), sessionID, s.cfg.SessionTTL)
	if err != nil {
		return nil, err
	}

	if err := s.adminService.RecordLogin(admin.ID); err != nil {
		logger.Warning("记录登录时间失败: %v", err)
	}

	return &LoginResult{Token: token, Admin: admin}, nil
}

// Logout 撤销服务端会话，对应的JWT随即失效
func (s *SessionService) Logout(ctx context.Context, sessionID string) error {
	return s.store.Delete(ctx, sessionID)
}

// Validate 验证令牌并确认服务端会话依然存在
func (s *SessionService) Validate(ctx context.Context, tokenString string) (*JWTClaims, error) {
	claims, err := s.jwtService.ExtractClaims(tokenString)
	if err != nil {
		return nil, ErrSessionInvalid
	}

	record, err := s.store.Get(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}
	if record == nil || record.AdminID != claims.AdminID {
		return nil, ErrSessionInvalid
	}
	return claims, nil
}
