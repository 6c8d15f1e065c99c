package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"grojet-admin-service/internal/domain/models"
	"grojet-admin-service/internal/infrastructure/config"
	"grojet-admin-service/utils"
)

func newTestSessionService(t *testing.T) (InterfaceSessionService, *fakeAdminService) {
	t.Helper()

	passwordHash, err := utils.HashPassword("Admin@123")
	if err != nil {
		t.Fatalf("生成密码哈希失败: %v", err)
	}

	adminService := newFakeAdminService("")
	adminService.admins["ops@grojet.com"] = &models.Admin{
		BaseModel: models.BaseModel{ID: 7},
		Name:      "Ops Admin",
		Email:     "ops@grojet.com",
		Password:  passwordHash,
		Role:      models.RoleAdmin,
		Status:    models.StatusActive,
	}
	adminService.admins["off@grojet.com"] = &models.Admin{
		BaseModel: models.BaseModel{ID: 8},
		Email:     "off@grojet.com",
		Password:  passwordHash,
		Role:      models.RoleAdmin,
		Status:    models.StatusSuspended,
	}

	cfg := &config.Config{
		JWTSecretKey: "test-secret-key",
		SessionTTL:   time.Hour,
	}
	service := NewSessionService(cfg, NewJWTService(cfg), NewMemorySessionStore(), adminService)
	return service, adminService
}

func TestLoginAndValidate(t *testing.T) {
	service, adminService := newTestSessionService(t)
	ctx := context.Background()

	result, err := service.Login(ctx, "ops@grojet.com", "Admin@123")
	if err != nil {
		t.Fatalf("登录失败: %v", err)
	}
	if result.Admin.ID != 7 {
		t.Fatalf("登录结果应携带管理员记录: %+v", result.Admin)
	}
	if len(adminService.logins) != 1 || adminService.logins[0] != 7 {
		t.Errorf("登录应记录最近登录时间: %v", adminService.logins)
	}

	claims, err := service.Validate(ctx, result.Token)
	if err != nil {
		t.Fatalf("会话验证失败: %v", err)
	}
	if claims.AdminID != 7 {
		t.Errorf("AdminID: got %d want 7", claims.AdminID)
	}
}

func TestLoginWrongCredentials(t *testing.T) {
	service, _ := newTestSessionService(t)
	ctx := context.Background()

	// 密码错误和账号不存在返回同一个错误
	if _, err := service.Login(ctx, "ops@grojet.com", "wrong"); !errors.Is(err, ErrAuthFailed) {
		t.Fatalf("密码错误应返回 ErrAuthFailed, got %v", err)
	}
	if _, err := service.Login(ctx, "nobody@grojet.com", "Admin@123"); !errors.Is(err, ErrAuthFailed) {
		t.Fatalf("账号不存在应返回 ErrAuthFailed, got %v", err)
	}
}

func TestLoginDisabledAccount(t *testing.T) {
	service, _ := newTestSessionService(t)

	if _, err := service.Login(context.Background(), "off@grojet.com", "Admin@123"); !errors.Is(err, ErrAccountDisabled) {
		t.Fatalf("停用账号应返回 ErrAccountDisabled, got %v", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	service, _ := newTestSessionService(t)
	ctx := context.Background()

	result, err := service.Login(ctx, "ops@grojet.com", "Admin@123")
	if err != nil {
		t.Fatalf("登录失败: %v", err)
	}
	claims, err := service.Validate(ctx, result.Token)
	if err != nil {
		t.Fatalf("会话验证失败: %v", err)
	}

	if err := service.Logout(ctx, claims.SessionID); err != nil {
		t.Fatalf("登出失败: %v", err)
	}

	// JWT本身未过期，但服务端会话已撤销
	if _, err := service.Validate(ctx, result.Token); !errors.Is(err, ErrSessionInvalid) {
		t.Fatalf("登出后令牌应失效, got %v", err)
	}
}

func TestValidateGarbageToken(t *testing.T) {
	service, _ := newTestSessionService(t)

	if _, err := service.Validate(context.Background(), "not-a-jwt"); !errors.Is(err, ErrSessionInvalid) {
		t.Fatalf("非法令牌应返回 ErrSessionInvalid, got %v", err)
	}
}

func TestMemorySessionStoreExpiry(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	record := &SessionRecord{
		AdminID:   1,
		Role:      "admin",
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	if err := store.Put(ctx, "sess-1", record, time.Hour); err != nil {
		t.Fatalf("写入失败: %v", err)
	}

	got, err := store.Get(ctx, "sess-1")
	if err != nil {
		t.Fatalf("读取失败: %v", err)
	}
	if got != nil {
		t.Fatal("过期会话应视为不存在")
	}
}
