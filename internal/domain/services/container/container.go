package container

import (
	"context"
	"sync"
	"time"

	"grojet-admin-service/internal/domain/services"
	"grojet-admin-service/internal/infrastructure/config"
	"grojet-admin-service/pkg/logger"

	"gorm.io/gorm"
)

// ServiceContainer 管理所有服务的依赖注入
type ServiceContainer struct {
	db     *gorm.DB
	config *config.Config

	// 基础服务
	jwtService   services.InterfaceJWTService
	redisService services.InterfaceRedisService

	// 通知服务
	notificationService services.InterfaceNotificationService

	// 业务服务
	adminService   services.InterfaceAdminService
	sessionService services.InterfaceSessionService
	stepUpService  services.InterfaceStepUpService

	mu sync.RWMutex
}

// NewServiceContainer 创建新的服务容器
func NewServiceContainer(db *gorm.DB, cfg *config.Config) *ServiceContainer {
	if db == nil {
		panic("数据库连接为空")
	}
	if cfg == nil {
		panic("配置为空")
	}

	container := &ServiceContainer{
		db:     db,
		config: cfg,
	}
	container.initializeServices()
	return container
}

// initializeServices 初始化所有服务。Redis不可用时会话和升级授权
// 状态降级到进程内存储，单实例部署下语义不变。
func (c *ServiceContainer) initializeServices() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.jwtService = services.NewJWTService(c.config)
	c.redisService = services.NewRedisService(c.config)

	redisAvailable := false
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.redisService.Ping(ctx); err != nil {
		logger.Warning("Redis连接测试失败: %v，会话状态降级到进程内存储", err)
	} else {
		redisAvailable = true
	}

	var sessionStore services.InterfaceSessionStore
	var stepUpStore services.InterfaceStepUpStore
	if redisAvailable {
		sessionStore = services.NewRedisSessionStore(c.redisService)
		stepUpStore = services.NewRedisStepUpStore(c.redisService, c.config.StepUpSessionTTL)
	} else {
		sessionStore = services.NewMemorySessionStore()
		stepUpStore = services.NewMemoryStepUpStore(c.config.StepUpSessionTTL)
	}

	c.notificationService = services.NewNotificationService(c.config)
	if err := c.notificationService.Connect(); err != nil {
		logger.Warning("通知服务连接失败: %v", err)
	}

	c.adminService = services.NewAdminService(c.db, c.config)
	c.sessionService = services.NewSessionService(c.config, c.jwtService, sessionStore, c.adminService)
	c.stepUpService = services.NewStepUpService(c.config, stepUpStore, c.adminService, c.notificationService)
}

// GetService 获取指定名称的服务
func (c *ServiceContainer) GetService(name string) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch name {
	case "config":
		return c.config
	case "db":
		return c.db
	case "jwt":
		return c.jwtService
	case "redis":
		return c.redisService
	case "notification":
		return c.notificationService
	case "admin":
		return c.adminService
	case "session":
		return c.sessionService
	case "stepup":
		return c.stepUpService
	default:
		return nil
	}
}

// GetDB 获取数据库连接
func (c *ServiceContainer) GetDB() *gorm.DB {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db
}
