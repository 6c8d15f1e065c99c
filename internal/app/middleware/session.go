package middleware

import (
	"strings"

	"grojet-admin-service/internal/domain/models"
	"grojet-admin-service/internal/domain/services"
	"grojet-admin-service/internal/domain/services/container"
	"grojet-admin-service/internal/error/code"
	"grojet-admin-service/internal/error/response"
	"grojet-admin-service/internal/infrastructure/config"
	"grojet-admin-service/pkg/logger"

	"github.com/gin-gonic/gin"
)

var (
	sessionService services.InterfaceSessionService
	adminService   services.InterfaceAdminService
	cfg            *config.Config
)

// InitAuthMiddleware 初始化认证中间件
func InitAuthMiddleware(c *container.ServiceContainer) {
	sessionService = c.GetService("session").(services.InterfaceSessionService)
	adminService = c.GetService("admin").(services.InterfaceAdminService)
	cfg = c.GetService("config").(*config.Config)
}

// extractToken 从Cookie或授权头中提取会话令牌
func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(cfg.SessionCookieName); err == nil && cookie != "" {
		return cookie
	}
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return authHeader[7:]
	}
	return authHeader
}

// Authenticate 验证会话并把当前管理员加载到上下文。
// 每个请求都从数据库取最新记录，停用和权限变更立即生效。
func Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			response.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := sessionService.Validate(c.Request.Context(), tokenString)
		if err != nil {
			response.Unauthorized(c)
			c.Abort()
			return
		}

		admin, err := adminService.GetAdminByID(claims.AdminID)
		if err != nil {
			response.Unauthorized(c)
			c.Abort()
			return
		}

		if !admin.IsActive() {
			response.Fail(c, code.ErrAccountDisabled, nil)
			c.Abort()
			return
		}

		// 存量数据中的未知角色视为数据完整性故障，拒绝并报警
		if !admin.Role.Valid() {
			logger.Error("管理员 %d 携带未知角色 %q", admin.ID, admin.Role)
			response.ServerError(c)
			c.Abort()
			return
		}

		c.Set("admin", admin)
		c.Set("adminID", admin.ID)
		c.Set("sessionID", claims.SessionID)
		c.Next()
	}
}

// CurrentAdmin 从上下文中取出已认证管理员
func CurrentAdmin(c *gin.Context) *models.Admin {
	if v, exists := c.Get("admin"); exists {
		if admin, ok := v.(*models.Admin); ok {
			return admin
		}
	}
	return nil
}

// RequirePermission 要求当前管理员对指定模块持有指定操作权限。
// 超级管理员跳过矩阵检查。
func RequirePermission(module string, action models.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		admin := CurrentAdmin(c)
		if admin == nil {
			response.Unauthorized(c)
			c.Abort()
			return
		}
		if !admin.Can(module, action) {
			response.Fail(c, code.ErrPermissionDenied, nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireSuperAdmin 仅超级管理员可通过
func RequireSuperAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		admin := CurrentAdmin(c)
		if admin == nil || !admin.Role.IsSuperAdmin() {
			response.Fail(c, code.ErrPermissionDenied, nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
