package routes

import (
	"grojet-admin-service/internal/app/controllers"
	"grojet-admin-service/internal/app/middleware"
	"grojet-admin-service/internal/domain/models"
	"grojet-admin-service/internal/domain/services/container"
	"grojet-admin-service/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// SetupRouter 初始化并返回配置好的路由
func SetupRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	r := gin.Default()

	// CORS，仪表盘前端跨域携带会话Cookie
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", cfg.DashboardOrigin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, Accept, Origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// 创建服务容器
	serviceContainer := container.NewServiceContainer(db, cfg)
	// 初始化中间件
	middleware.InitAuthMiddleware(serviceContainer)
	// Swagger 文档路由
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	registerRoutes(r, serviceContainer)
	return r
}

// registerRoutes 配置所有API路由
func registerRoutes(r *gin.Engine, c *container.ServiceContainer) {
	// 存活探针不限流，供容器编排使用
	r.GET("/ping", controllers.HandlePingFunc())
	r.GET("/health", controllers.HandleHealthFunc(c))

	admin := r.Group("/admin")
	admin.Use(middleware.IPRateLimiter(10, 20))

	registerPublicRoutes(admin, c)
	registerAuthenticatedRoutes(admin, c)
}

// registerPublicRoutes 注册无需会话的路由
func registerPublicRoutes(admin *gin.RouterGroup, c *container.ServiceContainer) {
	// 登录单独收紧限流，抵御口令爆破
	admin.POST("/auth/login",
		middleware.CombinedRateLimiter(2, 5),
		controllers.HandleAuthFunc(c, "login"))
}

// registerAuthenticatedRoutes 注册需要会话的路由
func registerAuthenticatedRoutes(admin *gin.RouterGroup, c *container.ServiceContainer) {
	auth := admin.Group("/auth")
	auth.Use(middleware.Authenticate())

	auth.POST("/logout", controllers.HandleAuthFunc(c, "logout"))
	auth.GET("/profile", controllers.HandleAuthFunc(c, "getProfile"))
	auth.PUT("/profile", controllers.HandleAuthFunc(c, "updateProfile"))
	auth.POST("/change-password", controllers.HandleAuthFunc(c, "changePassword"))
	auth.POST("/2fa", controllers.HandleAuthFunc(c, "toggleTwoFactor"))

	// 升级授权流程，PIN和OTP入口按IP+路径限流
	auth.POST("/verify-pin",
		middleware.CombinedRateLimiter(1, 5),
		controllers.HandleAuthFunc(c, "verifyPin"))
	auth.POST("/resend-otp",
		middleware.CombinedRateLimiter(1, 3),
		controllers.HandleAuthFunc(c, "resendOtp"))
	auth.POST("/verify-otp",
		middleware.CombinedRateLimiter(1, 5),
		controllers.HandleAuthFunc(c, "verifyOtp"))
	auth.POST("/create", controllers.HandleAuthFunc(c, "createAdmin"))
	auth.PUT("/settings/pin",
		middleware.RequireSuperAdmin(),
		controllers.HandleAuthFunc(c, "rotatePin"))

	// 管理员管理，按admins模块的权限矩阵放行
	management := admin.Group("/admin-management")
	management.Use(middleware.Authenticate())

	management.GET("",
		middleware.RequirePermission("admins", models.ActionRead),
		controllers.HandleAdminFunc(c, "getAdmins"))
	management.GET("/:id",
		middleware.RequirePermission("admins", models.ActionRead),
		controllers.HandleAdminFunc(c, "getAdmin"))
	// 快捷创建绕过升级授权，只对超级管理员开放
	management.POST("",
		middleware.RequireSuperAdmin(),
		controllers.HandleAdminFunc(c, "createAdmin"))
	management.PUT("/:id",
		middleware.RequirePermission("admins", models.ActionUpdate),
		controllers.HandleAdminFunc(c, "updateAdmin"))
	management.PUT("/:id/status",
		middleware.RequirePermission("admins", models.ActionUpdate),
		controllers.HandleAdminFunc(c, "updateStatus"))
	management.PUT("/:id/permissions",
		middleware.RequirePermission("admins", models.ActionUpdate),
		controllers.HandleAdminFunc(c, "updatePermissions"))
	management.DELETE("/:id",
		middleware.RequirePermission("admins", models.ActionDelete),
		controllers.HandleAdminFunc(c, "deleteAdmin"))
}
