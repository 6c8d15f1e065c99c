// @title           Grojet Admin Service API
// @version         1.0
// @description     Admin authorization and management service for the Grojet delivery platform dashboard
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.email  support@grojet.com

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath  /

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Enter the token with the `Bearer: ` prefix
package main

import (
	"fmt"
	"os"
	"runtime"

	"grojet-admin-service/internal/app/routes"
	"grojet-admin-service/internal/domain/models"
	"grojet-admin-service/internal/domain/services"
	"grojet-admin-service/internal/infrastructure/config"
	"grojet-admin-service/internal/infrastructure/database"
	"grojet-admin-service/pkg/logger"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	runtime.GOMAXPROCS(runtime.NumCPU())

	// 初始化日志配置
	if err := logger.SetupLogger(); err != nil {
		fmt.Printf("初始化日志配置失败: %v\n", err)
		os.Exit(1)
	}

	// 加载.env文件
	if err := godotenv.Load(); err != nil {
		logger.Warning("无法加载.env文件: %v", err)
		// 即使加载失败也继续执行，可能环境变量已经通过其他方式设置
	} else {
		logger.Info("成功加载.env文件")
	}

	// 获取配置
	cfg := config.GetConfig()

	// 创建数据库连接池
	pool, err := database.NewConnectionPool(cfg)
	if err != nil {
		logger.Error("无法创建数据库连接池: %v", err)
		os.Exit(1)
	}
	defer pool.Close()
	db := pool.GetDB()

	if err := autoMigrate(db); err != nil {
		logger.Error("自动迁移失败: %v", err)
		os.Exit(1)
	}

	// 确保默认超级管理员和授权PIN存在
	seedService := services.NewAdminService(db, cfg)
	if err := seedService.EnsureSeedData(); err != nil {
		logger.Error("初始化种子数据失败: %v", err)
		os.Exit(1)
	}

	// 初始化路由
	r := routes.SetupRouter(db, cfg)

	printSystemInfo(pool)

	port := cfg.ServerPort
	logger.Info("服务器启动在: http://0.0.0.0:%s", port)
	if err := r.Run("0.0.0.0:" + port); err != nil {
		logger.Error("启动服务器失败: %v", err)
		os.Exit(1)
	}
}

// autoMigrate 自动迁移所有模型（只添加新列和新表）
func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Admin{},
		&models.AuthSetting{},
		&models.AuditLog{},
	)
}

// printSystemInfo 打印系统信息
func printSystemInfo(pool *database.ConnectionPool) {
	if stats, err := pool.Stats(); err == nil {
		logger.Info("数据库连接池状态: %+v", stats)
	}

	logger.Info("系统CPU核心数: %d", runtime.NumCPU())

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	logger.Info("系统内存使用: Alloc=%v MiB, Sys=%v MiB",
		m.Alloc/1024/1024, m.Sys/1024/1024)
}
