package controllers

import (
	"context"
	"time"

	"grojet-admin-service/internal/domain/services"
	"grojet-admin-service/internal/domain/services/container"
	"grojet-admin-service/internal/error/code"

	"github.com/gin-gonic/gin"
)

// HandlePingFunc 存活探针
func HandlePingFunc() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.JSON(code.StatusOK, gin.H{"message": "pong"})
	}
}

// HandleHealthFunc 健康检查，报告数据库和Redis的连通性
func HandleHealthFunc(c *container.ServiceContainer) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "ok"
		sqlDB, err := c.GetDB().DB()
		if err != nil || sqlDB.PingContext(checkCtx) != nil {
			dbStatus = "unavailable"
		}

		redisStatus := "ok"
		redisService := c.GetService("redis").(services.InterfaceRedisService)
		if err := redisService.Ping(checkCtx); err != nil {
			redisStatus = "degraded"
		}

		status := code.StatusOK
		if dbStatus != "ok" {
			status = code.StatusServiceUnavailable
		}

		ctx.JSON(status, gin.H{
			"status": dbStatus,
			"checks": gin.H{
				"database": dbStatus,
				"redis":    redisStatus,
			},
			"time": time.Now().Format(time.RFC3339),
		})
	}
}
