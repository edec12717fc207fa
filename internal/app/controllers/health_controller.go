package controllers

import (
	"net/http"

	"github.com/Anouar-Rezrazi/Konecta-Project/internal/domain/services/container"
	"github.com/Anouar-Rezrazi/Konecta-Project/internal/error/code"
	"github.com/Anouar-Rezrazi/Konecta-Project/internal/error/response"
	Logger "github.com/Anouar-Rezrazi/Konecta-Project/pkg/logger"

	"github.com/gin-gonic/gin"
)

// HealthCheckController 健康检查控制器
type HealthCheckController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// HealthStatus 健康检查结果
type HealthStatus struct {
	Status   string                 `json:"status" example:"healthy"`
	Database string                 `json:"database" example:"up"`
	Redis    string                 `json:"redis" example:"disabled"`
	Pool     map[string]interface{} `json:"pool,omitempty"`
}

// NewHealthCheckController 创建健康检查控制器实例
func NewHealthCheckController(ctx *gin.Context, container *container.ServiceContainer) *HealthCheckController {
	return &HealthCheckController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleHealthFunc 返回一个处理健康检查请求的Gin处理函数
func HandleHealthFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewHealthCheckController(ctx, container)

		switch method {
		case "ping":
			controller.Ping()
		case "health":
			controller.Health()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "Invalid method")
		}
	}
}

// Ping 健康检查端点
// @Summary      Liveness probe
// @Tags         Health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /ping [get]
func (h *HealthCheckController) Ping() {
	response.Success(h.Ctx, gin.H{
		"status":  "healthy",
		"message": "pong",
	})
}

// Health 检查数据库和Redis状态
// @Summary      Readiness probe
// @Description  Pings the database through the connection pool and reports Redis status
// @Tags         Health
// @Produce      json
// @Success      200  {object}  HealthStatus
// @Failure      503  {object}  HealthStatus
// @Router       /health [get]
func (h *HealthCheckController) Health() {
	status := HealthStatus{Status: "healthy", Database: "up", Redis: "disabled"}
	httpStatus := http.StatusOK

	pool := h.Container.GetPool()
	if err := pool.HealthCheck(); err != nil {
		Logger.Error("数据库健康检查失败: %v", err)
		status.Status = "unhealthy"
		status.Database = "down"
		httpStatus = http.StatusServiceUnavailable
	} else if stats, err := pool.Stats(); err == nil {
		status.Pool = stats
	}

	// Redis不可用时标记为降级
	if redis := h.Container.RedisService(); redis != nil {
		if err := redis.Ping(); err != nil {
			Logger.Warning("Redis健康检查失败: %v", err)
			status.Redis = "down"
			if status.Status == "healthy" {
				status.Status = "degraded"
			}
		} else {
			status.Redis = "up"
		}
	}

	h.Ctx.JSON(httpStatus, status)
}
