package controllers

import (
	"github.com/Anouar-Rezrazi/Konecta-Project/internal/app/middleware"
	"github.com/Anouar-Rezrazi/Konecta-Project/internal/domain/services"
	"github.com/Anouar-Rezrazi/Konecta-Project/internal/domain/services/container"
	"github.com/Anouar-Rezrazi/Konecta-Project/internal/error/code"
	"github.com/Anouar-Rezrazi/Konecta-Project/internal/error/response"

	"github.com/gin-gonic/gin"
)

// DashboardController 仪表盘统计
type DashboardController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewDashboardController 创建仪表盘控制器
func NewDashboardController(ctx *gin.Context, container *container.ServiceContainer) *DashboardController {
	return &DashboardController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleDashboardFunc 返回一个处理仪表盘请求的Gin处理函数
func HandleDashboardFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewDashboardController(ctx, container)

		switch method {
		case "getStats":
			controller.GetStats()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "Invalid method")
		}
	}
}

// GetStats 获取仪表盘统计
// @Summary      Dashboard statistics
// @Description  Overview counts, daily chart data and the top 5 agents over the last N days. Agents only see their own numbers.
// @Tags         Dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        days   query     int     false  "Window length in days, default 30"
// @Param        agent  query     string  false  "Agent id (supervisors only)"
// @Success      200    {object}  services.DashboardStats
// @Failure      401    {object}  response.ErrorResponse
// @Router       /dashboard/stats [get]
func (c *DashboardController) GetStats() {
	caller := middleware.MustCaller(c.Ctx)
	days := services.ParseDays(c.Ctx.Query("days"))

	stats, err := c.Container.DashboardService().GetDashboardStats(caller, c.Ctx.Query("agent"), days)
	if err != nil {
		response.FailWithError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, stats)
}
