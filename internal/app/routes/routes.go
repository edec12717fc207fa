package routes

import (
	"time"

	_ "github.com/Anouar-Rezrazi/Konecta-Project/docs"
	"github.com/Anouar-Rezrazi/Konecta-Project/internal/app/controllers"
	"github.com/Anouar-Rezrazi/Konecta-Project/internal/app/middleware"
	"github.com/Anouar-Rezrazi/Konecta-Project/internal/domain/services/container"
	"github.com/Anouar-Rezrazi/Konecta-Project/internal/error/response"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Router 持有路由引擎以及它独占的限流器和指标
type Router struct {
	Engine   *gin.Engine
	Limiters *middleware.LimiterRegistry
	Metrics  *middleware.Metrics
}

// SetupRouter 初始化并返回配置好的路由
func SetupRouter(container *container.ServiceContainer) *Router {
	r := gin.New()
	router := &Router{
		Engine:   r,
		Limiters: middleware.NewLimiterRegistry(),
		Metrics:  middleware.NewMetrics(),
	}

	r.Use(middleware.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(router.Metrics.Middleware())

	// 添加 CORS 中间件
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Content-Length", "Accept", "Authorization", "X-Requested-With"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.ExposeHeaders = []string{"Content-Disposition"}
	origins := container.Config().CORSAllowedOrigins
	switch {
	case len(origins) == 0:
		corsConfig.AllowOrigins = []string{"http://localhost:3000"}
	case len(origins) == 1 && origins[0] == "*":
		// 允许任意来源时不能携带凭证
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	default:
		corsConfig.AllowOrigins = origins
	}
	r.Use(cors.New(corsConfig))

	// 添加 Swagger 文档路由
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/metrics", router.Metrics.Handler())

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "Route not found")
	})

	// 注册路由
	registerRoutes(router, container)
	return router
}

// StartLimiterCleanup 定期清理空闲的限流器
func (r *Router) StartLimiterCleanup(stop <-chan struct{}) {
	r.Limiters.StartCleanup(10*time.Minute, stop)
}

// registerRoutes 配置所有API路由
func registerRoutes(router *Router, container *container.ServiceContainer) {
	// API 路由根路径
	api := router.Engine.Group("/api")
	// 注册公共路由
	registerPublicRoutes(api, router, container)
	// 注册需要认证的路由
	registerAuthenticatedRoutes(api, router, container)
}

// registerPublicRoutes 注册公共路由
func registerPublicRoutes(api *gin.RouterGroup, router *Router, container *container.ServiceContainer) {
	// 每秒10个请求，最多突发20个
	public := api.Group("")
	public.Use(router.Limiters.IPRateLimiter("public", 10, 20))

	// 健康检查路由
	public.GET("/ping", controllers.HandleHealthFunc(container, "ping"))
	public.GET("/health", controllers.HandleHealthFunc(container, "health"))

	// 认证路由
	public.POST("/auth/login", controllers.HandleJWTFunc(container, "login"))
}

// registerAuthenticatedRoutes 注册需要认证的路由
func registerAuthenticatedRoutes(api *gin.RouterGroup, router *Router, container *container.ServiceContainer) {
	// 添加认证中间件
	auth := api.Group("")
	auth.Use(middleware.Authentication(container.JWTService(), container.UserService()))

	// 每秒30个请求，最多突发50个
	auth.Use(router.Limiters.IPRateLimiter("auth", 30, 50))

	// 通话记录
	calls := auth.Group("/calls")
	{
		calls.GET("", controllers.HandleCallRecordFunc(container, "getCalls"))
		calls.POST("", controllers.HandleCallRecordFunc(container, "createCall"))
		calls.GET("/:id", controllers.HandleCallRecordFunc(container, "getCall"))
		calls.PUT("/:id", controllers.HandleCallRecordFunc(container, "updateCall"))
		calls.DELETE("/:id", controllers.HandleCallRecordFunc(container, "deleteCall"))
	}

	// 仪表盘
	auth.GET("/dashboard/stats", controllers.HandleDashboardFunc(container, "getStats"))

	// 用户管理
	users := auth.Group("/users")
	{
		users.PUT("/profile", controllers.HandleUserFunc(container, "updateProfile"))
		users.GET("", controllers.HandleUserFunc(container, "getUsers"))
		users.POST("", controllers.HandleUserFunc(container, "createUser"))
		users.GET("/:id", controllers.HandleUserFunc(container, "getUser"))
		users.PUT("/:id", controllers.HandleUserFunc(container, "updateUser"))
		users.DELETE("/:id", controllers.HandleUserFunc(container, "deleteUser"))
	}

	// 报表导出
	reports := auth.Group("/reports")
	reports.Use(router.Limiters.IPRateLimiter("reports", 2, 5))
	{
		reports.GET("/csv", controllers.HandleReportFunc(container, "exportCSV"))
		reports.GET("/html", controllers.HandleReportFunc(container, "exportHTML"))
	}
}
