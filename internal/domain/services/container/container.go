package container

import (
	"sync"

	"github.com/Anouar-Rezrazi/Konecta-Project/internal/domain/services"
	"github.com/Anouar-Rezrazi/Konecta-Project/internal/infrastructure/config"
	"github.com/Anouar-Rezrazi/Konecta-Project/internal/infrastructure/database"
	Logger "github.com/Anouar-Rezrazi/Konecta-Project/pkg/logger"

	"gorm.io/gorm"
)

// ServiceContainer 管理所有服务的依赖注入
type ServiceContainer struct {
	pool   *database.ConnectionPool
	config *config.Config

	// 基础服务
	jwtService services.InterfaceJWTService

	// 数据存储服务，未启用Redis时为空
	redisService services.InterfaceRedisService

	// 通话事件发布
	eventPublisher services.InterfaceCallEventPublisher

	// 业务服务
	userService       services.InterfaceUserService
	callRecordService services.InterfaceCallRecordService
	dashboardService  services.InterfaceDashboardService
	reportService     services.InterfaceReportService

	mu sync.RWMutex
}

// Options 可替换的外部依赖，为空时按配置创建
type Options struct {
	Redis  services.InterfaceRedisService
	Events services.InterfaceCallEventPublisher
}

// NewServiceContainer 创建新的服务容器
func NewServiceContainer(pool *database.ConnectionPool, cfg *config.Config, opts Options) *ServiceContainer {
	if pool == nil || pool.DB == nil {
		panic("数据库连接为空")
	}

	if cfg == nil {
		panic("配置为空")
	}

	container := &ServiceContainer{
		pool:           pool,
		config:         cfg,
		redisService:   opts.Redis,
		eventPublisher: opts.Events,
	}
	container.initializeServices()
	return container
}

// NewServiceContainerFromConfig 按配置连接Redis与MQTT后创建容器
func NewServiceContainerFromConfig(pool *database.ConnectionPool, cfg *config.Config) *ServiceContainer {
	events := services.NewCallEventPublisher(cfg)
	// 连接MQTT服务器
	if err := events.Connect(); err != nil {
		Logger.Warning("MQTT服务连接失败: %v，通话事件将不会发布", err)
	}

	return NewServiceContainer(pool, cfg, Options{
		Redis:  services.NewOptionalRedisService(cfg),
		Events: events,
	})
}

// initializeServices 初始化所有服务
func (c *ServiceContainer) initializeServices() {
	c.mu.Lock()
	defer c.mu.Unlock()

	db := c.pool.GetDB()
	if c.eventPublisher == nil {
		c.eventPublisher = services.NoopEventPublisher{}
	}

	// 初始化基础服务
	c.jwtService = services.NewJWTService(c.config, db)

	// 初始化业务服务
	c.userService = services.NewUserService(db, c.redisService)
	c.callRecordService = services.NewCallRecordService(db, c.redisService, c.eventPublisher)
	c.dashboardService = services.NewDashboardService(db, c.config, c.redisService)
	c.reportService = services.NewReportService(c.config)
}

// GetService 获取指定名称的服务
func (c *ServiceContainer) GetService(name string) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch name {
	case "config":
		return c.config
	case "db":
		return c.pool.GetDB()
	case "pool":
		return c.pool
	case "jwt":
		return c.jwtService
	case "redis":
		return c.redisService
	case "events":
		return c.eventPublisher
	case "user":
		return c.userService
	case "call_record":
		return c.callRecordService
	case "dashboard":
		return c.dashboardService
	case "report":
		return c.reportService
	default:
		return nil
	}
}

// GetDB 获取数据库连接
func (c *ServiceContainer) GetDB() *gorm.DB {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pool.GetDB()
}

// GetPool 获取数据库连接池
func (c *ServiceContainer) GetPool() *database.ConnectionPool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pool
}

// Config 获取配置
func (c *ServiceContainer) Config() *config.Config {
	return c.config
}

// JWTService 获取JWT服务
func (c *ServiceContainer) JWTService() services.InterfaceJWTService {
	return c.GetService("jwt").(services.InterfaceJWTService)
}

// UserService 获取用户服务
func (c *ServiceContainer) UserService() services.InterfaceUserService {
	return c.GetService("user").(services.InterfaceUserService)
}

// CallRecordService 获取通话记录服务
func (c *ServiceContainer) CallRecordService() services.InterfaceCallRecordService {
	return c.GetService("call_record").(services.InterfaceCallRecordService)
}

// DashboardService 获取仪表盘服务
func (c *ServiceContainer) DashboardService() services.InterfaceDashboardService {
	return c.GetService("dashboard").(services.InterfaceDashboardService)
}

// ReportService 获取报表服务
func (c *ServiceContainer) ReportService() services.InterfaceReportService {
	return c.GetService("report").(services.InterfaceReportService)
}

// RedisService 获取Redis服务，未启用时为nil
func (c *ServiceContainer) RedisService() services.InterfaceRedisService {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.redisService
}

// Close 释放外部连接
func (c *ServiceContainer) Close() {
	c.eventPublisher.Disconnect()
	if redis, ok := c.redisService.(*services.RedisService); ok {
		redis.Client.Close()
	}
}
