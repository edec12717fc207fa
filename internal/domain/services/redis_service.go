package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Anouar-Rezrazi/Konecta-Project/internal/infrastructure/config"
	Logger "github.com/Anouar-Rezrazi/Konecta-Project/pkg/logger"

	"github.com/go-redis/redis/v8"
)

// statsVersionKey 通话数据版本号，任何通话变更都会递增
const statsVersionKey = "dashboard_stats:version"

// ErrCacheMiss 缓存未命中
var ErrCacheMiss = errors.New("cache miss")

// InterfaceRedisService defines the Redis service interface
type InterfaceRedisService interface {
	Ping() error
	Set(key string, value interface{}, expiration time.Duration) error
	Get(key string, dest interface{}) error
	Delete(key string) error
	GetDashboardStats(key StatsCacheKey) (*DashboardStats, error)
	CacheDashboardStats(key StatsCacheKey, stats *DashboardStats) error
	InvalidateDashboardStats() error
}

// StatsCacheKey 仪表盘统计缓存的组成部分
type StatsCacheKey struct {
	CallerID   string
	CallerRole string
	AgentID    string
	Days       int
}

// RedisService handles Redis operations
type RedisService struct {
	Client *redis.Client
	Ctx    context.Context
	TTL    time.Duration
}

// NewRedisService creates a new Redis service
func NewRedisService(cfg *config.Config) *RedisService {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	return NewRedisServiceWithClient(client, cfg.StatsCacheTTL)
}

// NewRedisServiceWithClient 使用已有的客户端创建服务
func NewRedisServiceWithClient(client *redis.Client, ttl time.Duration) *RedisService {
	return &RedisService{
		Client: client,
		Ctx:    context.Background(),
		TTL:    ttl,
	}
}

// 1 Ping 检查Redis连接
func (s *RedisService) Ping() error {
	ctx, cancel := context.WithTimeout(s.Ctx, 2*time.Second)
	defer cancel()
	return s.Client.Ping(ctx).Err()
}

// 2 Set sets a key-value pair in Redis with expiration
func (s *RedisService) Set(key string, value interface{}, expiration time.Duration) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return s.Client.Set(s.Ctx, key, jsonValue, expiration).Err()
}

// 3 Get gets a value from Redis by key
func (s *RedisService) Get(key string, dest interface{}) error {
	val, err := s.Client.Get(s.Ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return err
	}

	return json.Unmarshal([]byte(val), dest)
}

// 4 Delete deletes a key from Redis
func (s *RedisService) Delete(key string) error {
	return s.Client.Del(s.Ctx, key).Err()
}

// 5 GetDashboardStats 读取当前数据版本下的统计缓存
func (s *RedisService) GetDashboardStats(key StatsCacheKey) (*DashboardStats, error) {
	cacheKey, err := s.statsKey(key)
	if err != nil {
		return nil, err
	}

	var stats DashboardStats
	if err := s.Get(cacheKey, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// 6 CacheDashboardStats 按当前数据版本写入统计缓存
func (s *RedisService) CacheDashboardStats(key StatsCacheKey, stats *DashboardStats) error {
	cacheKey, err := s.statsKey(key)
	if err != nil {
		return err
	}
	return s.Set(cacheKey, stats, s.TTL)
}

// 7 InvalidateDashboardStats 递增版本号，使旧缓存全部失效
func (s *RedisService) InvalidateDashboardStats() error {
	return s.Client.Incr(s.Ctx, statsVersionKey).Err()
}

// statsKey 拼接带版本号的缓存键
func (s *RedisService) statsKey(key StatsCacheKey) (string, error) {
	version, err := s.Client.Get(s.Ctx, statsVersionKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}
	return fmt.Sprintf("dashboard_stats:v%d:%s:%s:%s:%d",
		version, key.CallerRole, key.CallerID, key.AgentID, key.Days), nil
}

// NewOptionalRedisService 在启用且可连接时返回Redis服务，否则返回nil
func NewOptionalRedisService(cfg *config.Config) InterfaceRedisService {
	if !cfg.RedisEnabled {
		Logger.Info("Redis未启用，仪表盘统计不使用缓存")
		return nil
	}

	service := NewRedisService(cfg)
	if err := service.Ping(); err != nil {
		Logger.Warning("Redis连接测试失败: %v，将不使用Redis缓存", err)
		service.Client.Close()
		return nil
	}
	return service
}
