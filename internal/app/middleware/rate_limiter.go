package middleware

import (
	"sync"
	"time"

	"github.com/Anouar-Rezrazi/Konecta-Project/internal/error/code"
	"github.com/Anouar-Rezrazi/Konecta-Project/internal/error/response"

	"github.com/gin-gonic/gin"
)

// 简单的令牌桶限流器
type TokenBucket struct {
	rate       float64    // 每秒填充的令牌数
	capacity   int        // 桶的容量
	tokens     float64    // 当前令牌数
	lastRefill time.Time  // 上次填充时间
	mu         sync.Mutex // 互斥锁
}

// 创建新的令牌桶限流器
func NewTokenBucket(rate float64, capacity int) *TokenBucket {
	return &TokenBucket{
		rate:       rate,
		capacity:   capacity,
		tokens:     float64(capacity),
		lastRefill: time.Now(),
	}
}

// 尝试获取令牌
func (tb *TokenBucket) Allow() bool {
	return tb.allowAt(time.Now())
}

func (tb *TokenBucket) allowAt(now time.Time) bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	elapsed := now.Sub(tb.lastRefill).Seconds()
	if elapsed > 0 {
		tb.lastRefill = now
		// 填充令牌
		tb.tokens += elapsed * tb.rate
		if tb.tokens > float64(tb.capacity) {
			tb.tokens = float64(tb.capacity)
		}
	}

	if tb.tokens >= 1 {
		tb.tokens--
		return true
	}
	return false
}

// idleAt 桶已经回满，删除后重建不会改变限流结果
func (tb *TokenBucket) idleAt(now time.Time) bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	refilled := tb.tokens + now.Sub(tb.lastRefill).Seconds()*tb.rate
	return refilled >= float64(tb.capacity)
}

// RateLimiterConfig 限流器配置
type RateLimiterConfig struct {
	Rate    float64                   // 每秒允许的请求数
	Burst   int                       // 允许的突发请求数
	KeyFunc func(*gin.Context) string // 限流键，默认按IP
}

// DefaultRateLimiterConfig 默认限流器配置
var DefaultRateLimiterConfig = RateLimiterConfig{
	Rate:  1,
	Burst: 5,
}

// LimiterRegistry 按键保存令牌桶，由路由持有
type LimiterRegistry struct {
	mu      sync.Mutex
	buckets map[string]*TokenBucket
	now     func() time.Time
}

// NewLimiterRegistry 创建限流器注册表
func NewLimiterRegistry() *LimiterRegistry {
	return &LimiterRegistry{
		buckets: make(map[string]*TokenBucket),
		now:     time.Now,
	}
}

// bucket 获取或创建指定键的令牌桶
func (r *LimiterRegistry) bucket(key string, cfg RateLimiterConfig) *TokenBucket {
	r.mu.Lock()
	defer r.mu.Unlock()

	tb, exists := r.buckets[key]
	if !exists {
		tb = NewTokenBucket(cfg.Rate, cfg.Burst)
		tb.lastRefill = r.now()
		r.buckets[key] = tb
	}
	return tb
}

// Cleanup 清理已经回满的令牌桶，返回清理数量
func (r *LimiterRegistry) Cleanup() int {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for key, tb := range r.buckets {
		if tb.idleAt(now) {
			delete(r.buckets, key)
			removed++
		}
	}
	return removed
}

// Len 当前令牌桶数量
func (r *LimiterRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.buckets)
}

// StartCleanup 定期清理，stop关闭后退出
func (r *LimiterRegistry) StartCleanup(interval time.Duration, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				r.Cleanup()
			case <-stop:
				return
			}
		}
	}()
}

// RateLimiter 创建限流中间件，scope 区分不同路由组的桶
func (r *LimiterRegistry) RateLimiter(scope string, cfg RateLimiterConfig) gin.HandlerFunc {
	// 确保配置有效
	if cfg.Rate <= 0 {
		cfg.Rate = DefaultRateLimiterConfig.Rate
	}
	if cfg.Burst <= 0 {
		cfg.Burst = DefaultRateLimiterConfig.Burst
	}
	keyFunc := cfg.KeyFunc
	if keyFunc == nil {
		keyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}

	return func(c *gin.Context) {
		tb := r.bucket(scope+":"+keyFunc(c), cfg)
		if !tb.allowAt(r.now()) {
			response.Fail(c, code.ErrTooManyRequests)
			return
		}
		c.Next()
	}
}

// IPRateLimiter 按IP限流
func (r *LimiterRegistry) IPRateLimiter(scope string, rate float64, burst int) gin.HandlerFunc {
	return r.RateLimiter(scope, RateLimiterConfig{
		Rate:  rate,
		Burst: burst,
	})
}
