package services

import (
	"sync"
	"testing"
	"time"

	"github.com/Anouar-Rezrazi/Konecta-Project/internal/domain/models"
	"github.com/Anouar-Rezrazi/Konecta-Project/internal/infrastructure/database"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testPassword = "password123"

// openTestDB 每个测试独立的内存数据库
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database.PasswordCost = bcrypt.MinCost

	db, err := gorm.Open(sqlite.Open(":memory:"), database.GormConfig(logger.Silent))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, name, email string, role models.Role) models.User {
	t.Helper()
	hashed, err := database.HashPassword(testPassword)
	require.NoError(t, err)

	user := models.User{Email: email, Password: hashed, Name: name, Role: role}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createTestCall(t *testing.T, db *gorm.DB, agentID string, date time.Time, status models.CallStatus, duration int, reason string) models.Call {
	t.Helper()
	call := models.Call{
		PhoneNumber: "+212 612-34-56-78",
		Date:        date,
		Duration:    duration,
		AgentID:     agentID,
		Status:      status,
		Reason:      reason,
	}
	require.NoError(t, db.Create(&call).Error)
	return call
}

func callerOf(user models.User) models.Caller {
	return models.Caller{ID: user.ID, Role: user.Role}
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

// fakeStatsCache 内存版统计缓存
type fakeStatsCache struct {
	mu            sync.Mutex
	stats         map[StatsCacheKey]*DashboardStats
	hits          int
	invalidations int
}

func newFakeStatsCache() *fakeStatsCache {
	return &fakeStatsCache{stats: make(map[StatsCacheKey]*DashboardStats)}
}

func (c *fakeStatsCache) Ping() error { return nil }

func (c *fakeStatsCache) Set(string, interface{}, time.Duration) error { return nil }

func (c *fakeStatsCache) Get(string, interface{}) error { return ErrCacheMiss }

func (c *fakeStatsCache) Delete(string) error { return nil }

func (c *fakeStatsCache) GetDashboardStats(key StatsCacheKey) (*DashboardStats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	stats, ok := c.stats[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	c.hits++
	return stats, nil
}

func (c *fakeStatsCache) CacheDashboardStats(key StatsCacheKey, stats *DashboardStats) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats[key] = stats
	return nil
}

func (c *fakeStatsCache) InvalidateDashboardStats() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats = make(map[StatsCacheKey]*DashboardStats)
	c.invalidations++
	return nil
}

type publishedEvent struct {
	Event  string
	Actor  models.Caller
	CallID string
}

// recordingPublisher 记录发布的通话事件
type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) Connect() error { return nil }

func (p *recordingPublisher) Disconnect() {}

func (p *recordingPublisher) PublishCallEvent(event string, actor models.Caller, call models.CallView) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Event: event, Actor: actor, CallID: call.ID})
}
