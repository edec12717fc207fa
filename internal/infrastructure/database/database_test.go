package database

import (
	"math/rand"
	"regexp"
	"testing"
	"time"

	"github.com/Anouar-Rezrazi/Konecta-Project/internal/domain/models"
	"github.com/Anouar-Rezrazi/Konecta-Project/internal/infrastructure/config"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openMemoryDB(t *testing.T) *gorm.DB {
	t.Helper()
	PasswordCost = bcrypt.MinCost

	db, err := gorm.Open(sqlite.Open(":memory:"), GormConfig(logger.Silent))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func TestDialector(t *testing.T) {
	for _, driver := range []string{"mysql", "postgres", "sqlite", ""} {
		d, err := Dialector(driver, "dsn")
		require.NoError(t, err, driver)
		assert.NotNil(t, d)
	}

	_, err := Dialector("oracle", "dsn")
	assert.Error(t, err)
}

func TestMigrateModes(t *testing.T) {
	db := openMemoryDB(t)

	require.NoError(t, Migrate(db, MigrationModeAuto))
	assert.True(t, db.Migrator().HasTable(&models.User{}))
	assert.True(t, db.Migrator().HasTable(&models.Call{}))
	assert.True(t, db.Migrator().HasIndex(&models.Call{}, "idx_calls_agent_date"))

	require.NoError(t, db.Create(&models.User{Email: "a@b.com", Password: "x", Name: "Agent", Role: models.RoleAgent}).Error)
	require.NoError(t, Migrate(db, MigrationModeDrop))

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)

	assert.Error(t, Migrate(db, "alter"))
}

func TestEnsureSupervisorExists(t *testing.T) {
	db := openMemoryDB(t)
	require.NoError(t, AutoMigrate(db))
	cfg := &config.Config{DefaultSupervisorEmail: "Boss@Demo.com", DefaultSupervisorPassword: "password123"}

	require.NoError(t, EnsureSupervisorExists(db, cfg))
	require.NoError(t, EnsureSupervisorExists(db, cfg))

	var users []models.User
	require.NoError(t, db.Find(&users).Error)
	require.Len(t, users, 1)
	assert.Equal(t, "boss@demo.com", users[0].Email)
	assert.Equal(t, models.RoleSupervisor, users[0].Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(users[0].Password), []byte("password123")))
}

func TestSeedDemoData(t *testing.T) {
	db := openMemoryDB(t)
	require.NoError(t, AutoMigrate(db))

	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	opts := SeedOptions{Calls: 50, Days: 30, Now: now, Rand: rand.New(rand.NewSource(1))}
	require.NoError(t, SeedDemoData(db, opts))

	var userCount, callCount int64
	db.Model(&models.User{}).Count(&userCount)
	db.Model(&models.Call{}).Count(&callCount)
	assert.Equal(t, int64(3), userCount)
	assert.Equal(t, int64(50), callCount)

	var supervisor models.User
	require.NoError(t, db.Where("email = ?", "supervisor@demo.com").First(&supervisor).Error)
	assert.Equal(t, "Ahmed Bennani", supervisor.Name)

	var calls []models.Call
	require.NoError(t, db.Find(&calls).Error)
	phone := regexp.MustCompile(`^\+212 [567]\d{2}-\d{2}-\d{2}-\d{2}$`)
	for _, call := range calls {
		assert.Regexp(t, phone, call.PhoneNumber)
		assert.NotEqual(t, supervisor.ID, call.AgentID)
		assert.True(t, call.Status.IsValid())
		assert.GreaterOrEqual(t, call.Duration, 30)
		assert.False(t, call.Date.After(now))
		assert.True(t, call.Date.After(now.AddDate(0, 0, -31)))
	}

	// 已有用户时不会重复写入
	require.NoError(t, SeedDemoData(db, opts))
	db.Model(&models.User{}).Count(&userCount)
	assert.Equal(t, int64(3), userCount)
}
