package database

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/Anouar-Rezrazi/Konecta-Project/internal/domain/models"
	Logger "github.com/Anouar-Rezrazi/Konecta-Project/pkg/logger"

	"gorm.io/gorm"
)

// DemoPassword 演示账户的统一密码
const DemoPassword = "password123"

// demoUsers 演示账户
var demoUsers = []models.User{
	{Email: "supervisor@demo.com", Name: "Ahmed Bennani", Role: models.RoleSupervisor},
	{Email: "agent@demo.com", Name: "Fatima El Alaoui", Role: models.RoleAgent},
	{Email: "agent2@demo.com", Name: "Youssef Tazi", Role: models.RoleAgent},
}

var demoReasons = []string{
	"Customer inquiry",
	"Technical support",
	"Sales call",
	"Follow-up",
	"Complaint resolution",
	"Service activation",
	"Billing inquiry",
	"Product information",
}

// SeedOptions 演示数据参数
type SeedOptions struct {
	Calls int       // 生成的通话数量
	Days  int       // 通话分布的天数范围
	Now   time.Time // 基准时间
	Rand  *rand.Rand
}

// DefaultSeedOptions 默认生成最近30天内的50条通话
func DefaultSeedOptions() SeedOptions {
	return SeedOptions{
		Calls: 50,
		Days:  30,
		Now:   time.Now().UTC(),
		Rand:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SeedDemoData 在空数据库中写入演示用户和通话记录，已有用户时跳过
func SeedDemoData(db *gorm.DB, opts SeedOptions) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		Logger.Info("数据库已有用户，跳过演示数据")
		return nil
	}

	hashedPassword, err := HashPassword(DemoPassword)
	if err != nil {
		return fmt.Errorf("生成密码哈希失败: %w", err)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		users := make([]models.User, len(demoUsers))
		copy(users, demoUsers)
		for i := range users {
			users[i].Password = hashedPassword
		}
		if err := tx.Create(&users).Error; err != nil {
			return err
		}

		var agentIDs []string
		for _, user := range users {
			if user.Role == models.RoleAgent {
				agentIDs = append(agentIDs, user.ID)
			}
		}

		r := opts.Rand
		calls := make([]models.Call, 0, opts.Calls)
		for i := 0; i < opts.Calls; i++ {
			call := models.Call{
				PhoneNumber: moroccanPhone(r),
				Date:        opts.Now.AddDate(0, 0, -r.Intn(opts.Days)),
				Duration:    r.Intn(1800) + 30,
				AgentID:     agentIDs[r.Intn(len(agentIDs))],
				Status:      models.CallStatuses[r.Intn(len(models.CallStatuses))],
				Reason:      demoReasons[r.Intn(len(demoReasons))],
			}
			if r.Float64() > 0.7 {
				call.Notes = "Additional notes about the call"
			}
			calls = append(calls, call)
		}
		if len(calls) > 0 {
			if err := tx.Create(&calls).Error; err != nil {
				return err
			}
		}

		Logger.Info("演示数据已创建: %d 个用户, %d 条通话", len(users), len(calls))
		for _, user := range users {
			Logger.Info("演示账户 %s (%s) / %s", user.Email, user.Role, DemoPassword)
		}
		return nil
	})
}

// moroccanPhone 生成摩洛哥格式的电话号码 +212 6XX-XX-XX-XX
func moroccanPhone(r *rand.Rand) string {
	prefixes := []string{"6", "7", "5"}
	number := fmt.Sprintf("%08d", r.Intn(100000000))
	return fmt.Sprintf("+212 %s%s-%s-%s-%s", prefixes[r.Intn(len(prefixes))],
		number[0:2], number[2:4], number[4:6], number[6:8])
}
