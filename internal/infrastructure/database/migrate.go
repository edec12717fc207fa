package database

import (
	"fmt"

	"github.com/Anouar-Rezrazi/Konecta-Project/internal/domain/models"
	"github.com/Anouar-Rezrazi/Konecta-Project/internal/infrastructure/config"
	Logger "github.com/Anouar-Rezrazi/Konecta-Project/pkg/logger"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// 数据库迁移模式
const (
	MigrationModeAuto = "auto"
	MigrationModeDrop = "drop"
)

// PasswordCost 密码哈希强度，测试中可调低
var PasswordCost = 12

// allModels 需要迁移的全部模型，删除时按逆序处理
func allModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Call{},
	}
}

// Migrate 根据配置的迁移模式执行数据库迁移
func Migrate(db *gorm.DB, mode string) error {
	switch mode {
	case MigrationModeDrop:
		// 删除并重建表
		Logger.Warning("在drop模式下运行，将删除并重建所有表")
		return DropAndRecreateTables(db)
	case MigrationModeAuto, "":
		// 默认AutoMigrate，只会添加新列和新表，不会删除或修改列
		Logger.Info("在标准模式下运行，将只添加新列和新表")
		return AutoMigrate(db)
	default:
		return fmt.Errorf("unknown migration mode: %s", mode)
	}
}

// AutoMigrate 自动迁移所有模型（只添加新列和新表）
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(allModels()...); err != nil {
		return err
	}

	Logger.Info("数据库迁移完成")
	return nil
}

// DropAndRecreateTables 删除并重建所有表
func DropAndRecreateTables(db *gorm.DB) error {
	tables := allModels()
	for i := len(tables) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(tables[i]); err != nil {
			return fmt.Errorf("failed to drop table: %w", err)
		}
	}

	// 重新创建表
	return AutoMigrate(db)
}

// HashPassword 生成密码哈希
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// EnsureSupervisorExists 确保系统中至少有一个主管账户
func EnsureSupervisorExists(db *gorm.DB, cfg *config.Config) error {
	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleSupervisor).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	// 如果没有主管，创建默认主管
	hashedPassword, err := HashPassword(cfg.DefaultSupervisorPassword)
	if err != nil {
		return fmt.Errorf("生成密码哈希失败: %w", err)
	}

	supervisor := models.User{
		Email:    cfg.DefaultSupervisorEmail,
		Password: hashedPassword,
		Name:     "Supervisor",
		Role:     models.RoleSupervisor,
	}

	// 邮箱已被坐席占用时不再创建
	var existing int64
	if err := db.Model(&models.User{}).Where("email = ?", models.NormalizeEmail(supervisor.Email)).Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		Logger.Warning("默认主管邮箱 %s 已被占用，跳过创建", supervisor.Email)
		return nil
	}

	if err := db.Create(&supervisor).Error; err != nil {
		return fmt.Errorf("创建默认主管失败: %w", err)
	}

	Logger.Info("已创建默认主管账户: %s", supervisor.Email)
	return nil
}
