package models

import (
	"strings"

	"gorm.io/gorm"
)

// Role 用户角色
type Role string

const (
	RoleAgent      Role = "agent"
	RoleSupervisor Role = "supervisor"
)

// IsValid 判断角色是否合法
func (r Role) IsValid() bool {
	return r == RoleAgent || r == RoleSupervisor
}

// User 呼叫中心的坐席或主管
type User struct {
	BaseModel
	Email    string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password string `gorm:"type:varchar(100);not null" json:"-"` // Password not exposed in JSON
	Name     string `gorm:"type:varchar(100);not null" json:"name"`
	Role     Role   `gorm:"type:varchar(20);not null;default:'agent';index" json:"role"`
}

// NormalizeEmail 邮箱统一小写并去除首尾空白，保证唯一性不区分大小写
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// BeforeSave 保存前规范化邮箱与姓名
func (u *User) BeforeSave(tx *gorm.DB) error {
	u.Email = NormalizeEmail(u.Email)
	u.Name = strings.TrimSpace(u.Name)
	return nil
}

// Caller 当前请求的调用者身份，由认证中间件解析后显式向下传递
type Caller struct {
	ID   string
	Role Role
}

// IsSupervisor 调用者是否为主管
func (c Caller) IsSupervisor() bool {
	return c.Role == RoleSupervisor
}

// IsAgent 调用者是否为坐席
func (c Caller) IsAgent() bool {
	return c.Role == RoleAgent
}
