package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// CallStatus represents the status of a call
type CallStatus string

const (
	CallStatusCompleted CallStatus = "completed"
	CallStatusMissed    CallStatus = "missed"
	CallStatusAbandoned CallStatus = "abandoned"
	CallStatusBusy      CallStatus = "busy"
)

// CallStatuses 所有合法状态，顺序即统计输出顺序
var CallStatuses = []CallStatus{
	CallStatusCompleted,
	CallStatusMissed,
	CallStatusAbandoned,
	CallStatusBusy,
}

// IsValid 判断状态是否在枚举内
func (s CallStatus) IsValid() bool {
	for _, status := range CallStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Call represents a call handled by an agent
type Call struct {
	BaseModel
	PhoneNumber string     `gorm:"type:varchar(30);not null" json:"phoneNumber"`
	Date        time.Time  `gorm:"not null;index;index:idx_calls_agent_date,priority:2" json:"date"` // 通话发生时间
	Duration    int        `gorm:"not null;default:0" json:"duration"`                              // 通话时长（秒）
	AgentID     string     `gorm:"type:varchar(36);not null;index:idx_calls_agent_date,priority:1" json:"-"`
	Status      CallStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	Reason      string     `gorm:"type:varchar(255);not null" json:"reason"`
	Notes       string     `gorm:"type:text" json:"notes,omitempty"`

	// Relations
	Agent *User `gorm:"foreignKey:AgentID" json:"-"`
}

// BeforeSave 去除文本字段首尾空白，时间统一存为UTC
func (c *Call) BeforeSave(tx *gorm.DB) error {
	c.PhoneNumber = strings.TrimSpace(c.PhoneNumber)
	c.Reason = strings.TrimSpace(c.Reason)
	c.Notes = strings.TrimSpace(c.Notes)
	c.Date = c.Date.UTC()
	return nil
}

// AgentRef 通话记录中嵌入的坐席信息，只包含公开字段
type AgentRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CallView 返回给客户端的通话记录
type CallView struct {
	ID          string     `json:"id"`
	PhoneNumber string     `json:"phoneNumber"`
	Date        time.Time  `json:"date"`
	Duration    int        `json:"duration"`
	AgentID     *AgentRef  `json:"agentId"`
	Status      CallStatus `json:"status"`
	Reason      string     `json:"reason"`
	Notes       string     `json:"notes,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// ToView 将通话记录与已预加载的坐席信息组装成响应结构
func (c *Call) ToView() CallView {
	view := CallView{
		ID:          c.ID,
		PhoneNumber: c.PhoneNumber,
		Date:        c.Date,
		Duration:    c.Duration,
		Status:      c.Status,
		Reason:      c.Reason,
		Notes:       c.Notes,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
	if c.Agent != nil {
		view.AgentID = &AgentRef{ID: c.Agent.ID, Name: c.Agent.Name, Email: c.Agent.Email}
	} else if c.AgentID != "" {
		view.AgentID = &AgentRef{ID: c.AgentID}
	}
	return view
}

// ToCallViews 批量转换
func ToCallViews(calls []Call) []CallView {
	views := make([]CallView, 0, len(calls))
	for i := range calls {
		views = append(views, calls[i].ToView())
	}
	return views
}
