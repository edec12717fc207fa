package services

import (
	"strings"
	"time"

	"github.com/Anouar-Rezrazi/Konecta-Project/internal/domain/models"
	"github.com/Anouar-Rezrazi/Konecta-Project/internal/error/code"

	"gorm.io/gorm"
)

// CallFilter 通话记录的查询条件，所有字段可选
type CallFilter struct {
	AgentID   string
	Status    models.CallStatus
	Reason    string
	StartDate *time.Time
	EndDate   *time.Time
}

// CallQuery 列表、导出共用的查询参数
type CallQuery struct {
	Page      string `form:"page"`
	Limit     string `form:"limit"`
	Agent     string `form:"agent"`
	Status    string `form:"status"`
	Reason    string `form:"reason"`
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
}

// Filter 将查询参数解析为过滤条件，日期无法解析时返回校验错误
func (q CallQuery) Filter() (CallFilter, error) {
	filter := CallFilter{
		AgentID: strings.TrimSpace(q.Agent),
		Status:  models.CallStatus(strings.TrimSpace(q.Status)),
		Reason:  strings.TrimSpace(q.Reason),
	}

	var issues []code.FieldIssue
	if q.StartDate != "" {
		start, _, err := ParseDate(q.StartDate)
		if err != nil {
			issues = append(issues, code.FieldIssue{Field: "startDate", Message: "startDate must be a valid ISO-8601 date"})
		} else {
			filter.StartDate = &start
		}
	}
	if q.EndDate != "" {
		end, dateOnly, err := ParseDate(q.EndDate)
		if err != nil {
			issues = append(issues, code.FieldIssue{Field: "endDate", Message: "endDate must be a valid ISO-8601 date"})
		} else {
			// 只有日期时包含当天全部时间
			if dateOnly {
				end = end.AddDate(0, 0, 1).Add(-time.Nanosecond)
			}
			filter.EndDate = &end
		}
	}
	if len(issues) > 0 {
		return filter, code.Validation(issues...)
	}
	return filter, nil
}

// Pagination 解析分页参数，缺失或非法时使用默认值
func (q CallQuery) Pagination() models.PaginationQuery {
	return models.PaginationQuery{Page: atoiOrZero(q.Page), Limit: atoiOrZero(q.Limit)}.Normalize()
}

// ScopeCallFilter 根据调用者角色收敛过滤条件：坐席只能看到自己的通话
func ScopeCallFilter(caller models.Caller, requested CallFilter) CallFilter {
	scoped := requested
	if !caller.IsSupervisor() {
		scoped.AgentID = caller.ID
	}
	return scoped
}

// CanAccessCall 判断调用者是否可以访问单条通话记录
func CanAccessCall(caller models.Caller, call *models.Call) bool {
	if caller.IsSupervisor() {
		return true
	}
	return call != nil && call.AgentID == caller.ID
}

// Apply 将过滤条件转换为GORM查询范围，可直接用于 db.Scopes
func (f CallFilter) Apply(db *gorm.DB) *gorm.DB {
	if f.AgentID != "" {
		db = db.Where("calls.agent_id = ?", f.AgentID)
	}
	if f.Status != "" {
		db = db.Where("calls.status = ?", f.Status)
	}
	if f.Reason != "" {
		db = db.Where("calls.reason = ?", f.Reason)
	}
	if f.StartDate != nil {
		db = db.Where("calls.date >= ?", f.StartDate.UTC())
	}
	if f.EndDate != nil {
		db = db.Where("calls.date <= ?", f.EndDate.UTC())
	}
	return db
}

// Matches 在内存中判断通话是否满足过滤条件，与 Apply 语义一致
func (f CallFilter) Matches(call *models.Call) bool {
	if f.AgentID != "" && call.AgentID != f.AgentID {
		return false
	}
	if f.Status != "" && call.Status != f.Status {
		return false
	}
	if f.Reason != "" && call.Reason != f.Reason {
		return false
	}
	if f.StartDate != nil && call.Date.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && call.Date.After(*f.EndDate) {
		return false
	}
	return true
}
