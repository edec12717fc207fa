package services

import (
	"errors"
	"strings"

	"github.com/Anouar-Rezrazi/Konecta-Project/internal/domain/models"
	"github.com/Anouar-Rezrazi/Konecta-Project/internal/error/code"
	Logger "github.com/Anouar-Rezrazi/Konecta-Project/pkg/logger"

	"gorm.io/gorm"
)

// ExportLimit 单次导出的最大记录数
const ExportLimit = 5000

// InterfaceCallRecordService 定义通话记录服务接口
type InterfaceCallRecordService interface {
	ListCalls(caller models.Caller, filter CallFilter, page models.PaginationQuery) (*CallListResult, error)
	GetCall(caller models.Caller, id string) (*models.CallView, error)
	CreateCall(caller models.Caller, req *CreateCallRequest) (*models.CallView, error)
	UpdateCall(caller models.Caller, id string, req *UpdateCallRequest) (*models.CallView, error)
	DeleteCall(caller models.Caller, id string) error
	ListCallsForExport(caller models.Caller, filter CallFilter) ([]models.CallView, error)
}

// CallListResult 通话列表响应
type CallListResult struct {
	Calls      []models.CallView       `json:"calls"`
	Pagination models.PaginationResult `json:"pagination"`
}

// CreateCallRequest 创建通话记录请求
type CreateCallRequest struct {
	PhoneNumber string `json:"phoneNumber" validate:"required,min=10" example:"+212 612-34-56-78"`
	Date        string `json:"date" validate:"required,isodate" example:"2024-03-15T10:30:00Z"`
	Duration    *int   `json:"duration" validate:"required,min=0" example:"180"`
	AgentID     string `json:"agentId,omitempty" example:"3f8e0a52-5a7c-4e39-9a57-0c8a4b7a1d11"`
	Status      string `json:"status" validate:"required,oneof=completed missed abandoned busy" example:"completed"`
	Reason      string `json:"reason" validate:"notblank" example:"Technical support"`
	Notes       string `json:"notes,omitempty"`
}

// UpdateCallRequest 更新通话记录请求，只校验提交的字段
type UpdateCallRequest struct {
	PhoneNumber *string `json:"phoneNumber" validate:"omitempty,min=10"`
	Date        *string `json:"date" validate:"omitempty,isodate"`
	Duration    *int    `json:"duration" validate:"omitempty,min=0"`
	AgentID     *string `json:"agentId,omitempty"`
	Status      *string `json:"status" validate:"omitempty,oneof=completed missed abandoned busy"`
	Reason      *string `json:"reason" validate:"omitempty,notblank"`
	Notes       *string `json:"notes"`
}

// CallRecordService 通话记录服务
type CallRecordService struct {
	DB     *gorm.DB
	Cache  InterfaceRedisService
	Events InterfaceCallEventPublisher
}

// NewCallRecordService 创建通话记录服务
func NewCallRecordService(db *gorm.DB, cache InterfaceRedisService, events InterfaceCallEventPublisher) InterfaceCallRecordService {
	if events == nil {
		events = NoopEventPublisher{}
	}
	return &CallRecordService{
		DB:     db,
		Cache:  cache,
		Events: events,
	}
}

// withAgent 预加载坐席的公开字段
func withAgent(db *gorm.DB) *gorm.DB {
	return db.Preload("Agent", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "name", "email")
	})
}

// 1 ListCalls 获取调用者可见范围内的通话列表
func (s *CallRecordService) ListCalls(caller models.Caller, filter CallFilter, page models.PaginationQuery) (*CallListResult, error) {
	scoped := ScopeCallFilter(caller, filter)
	page = page.Normalize()

	var total int64
	if err := s.DB.Model(&models.Call{}).Scopes(scoped.Apply).Count(&total).Error; err != nil {
		return nil, code.Wrap(code.ErrDatabase, err)
	}

	result := &CallListResult{
		Calls:      []models.CallView{},
		Pagination: models.NewPaginationResult(total, page.Page, page.Limit),
	}
	if page.PastEnd(total) {
		return result, nil
	}

	var calls []models.Call
	err := s.DB.Scopes(scoped.Apply, withAgent).
		Order("calls.date DESC, calls.id DESC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&calls).Error
	if err != nil {
		return nil, code.Wrap(code.ErrDatabase, err)
	}

	result.Calls = models.ToCallViews(calls)
	return result, nil
}

// 2 GetCall 获取单条通话记录，先判断存在再判断权限
func (s *CallRecordService) GetCall(caller models.Caller, id string) (*models.CallView, error) {
	call, err := s.findCall(id)
	if err != nil {
		return nil, err
	}
	if !CanAccessCall(caller, call) {
		return nil, code.New(code.ErrForbidden)
	}

	view := call.ToView()
	return &view, nil
}

// 3 CreateCall 创建通话记录，坐席只能为自己创建
func (s *CallRecordService) CreateCall(caller models.Caller, req *CreateCallRequest) (*models.CallView, error) {
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	req.Status = strings.TrimSpace(req.Status)
	req.AgentID = strings.TrimSpace(req.AgentID)

	issues, err := validationIssues(ValidateStruct(req))
	if err != nil {
		return nil, err
	}

	agentID := caller.ID
	if caller.IsSupervisor() {
		agentID = req.AgentID
		agentIssue, err := s.checkAgent(agentID)
		if err != nil {
			return nil, err
		}
		if agentIssue != nil {
			issues = append(issues, *agentIssue)
		}
	}
	if len(issues) > 0 {
		return nil, code.Validation(issues...)
	}

	date, _, _ := ParseDate(req.Date)
	call := models.Call{
		PhoneNumber: req.PhoneNumber,
		Date:        date,
		Duration:    *req.Duration,
		AgentID:     agentID,
		Status:      models.CallStatus(req.Status),
		Reason:      req.Reason,
		Notes:       req.Notes,
	}
	if err := s.DB.Create(&call).Error; err != nil {
		return nil, code.Wrap(code.ErrDatabase, err)
	}

	view, err := s.reload(call.ID)
	if err != nil {
		return nil, err
	}
	s.afterMutation(CallEventCreated, caller, *view)
	return view, nil
}

// 4 UpdateCall 部分更新通话记录：校验、存在性、权限依次判断
func (s *CallRecordService) UpdateCall(caller models.Caller, id string, req *UpdateCallRequest) (*models.CallView, error) {
	req.PhoneNumber = trimPtr(req.PhoneNumber)
	req.Status = trimPtr(req.Status)
	req.AgentID = trimPtr(req.AgentID)

	issues, err := validationIssues(ValidateStruct(req))
	if err != nil {
		return nil, err
	}

	// 坐席不能改派通话
	reassign := caller.IsSupervisor() && req.AgentID != nil
	if reassign {
		agentIssue, err := s.checkAgent(*req.AgentID)
		if err != nil {
			return nil, err
		}
		if agentIssue != nil {
			issues = append(issues, *agentIssue)
		}
	}
	if len(issues) > 0 {
		return nil, code.Validation(issues...)
	}

	call, err := s.findCall(id)
	if err != nil {
		return nil, err
	}
	if !CanAccessCall(caller, call) {
		return nil, code.New(code.ErrForbidden)
	}

	if req.PhoneNumber != nil {
		call.PhoneNumber = *req.PhoneNumber
	}
	if req.Date != nil {
		call.Date, _, _ = ParseDate(*req.Date)
	}
	if req.Duration != nil {
		call.Duration = *req.Duration
	}
	if req.Status != nil {
		call.Status = models.CallStatus(*req.Status)
	}
	if req.Reason != nil {
		call.Reason = *req.Reason
	}
	if req.Notes != nil {
		call.Notes = *req.Notes
	}
	if reassign {
		call.AgentID = *req.AgentID
	}

	// 预加载的坐席不参与保存
	call.Agent = nil
	if err := s.DB.Omit("Agent").Save(call).Error; err != nil {
		return nil, code.Wrap(code.ErrDatabase, err)
	}

	view, err := s.reload(call.ID)
	if err != nil {
		return nil, err
	}
	s.afterMutation(CallEventUpdated, caller, *view)
	return view, nil
}

// 5 DeleteCall 删除通话记录，仅主管可操作
func (s *CallRecordService) DeleteCall(caller models.Caller, id string) error {
	if !caller.IsSupervisor() {
		return code.New(code.ErrForbidden)
	}

	call, err := s.findCall(id)
	if err != nil {
		return err
	}
	view := call.ToView()

	result := s.DB.Delete(&models.Call{}, "id = ?", call.ID)
	if result.Error != nil {
		return code.Wrap(code.ErrDatabase, result.Error)
	}
	if result.RowsAffected == 0 {
		return code.New(code.ErrCallNotFound)
	}

	s.afterMutation(CallEventDeleted, caller, view)
	return nil
}

// 6 ListCallsForExport 获取导出用的通话记录，最多 ExportLimit 条
func (s *CallRecordService) ListCallsForExport(caller models.Caller, filter CallFilter) ([]models.CallView, error) {
	scoped := ScopeCallFilter(caller, filter)

	var calls []models.Call
	err := s.DB.Scopes(scoped.Apply, withAgent).
		Order("calls.date DESC, calls.id DESC").
		Limit(ExportLimit).
		Find(&calls).Error
	if err != nil {
		return nil, code.Wrap(code.ErrDatabase, err)
	}
	return models.ToCallViews(calls), nil
}

// findCall 按ID查找通话，非法ID视为不存在
func (s *CallRecordService) findCall(id string) (*models.Call, error) {
	if !models.IsValidID(id) {
		return nil, code.New(code.ErrCallNotFound)
	}

	var call models.Call
	err := s.DB.Scopes(withAgent).Where("calls.id = ?", id).First(&call).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, code.New(code.ErrCallNotFound)
	}
	if err != nil {
		return nil, code.Wrap(code.ErrDatabase, err)
	}
	return &call, nil
}

// reload 重新读取通话及坐席信息
func (s *CallRecordService) reload(id string) (*models.CallView, error) {
	call, err := s.findCall(id)
	if err != nil {
		return nil, err
	}
	view := call.ToView()
	return &view, nil
}

// checkAgent 检查坐席ID是否指向已存在的用户
func (s *CallRecordService) checkAgent(agentID string) (*code.FieldIssue, error) {
	if agentID == "" {
		return &code.FieldIssue{Field: "agentId", Message: "agentId is required"}, nil
	}
	if !models.IsValidID(agentID) {
		return &code.FieldIssue{Field: "agentId", Message: "agentId must reference an existing user"}, nil
	}

	var count int64
	if err := s.DB.Model(&models.User{}).Where("id = ?", agentID).Count(&count).Error; err != nil {
		return nil, code.Wrap(code.ErrDatabase, err)
	}
	if count == 0 {
		return &code.FieldIssue{Field: "agentId", Message: "agentId must reference an existing user"}, nil
	}
	return nil, nil
}

// afterMutation 通话变更后使统计缓存失效并发布事件
func (s *CallRecordService) afterMutation(event string, caller models.Caller, view models.CallView) {
	if s.Cache != nil {
		if err := s.Cache.InvalidateDashboardStats(); err != nil {
			Logger.Warning("仪表盘缓存失效失败: %v", err)
		}
	}
	s.Events.PublishCallEvent(event, caller, view)
}

// validationIssues 拆出校验错误中的字段问题，其他错误原样返回
func validationIssues(err error) ([]code.FieldIssue, error) {
	if err == nil {
		return nil, nil
	}
	if appErr, ok := code.As(err); ok && appErr.Code == code.ErrValidation {
		return appErr.Details, nil
	}
	return nil, err
}
