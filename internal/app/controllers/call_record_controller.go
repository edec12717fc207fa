package controllers

import (
	"github.com/Anouar-Rezrazi/Konecta-Project/internal/app/middleware"
	"github.com/Anouar-Rezrazi/Konecta-Project/internal/domain/services"
	"github.com/Anouar-Rezrazi/Konecta-Project/internal/domain/services/container"
	"github.com/Anouar-Rezrazi/Konecta-Project/internal/error/code"
	"github.com/Anouar-Rezrazi/Konecta-Project/internal/error/response"

	"github.com/gin-gonic/gin"
)

// InterfaceCallRecordController 定义通话记录控制器接口
type InterfaceCallRecordController interface {
	GetCalls()
	GetCall()
	CreateCall()
	UpdateCall()
	DeleteCall()
}

// CallRecordController 处理通话记录相关的请求
type CallRecordController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewCallRecordController 创建一个新的通话记录控制器
func NewCallRecordController(ctx *gin.Context, container *container.ServiceContainer) *CallRecordController {
	return &CallRecordController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleCallRecordFunc 返回一个处理通话记录请求的Gin处理函数
func HandleCallRecordFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewCallRecordController(ctx, container)

		switch method {
		case "getCalls":
			controller.GetCalls()
		case "getCall":
			controller.GetCall()
		case "createCall":
			controller.CreateCall()
		case "updateCall":
			controller.UpdateCall()
		case "deleteCall":
			controller.DeleteCall()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "Invalid method")
		}
	}
}

// 1. GetCalls 获取通话记录列表
// @Summary      List calls
// @Description  Paginated call records visible to the caller. Agents only ever see their own calls; supervisors may filter by agent.
// @Tags         Calls
// @Produce      json
// @Security     BearerAuth
// @Param        page       query     int     false  "Page number, default 1"
// @Param        limit      query     int     false  "Page size, default 10"
// @Param        agent      query     string  false  "Agent id (supervisors only)"
// @Param        status     query     string  false  "completed, missed, abandoned or busy"
// @Param        reason     query     string  false  "Exact reason"
// @Param        startDate  query     string  false  "Inclusive lower bound (ISO-8601)"
// @Param        endDate    query     string  false  "Inclusive upper bound (ISO-8601, a bare date covers the whole day)"
// @Success      200  {object}  services.CallListResult
// @Failure      400  {object}  response.ErrorResponse
// @Failure      401  {object}  response.ErrorResponse
// @Router       /calls [get]
func (c *CallRecordController) GetCalls() {
	caller := middleware.MustCaller(c.Ctx)

	var query services.CallQuery
	if err := c.Ctx.ShouldBindQuery(&query); err != nil {
		response.FailWithError(c.Ctx, services.DecodeError(err))
		return
	}
	filter, err := query.Filter()
	if err != nil {
		response.FailWithError(c.Ctx, err)
		return
	}

	result, err := c.Container.CallRecordService().ListCalls(caller, filter, query.Pagination())
	if err != nil {
		response.FailWithError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, result)
}

// 2. GetCall 获取单条通话记录
// @Summary      Get a call
// @Tags         Calls
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Call id"
// @Success      200  {object}  models.CallView
// @Failure      403  {object}  response.ErrorResponse
// @Failure      404  {object}  response.ErrorResponse
// @Router       /calls/{id} [get]
func (c *CallRecordController) GetCall() {
	caller := middleware.MustCaller(c.Ctx)

	call, err := c.Container.CallRecordService().GetCall(caller, c.Ctx.Param("id"))
	if err != nil {
		response.FailWithError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, call)
}

// 3. CreateCall 创建通话记录
// @Summary      Create a call
// @Description  Agents always create calls for themselves; supervisors must name an existing agentId.
// @Tags         Calls
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      services.CreateCallRequest  true  "Call record"
// @Success      201      {object}  models.CallView
// @Failure      400      {object}  response.ErrorResponse
// @Failure      401      {object}  response.ErrorResponse
// @Router       /calls [post]
func (c *CallRecordController) CreateCall() {
	caller := middleware.MustCaller(c.Ctx)

	var req services.CreateCallRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithError(c.Ctx, services.DecodeError(err))
		return
	}

	call, err := c.Container.CallRecordService().CreateCall(caller, &req)
	if err != nil {
		response.FailWithError(c.Ctx, err)
		return
	}
	response.Created(c.Ctx, call)
}

// 4. UpdateCall 更新通话记录
// @Summary      Update a call
// @Description  Partial update. Agents may only edit their own calls and can never reassign them.
// @Tags         Calls
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                      true  "Call id"
// @Param        request  body      services.UpdateCallRequest  true  "Fields to change"
// @Success      200      {object}  models.CallView
// @Failure      400      {object}  response.ErrorResponse
// @Failure      403      {object}  response.ErrorResponse
// @Failure      404      {object}  response.ErrorResponse
// @Router       /calls/{id} [put]
func (c *CallRecordController) UpdateCall() {
	caller := middleware.MustCaller(c.Ctx)

	var req services.UpdateCallRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithError(c.Ctx, services.DecodeError(err))
		return
	}

	call, err := c.Container.CallRecordService().UpdateCall(caller, c.Ctx.Param("id"), &req)
	if err != nil {
		response.FailWithError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, call)
}

// 5. DeleteCall 删除通话记录，仅主管可用
// @Summary      Delete a call
// @Tags         Calls
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Call id"
// @Success      200  {object}  response.MessageResponse
// @Failure      403  {object}  response.ErrorResponse
// @Failure      404  {object}  response.ErrorResponse
// @Router       /calls/{id} [delete]
func (c *CallRecordController) DeleteCall() {
	caller := middleware.MustCaller(c.Ctx)

	if err := c.Container.CallRecordService().DeleteCall(caller, c.Ctx.Param("id")); err != nil {
		response.FailWithError(c.Ctx, err)
		return
	}
	response.Message(c.Ctx, "Call deleted successfully")
}
