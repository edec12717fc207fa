package controllers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/Anouar-Rezrazi/Konecta-Project/internal/app/middleware"
	"github.com/Anouar-Rezrazi/Konecta-Project/internal/domain/models"
	"github.com/Anouar-Rezrazi/Konecta-Project/internal/domain/services"
	"github.com/Anouar-Rezrazi/Konecta-Project/internal/domain/services/container"
	"github.com/Anouar-Rezrazi/Konecta-Project/internal/error/code"
	"github.com/Anouar-Rezrazi/Konecta-Project/internal/error/response"

	"github.com/gin-gonic/gin"
)

// ReportController 通话报表导出
type ReportController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewReportController 创建报表控制器
func NewReportController(ctx *gin.Context, container *container.ServiceContainer) *ReportController {
	return &ReportController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleReportFunc 返回一个处理报表导出请求的Gin处理函数
func HandleReportFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewReportController(ctx, container)

		switch method {
		case "exportCSV":
			controller.ExportCSV()
		case "exportHTML":
			controller.ExportHTML()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "Invalid method")
		}
	}
}

// 1. ExportCSV 导出CSV
// @Summary      Export calls as CSV
// @Description  Same filters as GET /calls, without pagination. At most 5000 rows.
// @Tags         Reports
// @Produce      text/csv
// @Security     BearerAuth
// @Param        agent      query     string  false  "Agent id (supervisors only)"
// @Param        status     query     string  false  "Call status"
// @Param        reason     query     string  false  "Exact reason"
// @Param        startDate  query     string  false  "Inclusive lower bound"
// @Param        endDate    query     string  false  "Inclusive upper bound"
// @Success      200  {file}    file
// @Failure      400  {object}  response.ErrorResponse
// @Router       /reports/csv [get]
func (c *ReportController) ExportCSV() {
	calls, _, ok := c.loadCalls()
	if !ok {
		return
	}

	reports := c.Container.ReportService()
	var buf bytes.Buffer
	if err := reports.WriteCSV(&buf, calls); err != nil {
		response.FailWithError(c.Ctx, code.Wrap(code.ErrUnknown, err))
		return
	}

	c.Ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, reports.FileName("csv")))
	c.Ctx.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// 2. ExportHTML 导出可打印的HTML报表
// @Summary      Export calls as a printable HTML report
// @Tags         Reports
// @Produce      text/html
// @Security     BearerAuth
// @Param        agent      query     string  false  "Agent id (supervisors only)"
// @Param        status     query     string  false  "Call status"
// @Param        reason     query     string  false  "Exact reason"
// @Param        startDate  query     string  false  "Inclusive lower bound"
// @Param        endDate    query     string  false  "Inclusive upper bound"
// @Success      200  {string}  string
// @Failure      400  {object}  response.ErrorResponse
// @Router       /reports/html [get]
func (c *ReportController) ExportHTML() {
	calls, query, ok := c.loadCalls()
	if !ok {
		return
	}

	filters := map[string]string{
		"Status":     query.Status,
		"Reason":     query.Reason,
		"Start Date": query.StartDate,
		"End Date":   query.EndDate,
	}
	if middleware.MustCaller(c.Ctx).IsSupervisor() {
		filters["Agent"] = query.Agent
	}

	reports := c.Container.ReportService()
	var buf bytes.Buffer
	if err := reports.WriteHTML(&buf, calls, filters); err != nil {
		response.FailWithError(c.Ctx, code.Wrap(code.ErrUnknown, err))
		return
	}

	c.Ctx.Header("Content-Disposition", fmt.Sprintf(`inline; filename="%s"`, reports.FileName("html")))
	c.Ctx.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// loadCalls 解析过滤条件并取出调用者可见的通话
func (c *ReportController) loadCalls() ([]models.CallView, services.CallQuery, bool) {
	caller := middleware.MustCaller(c.Ctx)

	var query services.CallQuery
	if err := c.Ctx.ShouldBindQuery(&query); err != nil {
		response.FailWithError(c.Ctx, services.DecodeError(err))
		return nil, query, false
	}
	filter, err := query.Filter()
	if err != nil {
		response.FailWithError(c.Ctx, err)
		return nil, query, false
	}

	calls, err := c.Container.CallRecordService().ListCallsForExport(caller, filter)
	if err != nil {
		response.FailWithError(c.Ctx, err)
		return nil, query, false
	}
	return calls, query, true
}
