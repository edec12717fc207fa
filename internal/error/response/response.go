package response

import (
	"net/http"

	"github.com/Anouar-Rezrazi/Konecta-Project/internal/error/code"
	Logger "github.com/Anouar-Rezrazi/Konecta-Project/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ErrorResponse 定义统一的错误响应格式
type ErrorResponse struct {
	Error   string            `json:"error" example:"Validation failed"`
	Details []code.FieldIssue `json:"details,omitempty"`
}

// MessageResponse 仅包含提示信息的响应
type MessageResponse struct {
	Message string `json:"message" example:"Call deleted successfully"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created 创建成功响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Message 成功响应（仅提示信息）
func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, MessageResponse{Message: message})
}

// Fail 失败响应
func Fail(c *gin.Context, errorCode int) {
	c.AbortWithStatusJSON(code.GetStatus(errorCode), ErrorResponse{
		Error: code.GetMessage(errorCode),
	})
}

// FailWithMessage 失败响应（自定义消息）
func FailWithMessage(c *gin.Context, errorCode int, message string) {
	c.AbortWithStatusJSON(code.GetStatus(errorCode), ErrorResponse{
		Error: message,
	})
}

// FailWithError 将服务层返回的错误转换为响应，未知错误只记录日志并返回通用消息
func FailWithError(c *gin.Context, err error) {
	appErr, ok := code.As(err)
	if !ok {
		Logger.Error("%s %s 未处理的错误: %v", c.Request.Method, c.Request.URL.Path, err)
		Fail(c, code.ErrUnknown)
		return
	}

	status := appErr.Status()
	if status >= http.StatusInternalServerError {
		Logger.Error("%s %s 服务器内部错误: %v", c.Request.Method, c.Request.URL.Path, appErr)
		Fail(c, appErr.Code)
		return
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:   appErr.Message,
		Details: appErr.Details,
	})
}

// ValidationError 参数校验失败响应
func ValidationError(c *gin.Context, issues ...code.FieldIssue) {
	FailWithError(c, code.Validation(issues...))
}

// ServerError 服务器错误响应
func ServerError(c *gin.Context) {
	Fail(c, code.ErrUnknown)
}

// NotFound 资源不存在响应
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = code.GetMessage(code.ErrRecordNotFound)
	}
	FailWithMessage(c, code.ErrRecordNotFound, message)
}

// Unauthorized 未授权响应
func Unauthorized(c *gin.Context) {
	Fail(c, code.ErrTokenInvalid)
}

// Forbidden 无权限响应
func Forbidden(c *gin.Context) {
	Fail(c, code.ErrForbidden)
}
