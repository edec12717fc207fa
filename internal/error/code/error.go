package code

import (
	"errors"
	"fmt"
)

// FieldIssue 单个字段的校验问题
type FieldIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error 业务错误，携带错误码与可选的字段问题列表
type Error struct {
	Code    int
	Message string
	Details []FieldIssue
	cause   error
}

// New 使用错误码的默认消息创建业务错误
func New(code int) *Error {
	return &Error{Code: code, Message: GetMessage(code)}
}

// NewWithMessage 使用自定义消息创建业务错误
func NewWithMessage(code int, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Validation 创建包含字段问题的校验错误
func Validation(issues ...FieldIssue) *Error {
	return &Error{Code: ErrValidation, Message: GetMessage(ErrValidation), Details: issues}
}

// Wrap 将底层错误包装为内部错误，原因只用于日志
func Wrap(code int, err error) *Error {
	return &Error{Code: code, Message: GetMessage(code), cause: err}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%d %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%d %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Status 错误对应的HTTP状态码
func (e *Error) Status() int {
	return GetStatus(e.Code)
}

// HasField 判断校验错误是否包含指定字段
func (e *Error) HasField(field string) bool {
	for _, issue := range e.Details {
		if issue.Field == field {
			return true
		}
	}
	return false
}

// As 从错误链中提取业务错误
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Is 判断错误链中是否存在指定错误码
func Is(err error, code int) bool {
	e, ok := As(err)
	return ok && e.Code == code
}
