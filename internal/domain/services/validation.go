package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Anouar-Rezrazi/Konecta-Project/internal/error/code"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// 可接受的日期格式，不带时区的时间按UTC处理
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

const dateOnlyLayout = "2006-01-02"

// ParseDate 解析ISO-8601日期，第二个返回值表示输入只包含日期
func ParseDate(value string) (time.Time, bool, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(dateOnlyLayout, value); err == nil {
		return t.UTC(), true, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), false, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("invalid date: %q", value)
}

// getValidator 返回共享的校验器，字段名使用json标签
func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return field.Name
			}
			return name
		})
		_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		_ = validate.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
			_, _, err := ParseDate(fl.Field().String())
			return err == nil
		})
	})
	return validate
}

// ValidateStruct 校验结构体，返回包含全部字段问题的校验错误
func ValidateStruct(payload interface{}) error {
	err := getValidator().Struct(payload)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return code.Wrap(code.ErrUnknown, err)
	}

	issues := make([]code.FieldIssue, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		issues = append(issues, code.FieldIssue{Field: fe.Field(), Message: issueMessage(fe)})
	}
	return code.Validation(issues...)
}

// issueMessage 生成单个字段的英文提示
func issueMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required", "notblank":
		return field + " is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "email":
		return field + " must be a valid email"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "isodate":
		return field + " must be a valid ISO-8601 date"
	default:
		return field + " is invalid"
	}
}

// DecodeError 将请求体解析错误转换为校验错误
func DecodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return code.Validation(code.FieldIssue{
			Field:   typeErr.Field,
			Message: fmt.Sprintf("%s has an invalid type, expected %s", typeErr.Field, typeErr.Type.String()),
		})
	}
	return code.NewWithMessage(code.ErrBind, code.GetMessage(code.ErrBind))
}

// trimPtr 去除可选字符串的首尾空白
func trimPtr(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	return &trimmed
}

func atoiOrZero(value string) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return n
}
