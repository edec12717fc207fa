package code

// 错误码消息映射
var codeMessageMap = map[int]string{
	// 通用错误码
	ErrSuccess:         "OK",
	ErrUnknown:         "Internal server error",
	ErrBind:            "Invalid request body",
	ErrValidation:      "Validation failed",
	ErrTokenInvalid:    "Unauthorized",
	ErrTooManyRequests: "Too many requests, please try again later",
	ErrForbidden:       "Forbidden",

	// 用户相关错误码
	ErrUserNotFound:          "User not found",
	ErrUserAlreadyExist:      "User with this email already exists",
	ErrUserPasswordIncorrect: "Invalid email or password",
	ErrUserSelfDelete:        "Cannot delete your own account",

	// 通话记录相关错误码
	ErrCallNotFound: "Call not found",

	// 数据库相关错误码
	ErrDatabase:       "Internal server error",
	ErrRecordNotFound: "Record not found",
}

// 错误码HTTP状态码映射
var codeStatusMap = map[int]int{
	// 通用错误码
	ErrSuccess:         StatusOK,
	ErrUnknown:         StatusInternalServerError,
	ErrBind:            StatusBadRequest,
	ErrValidation:      StatusBadRequest,
	ErrTokenInvalid:    StatusUnauthorized,
	ErrTooManyRequests: StatusTooManyRequests,
	ErrForbidden:       StatusForbidden,

	// 用户相关错误码
	ErrUserNotFound:          StatusNotFound,
	ErrUserAlreadyExist:      StatusConflict,
	ErrUserPasswordIncorrect: StatusUnauthorized,
	ErrUserSelfDelete:        StatusForbidden,

	// 通话记录相关错误码
	ErrCallNotFound: StatusNotFound,

	// 数据库相关错误码
	ErrDatabase:       StatusInternalServerError,
	ErrRecordNotFound: StatusNotFound,
}

// GetMessage 获取错误码对应的消息
func GetMessage(code int) string {
	if msg, ok := codeMessageMap[code]; ok {
		return msg
	}
	return codeMessageMap[ErrUnknown]
}

// GetStatus 获取错误码对应的HTTP状态码
func GetStatus(code int) int {
	if status, ok := codeStatusMap[code]; ok {
		return status
	}
	return StatusInternalServerError
}
