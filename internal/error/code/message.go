package code

// 错误码消息映射
var codeMessageMap = map[int]string{
	// 通用错误码
	ErrSuccess:            "成功",
	ErrUnknown:            "未知错误",
	ErrBind:               "请求参数绑定错误",
	ErrValidation:         "请求参数验证错误",
	ErrTooManyRequests:    "请求频率过高",
	ErrServiceUnavailable: "服务暂不可用，请稍后再试",

	// 认证/会话相关错误码
	ErrAuthFailed:        "邮箱或密码错误",
	ErrAccountDisabled:   "账户已被停用或暂停",
	ErrSessionInvalid:    "会话无效或已过期",
	ErrPermissionDenied:  "权限不足",
	ErrSelfModification:  "不允许对自己的账户执行该操作",
	ErrPasswordIncorrect: "当前密码错误",

	// 升级授权相关错误码
	ErrInvalidPin:         "授权PIN错误",
	ErrPinLocked:          "PIN验证已锁定，请稍后再试",
	ErrInvalidOtp:         "OTP验证码错误",
	ErrOtpExpired:         "OTP验证码已过期，请重新进行PIN验证",
	ErrOtpLocked:          "OTP尝试次数过多，请重新进行PIN验证",
	ErrOtpNotIssued:       "请先完成PIN验证",
	ErrStepUpTokenInvalid: "授权令牌无效",
	ErrStepUpTokenExpired: "授权令牌已过期",
	ErrStepUpTokenUsed:    "授权令牌已被使用",

	// 管理员相关错误码
	ErrAdminNotFound:  "管理员不存在",
	ErrEmailExists:    "邮箱已被其他管理员使用",
	ErrRoleInvalid:    "存储中的角色值非法",
	ErrLastSuperAdmin: "不能删除最后一个超级管理员",

	// 存储相关错误码
	ErrDatabase:       "数据库错误",
	ErrRecordNotFound: "记录不存在",
}

// 错误码HTTP状态码映射
var codeStatusMap = map[int]int{
	// 通用错误码
	ErrSuccess:            StatusOK,
	ErrUnknown:            StatusInternalServerError,
	ErrBind:               StatusBadRequest,
	ErrValidation:         StatusBadRequest,
	ErrTooManyRequests:    StatusTooManyRequests,
	ErrServiceUnavailable: StatusServiceUnavailable,

	// 认证/会话相关错误码
	ErrAuthFailed:        StatusUnauthorized,
	ErrAccountDisabled:   StatusForbidden,
	ErrSessionInvalid:    StatusUnauthorized,
	ErrPermissionDenied:  StatusForbidden,
	ErrSelfModification:  StatusForbidden,
	ErrPasswordIncorrect: StatusUnauthorized,

	// 升级授权相关错误码
	ErrInvalidPin:         StatusBadRequest,
	ErrPinLocked:          StatusLocked,
	ErrInvalidOtp:         StatusBadRequest,
	ErrOtpExpired:         StatusGone,
	ErrOtpLocked:          StatusLocked,
	ErrOtpNotIssued:       StatusBadRequest,
	ErrStepUpTokenInvalid: StatusForbidden,
	ErrStepUpTokenExpired: StatusForbidden,
	ErrStepUpTokenUsed:    StatusForbidden,

	// 管理员相关错误码
	ErrAdminNotFound:  StatusNotFound,
	ErrEmailExists:    StatusConflict,
	ErrRoleInvalid:    StatusInternalServerError,
	ErrLastSuperAdmin: StatusForbidden,

	// 存储相关错误码
	ErrDatabase:       StatusInternalServerError,
	ErrRecordNotFound: StatusNotFound,
}

// GetMessage 获取错误码对应的消息
func GetMessage(code int) string {
	if msg, ok := codeMessageMap[code]; ok {
		return msg
	}
	return "未知错误"
}

// GetStatus 获取错误码对应的HTTP状态码
func GetStatus(code int) int {
	if status, ok := codeStatusMap[code]; ok {
		return status
	}
	return StatusInternalServerError
}
