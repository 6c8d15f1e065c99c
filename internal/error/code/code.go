package code

// HTTP状态码.
const (
	// StatusOK - 200: 成功.
	StatusOK = 200
	// StatusCreated - 201: 已创建.
	StatusCreated = 201
	// StatusBadRequest - 400: 请求参数错误.
	StatusBadRequest = 400
	// StatusUnauthorized - 401: 未授权.
	StatusUnauthorized = 401
	// StatusForbidden - 403: 禁止访问.
	StatusForbidden = 403
	// StatusNotFound - 404: 资源不存在.
	StatusNotFound = 404
	// StatusConflict - 409: 资源冲突.
	StatusConflict = 409
	// StatusGone - 410: 资源已失效.
	StatusGone = 410
	// StatusLocked - 423: 已锁定.
	StatusLocked = 423
	// StatusTooManyRequests - 429: 请求过多.
	StatusTooManyRequests = 429
	// StatusInternalServerError - 500: 服务器内部错误.
	StatusInternalServerError = 500
	// StatusServiceUnavailable - 503: 服务不可用.
	StatusServiceUnavailable = 503
)

// 通用错误码 (100xxx).
const (
	// ErrSuccess - 200: 成功.
	ErrSuccess int = iota + 100000
	// ErrUnknown - 500: 未知错误.
	ErrUnknown
	// ErrBind - 400: 请求参数绑定错误.
	ErrBind
	// ErrValidation - 400: 请求参数验证错误.
	ErrValidation
	// ErrTooManyRequests - 429: 请求频率过高.
	ErrTooManyRequests
	// ErrServiceUnavailable - 503: 后端存储暂不可用.
	ErrServiceUnavailable
)

// 认证/会话相关错误码 (101xxx).
const (
	// ErrAuthFailed - 401: 邮箱或密码错误.
	ErrAuthFailed int = iota + 101000
	// ErrAccountDisabled - 403: 账户已停用或被暂停.
	ErrAccountDisabled
	// ErrSessionInvalid - 401: 会话无效或已过期.
	ErrSessionInvalid
	// ErrPermissionDenied - 403: 权限不足.
	ErrPermissionDenied
	// ErrSelfModification - 403: 不允许对自己的账户执行该操作.
	ErrSelfModification
	// ErrPasswordIncorrect - 401: 当前密码错误.
	ErrPasswordIncorrect
)

// 升级授权相关错误码 (102xxx).
const (
	// ErrInvalidPin - 400: 授权PIN错误.
	ErrInvalidPin int = iota + 102000
	// ErrPinLocked - 423: PIN验证已锁定.
	ErrPinLocked
	// ErrInvalidOtp - 400: OTP验证码错误.
	ErrInvalidOtp
	// ErrOtpExpired - 410: OTP验证码已过期.
	ErrOtpExpired
	// ErrOtpLocked - 423: OTP验证已锁定.
	ErrOtpLocked
	// ErrOtpNotIssued - 400: 尚未通过PIN验证，无可校验的OTP.
	ErrOtpNotIssued
	// ErrStepUpTokenInvalid - 403: 授权令牌无效.
	ErrStepUpTokenInvalid
	// ErrStepUpTokenExpired - 403: 授权令牌已过期.
	ErrStepUpTokenExpired
	// ErrStepUpTokenUsed - 403: 授权令牌已被使用.
	ErrStepUpTokenUsed
)

// 管理员相关错误码 (103xxx).
const (
	// ErrAdminNotFound - 404: 管理员不存在.
	ErrAdminNotFound int = iota + 103000
	// ErrEmailExists - 409: 邮箱已被其他管理员使用.
	ErrEmailExists
	// ErrRoleInvalid - 500: 存储中的角色值非法.
	ErrRoleInvalid
	// ErrLastSuperAdmin - 403: 不能删除最后一个超级管理员.
	ErrLastSuperAdmin
)

// 存储相关错误码 (104xxx).
const (
	// ErrDatabase - 500: 数据库错误.
	ErrDatabase int = iota + 104000
	// ErrRecordNotFound - 404: 记录不存在.
	ErrRecordNotFound
)
