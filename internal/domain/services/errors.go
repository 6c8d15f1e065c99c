package services

import (
	"errors"
	"fmt"
	"time"
)

// 服务层哨兵错误，控制器据此映射错误码
var (
	// 认证/账户
	ErrAuthFailed        = errors.New("invalid email or password")
	ErrAccountDisabled   = errors.New("account is inactive or suspended")
	ErrSessionInvalid    = errors.New("session invalid or expired")
	ErrPasswordIncorrect = errors.New("current password is incorrect")

	// 管理员生命周期
	ErrAdminNotFound    = errors.New("admin not found")
	ErrEmailTaken       = errors.New("email already in use")
	ErrLastSuperAdmin   = errors.New("cannot delete the last super admin")
	ErrSelfModification = errors.New("cannot perform this operation on your own account")

	// 升级授权
	ErrInvalidPin   = errors.New("authorization pin mismatch")
	ErrInvalidOtp   = errors.New("otp mismatch")
	ErrOtpExpired   = errors.New("otp expired")
	ErrOtpLocked    = errors.New("otp attempts exceeded")
	ErrOtpNotIssued = errors.New("pin verification required before otp")
	ErrTokenInvalid = errors.New("step-up token invalid")
	ErrTokenExpired = errors.New("step-up token expired")
	ErrTokenUsed    = errors.New("step-up token already used")
)

// ValidationError 输入校验错误，控制器映射为400
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// PinLockedError PIN锁定错误，携带剩余冷却时间
type PinLockedError struct {
	RetryAfter time.Duration
}

func (e *PinLockedError) Error() string {
	return fmt.Sprintf("pin verification locked, retry after %s", e.RetryAfter)
}

// AsPinLocked 判断并提取PIN锁定错误
func AsPinLocked(err error) (*PinLockedError, bool) {
	var locked *PinLockedError
	if errors.As(err, &locked) {
		return locked, true
	}
	return nil, false
}
