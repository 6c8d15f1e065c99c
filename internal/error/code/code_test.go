package code

import "testing"

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		code   int
		status int
	}{
		{ErrSuccess, StatusOK},
		{ErrBind, StatusBadRequest},
		{ErrValidation, StatusBadRequest},
		{ErrAuthFailed, StatusUnauthorized},
		{ErrSessionInvalid, StatusUnauthorized},
		{ErrAccountDisabled, StatusForbidden},
		{ErrPermissionDenied, StatusForbidden},
		{ErrInvalidPin, StatusBadRequest},
		{ErrPinLocked, StatusLocked},
		{ErrInvalidOtp, StatusBadRequest},
		{ErrOtpExpired, StatusGone},
		{ErrOtpLocked, StatusLocked},
		{ErrStepUpTokenInvalid, StatusForbidden},
		{ErrStepUpTokenExpired, StatusForbidden},
		{ErrStepUpTokenUsed, StatusForbidden},
		{ErrAdminNotFound, StatusNotFound},
		{ErrEmailExists, StatusConflict},
		{ErrSelfModification, StatusForbidden},
		{ErrTooManyRequests, StatusTooManyRequests},
		{ErrDatabase, StatusInternalServerError},
		{ErrRoleInvalid, StatusInternalServerError},
	}

	for _, tc := range cases {
		if got := GetStatus(tc.code); got != tc.status {
			t.Errorf("错误码 %d 的HTTP状态: got %d want %d", tc.code, got, tc.status)
		}
	}
}

func TestGetMessageFallback(t *testing.T) {
	if msg := GetMessage(ErrSuccess); msg == "" {
		t.Error("已登记的错误码应有消息")
	}
	if msg := GetMessage(999999); msg == "" {
		t.Error("未登记的错误码应返回兜底消息")
	}
	if status := GetStatus(999999); status != StatusInternalServerError {
		t.Errorf("未登记的错误码应映射到500: got %d", status)
	}
}
