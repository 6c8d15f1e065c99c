package controllers

import (
	"errors"

	"grojet-admin-service/internal/domain/models"
	"grojet-admin-service/internal/domain/services"
	"grojet-admin-service/internal/error/code"
	"grojet-admin-service/internal/error/response"
	"grojet-admin-service/pkg/logger"

	"github.com/gin-gonic/gin"
)

// failFromError 把服务层错误翻译成统一的错误响应
func failFromError(ctx *gin.Context, err error) {
	var validation *services.ValidationError
	if errors.As(err, &validation) {
		response.ParamError(ctx, validation.Msg)
		return
	}

	var invalidRole models.ErrInvalidRole
	if errors.As(err, &invalidRole) {
		response.ParamError(ctx, invalidRole.Error())
		return
	}

	if locked, ok := services.AsPinLocked(err); ok {
		response.FailWithRetryAfter(ctx, code.ErrPinLocked, int(locked.RetryAfter.Seconds()))
		return
	}

	switch {
	case errors.Is(err, services.ErrAuthFailed):
		response.Fail(ctx, code.ErrAuthFailed, nil)
	case errors.Is(err, services.ErrAccountDisabled):
		response.Fail(ctx, code.ErrAccountDisabled, nil)
	case errors.Is(err, services.ErrSessionInvalid):
		response.Fail(ctx, code.ErrSessionInvalid, nil)
	case errors.Is(err, services.ErrPasswordIncorrect):
		response.Fail(ctx, code.ErrPasswordIncorrect, nil)
	case errors.Is(err, services.ErrAdminNotFound):
		response.Fail(ctx, code.ErrAdminNotFound, nil)
	case errors.Is(err, services.ErrEmailTaken):
		response.Fail(ctx, code.ErrEmailExists, nil)
	case errors.Is(err, services.ErrLastSuperAdmin):
		response.Fail(ctx, code.ErrLastSuperAdmin, nil)
	case errors.Is(err, services.ErrSelfModification):
		response.Fail(ctx, code.ErrSelfModification, nil)
	case errors.Is(err, services.ErrInvalidPin):
		response.Fail(ctx, code.ErrInvalidPin, nil)
	case errors.Is(err, services.ErrInvalidOtp):
		response.Fail(ctx, code.ErrInvalidOtp, nil)
	case errors.Is(err, services.ErrOtpExpired):
		response.Fail(ctx, code.ErrOtpExpired, nil)
	case errors.Is(err, services.ErrOtpLocked):
		response.Fail(ctx, code.ErrOtpLocked, nil)
	case errors.Is(err, services.ErrOtpNotIssued):
		response.Fail(ctx, code.ErrOtpNotIssued, nil)
	case errors.Is(err, services.ErrTokenInvalid):
		response.Fail(ctx, code.ErrStepUpTokenInvalid, nil)
	case errors.Is(err, services.ErrTokenExpired):
		response.Fail(ctx, code.ErrStepUpTokenExpired, nil)
	case errors.Is(err, services.ErrTokenUsed):
		response.Fail(ctx, code.ErrStepUpTokenUsed, nil)
	default:
		logger.Error("未归类的服务错误: %v", err)
		response.Fail(ctx, code.ErrDatabase, nil)
	}
}
