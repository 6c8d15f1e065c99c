package services

import (
	"context"
	"time"

	"grojet-admin-service/internal/infrastructure/config"
	"grojet-admin-service/pkg/logger"
	"grojet-admin-service/utils"
)

// 升级令牌前缀，便于在日志和排查中一眼识别
const stepUpTokenPrefix = "asa_"

// InterfaceStepUpService 定义升级授权服务接口。
// 流程：PIN验证 -> 邮箱OTP验证 -> 一次性授权令牌。
type InterfaceStepUpService interface {
	VerifyPin(ctx context.Context, sessionID, pin string) error
	ResendOTP(ctx context.Context, sessionID string) error
	VerifyOTP(ctx context.Context, sessionID, code string) (string, error)
	Consume(ctx context.Context, sessionID, token string) error
}

// StepUpService 实现敏感操作前的升级授权状态机
type StepUpService struct {
	cfg          *config.Config
	store        InterfaceStepUpStore
	adminService InterfaceAdminService
	notification InterfaceNotificationService
}

// NewStepUpService 创建升级授权服务
func NewStepUpService(cfg *config.Config, store InterfaceStepUpStore, adminService InterfaceAdminService, notification InterfaceNotificationService) InterfaceStepUpService {
	return &StepUpService{
		cfg:          cfg,
		store:        store,
		adminService: adminService,
		notification: notification,
	}
}

// VerifyPin 校验授权PIN。连续失败达到上限后本会话锁定一个冷却窗口，
// 窗口内即使PIN正确也拒绝。校验通过则签发OTP并作废此前流程中的
// 一切OTP和令牌。
func (s *StepUpService) VerifyPin(ctx context.Context, sessionID, pin string) error {
	now := time.Now()

	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if sess != nil && !sess.LockedUntil.IsZero() {
		if now.Before(sess.LockedUntil) {
			return &PinLockedError{RetryAfter: sess.LockedUntil.Sub(now).Round(time.Second)}
		}
		// 冷却窗口已过，计数清零重新开始
		sess.LockedUntil = time.Time{}
		sess.PinFailures = 0
		if err := s.store.Save(ctx, sessionID, sess); err != nil {
			return err
		}
	}

	pinHash, err := s.adminService.GetPinHash()
	if err != nil {
		return err
	}

	if !utils.CheckPasswordHash(pin, pinHash) {
		failures, err := s.store.AddPinFailure(ctx, sessionID)
		if err != nil {
			return err
		}
		if failures >= s.cfg.PinMaxFailures {
			locked, err := s.store.Get(ctx, sessionID)
			if err != nil {
				return err
			}
			if locked == nil {
				locked = &StepUpSession{PinFailures: failures}
			}
			locked.LockedUntil = now.Add(s.cfg.PinLockoutWindow)
			if err := s.store.Save(ctx, sessionID, locked); err != nil {
				return err
			}
			return &PinLockedError{RetryAfter: s.cfg.PinLockoutWindow}
		}
		return ErrInvalidPin
	}

	return s.issueOTP(ctx, sessionID, now)
}

// issueOTP 生成并下发新OTP，整个流程状态重置到"PIN已验证"这一步
func (s *StepUpService) issueOTP(ctx context.Context, sessionID string, now time.Time) error {
	code, err := utils.RandomDigits(6)
	if err != nil {
		return err
	}

	sess := &StepUpSession{
		PinVerifiedAt: now,
		OTPDigest:     utils.DigestOTP(code),
		OTPExpiresAt:  now.Add(s.cfg.OTPTTL),
	}
	if err := s.store.Save(ctx, sessionID, sess); err != nil {
		return err
	}

	// 邮件下发不阻塞请求，失败只记日志
	go func() {
		if err := s.notification.SendOTP(s.cfg.AuthorizedEmail, code); err != nil {
			logger.Error("OTP邮件下发失败: %v", err)
		}
	}()

	return nil
}

// ResendOTP 重新下发OTP，要求本会话已通过PIN验证
func (s *StepUpService) ResendOTP(ctx context.Context, sessionID string) error {
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if sess == nil || sess.PinVerifiedAt.IsZero() {
		return ErrOtpNotIssued
	}
	return s.issueOTP(ctx, sessionID, time.Now())
}

// VerifyOTP 校验OTP并在通过后签发一次性授权令牌。
// OTP过期后即使验证码正确也拒绝，流程必须从PIN重新开始。
func (s *StepUpService) VerifyOTP(ctx context.Context, sessionID, code string) (string, error) {
	now := time.Now()

	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if sess == nil || sess.OTPDigest == "" {
		return "", ErrOtpNotIssued
	}

	if now.After(sess.OTPExpiresAt) {
		if err := s.store.Clear(ctx, sessionID); err != nil {
			return "", err
		}
		return "", ErrOtpExpired
	}

	attempts, err := s.store.AddOTPAttempt(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if attempts > s.cfg.OTPMaxAttempts {
		if err := s.store.Clear(ctx, sessionID); err != nil {
			return "", err
		}
		return "", ErrOtpLocked
	}

	if !utils.CheckOTPDigest(code, sess.OTPDigest) {
		return "", ErrInvalidOtp
	}

	raw, err := utils.RandomToken(32)
	if err != nil {
		return "", err
	}
	token := stepUpTokenPrefix + raw

	sess.OTPDigest = ""
	sess.OTPExpiresAt = time.Time{}
	sess.OTPAttempts = 0
	sess.Token = token
	sess.TokenExpiresAt = now.Add(s.cfg.StepUpTokenTTL)
	sess.TokenConsumed = false
	if err := s.store.Save(ctx, sessionID, sess); err != nil {
		return "", err
	}

	return token, nil
}

// Consume 消费一次性授权令牌。令牌绑定签发它的会话，
// 并发消费同一令牌时恰好一个成功。
func (s *StepUpService) Consume(ctx context.Context, sessionID, token string) error {
	result, err := s.store.ConsumeToken(ctx, sessionID, token, time.Now())
	if err != nil {
		return err
	}

	switch result {
	case ConsumeOK:
		return nil
	case ConsumeUsed:
		return ErrTokenUsed
	case ConsumeExpired:
		return ErrTokenExpired
	default:
		return ErrTokenInvalid
	}
}
