package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"grojet-admin-service/internal/infrastructure/config"
	"grojet-admin-service/utils"
)

const testPin = "2024"

func newTestStepUp(t *testing.T, cfg *config.Config) (*StepUpService, *fakeNotificationService) {
	t.Helper()

	pinHash, err := utils.HashPassword(testPin)
	if err != nil {
		t.Fatalf("生成PIN哈希失败: %v", err)
	}

	if cfg.PinMaxFailures == 0 {
		cfg.PinMaxFailures = 5
	}
	if cfg.PinLockoutWindow == 0 {
		cfg.PinLockoutWindow = 15 * time.Minute
	}
	if cfg.OTPTTL == 0 {
		cfg.OTPTTL = 5 * time.Minute
	}
	if cfg.OTPMaxAttempts == 0 {
		cfg.OTPMaxAttempts = 5
	}
	if cfg.StepUpTokenTTL == 0 {
		cfg.StepUpTokenTTL = 30 * time.Minute
	}
	if cfg.StepUpSessionTTL == 0 {
		cfg.StepUpSessionTTL = time.Hour
	}
	cfg.AuthorizedEmail = "security@grojet.com"

	store := NewMemoryStepUpStore(cfg.StepUpSessionTTL)
	notification := newFakeNotificationService()
	service := NewStepUpService(cfg, store, newFakeAdminService(pinHash), notification).(*StepUpService)
	return service, notification
}

// waitOTP 等待异步下发的验证码
func waitOTP(t *testing.T, notification *fakeNotificationService) string {
	t.Helper()
	select {
	case code := <-notification.codes:
		return code
	case <-time.After(2 * time.Second):
		t.Fatal("等待OTP下发超时")
		return ""
	}
}

func TestVerifyPinWrongPin(t *testing.T) {
	service, _ := newTestStepUp(t, &config.Config{})
	ctx := context.Background()

	err := service.VerifyPin(ctx, "sess-1", "0000")
	if !errors.Is(err, ErrInvalidPin) {
		t.Fatalf("错误PIN应返回 ErrInvalidPin, got %v", err)
	}
}

func TestVerifyPinLockout(t *testing.T) {
	service, _ := newTestStepUp(t, &config.Config{PinMaxFailures: 5})
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		if err := service.VerifyPin(ctx, "sess-1", "0000"); !errors.Is(err, ErrInvalidPin) {
			t.Fatalf("第%d次失败应返回 ErrInvalidPin, got %v", i+1, err)
		}
	}

	// 第5次失败触发锁定
	err := service.VerifyPin(ctx, "sess-1", "0000")
	if _, ok := AsPinLocked(err); !ok {
		t.Fatalf("达到失败上限应锁定, got %v", err)
	}

	// 锁定期内即使PIN正确也拒绝
	err = service.VerifyPin(ctx, "sess-1", testPin)
	locked, ok := AsPinLocked(err)
	if !ok {
		t.Fatalf("锁定期内正确PIN也应拒绝, got %v", err)
	}
	if locked.RetryAfter <= 0 {
		t.Fatalf("锁定错误应携带剩余冷却时间, got %v", locked.RetryAfter)
	}

	// 锁定只影响本会话
	if err := service.VerifyPin(ctx, "sess-2", testPin); err != nil {
		t.Fatalf("其他会话不应受锁定影响: %v", err)
	}
}

func TestVerifyOTPWithoutPin(t *testing.T) {
	service, _ := newTestStepUp(t, &config.Config{})
	ctx := context.Background()

	if _, err := service.VerifyOTP(ctx, "sess-1", "123456"); !errors.Is(err, ErrOtpNotIssued) {
		t.Fatalf("未验证PIN时应返回 ErrOtpNotIssued, got %v", err)
	}
}

func TestVerifyOTPFullFlow(t *testing.T) {
	service, notification := newTestStepUp(t, &config.Config{})
	ctx := context.Background()

	if err := service.VerifyPin(ctx, "sess-1", testPin); err != nil {
		t.Fatalf("PIN验证失败: %v", err)
	}
	code := waitOTP(t, notification)
	if len(code) != 6 {
		t.Fatalf("OTP应为6位数字, got %q", code)
	}

	token, err := service.VerifyOTP(ctx, "sess-1", code)
	if err != nil {
		t.Fatalf("OTP验证失败: %v", err)
	}
	if !strings.HasPrefix(token, "asa_") {
		t.Fatalf("授权令牌应带前缀 asa_, got %q", token)
	}

	if err := service.Consume(ctx, "sess-1", token); err != nil {
		t.Fatalf("首次消费应成功: %v", err)
	}

	// 令牌一次性，重复消费拒绝
	if err := service.Consume(ctx, "sess-1", token); !errors.Is(err, ErrTokenUsed) {
		t.Fatalf("重复消费应返回 ErrTokenUsed, got %v", err)
	}
}

func TestVerifyOTPWrongCode(t *testing.T) {
	service, notification := newTestStepUp(t, &config.Config{OTPMaxAttempts: 3})
	ctx := context.Background()

	if err := service.VerifyPin(ctx, "sess-1", testPin); err != nil {
		t.Fatalf("PIN验证失败: %v", err)
	}
	code := waitOTP(t, notification)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	for i := 0; i < 3; i++ {
		if _, err := service.VerifyOTP(ctx, "sess-1", wrong); !errors.Is(err, ErrInvalidOtp) {
			t.Fatalf("第%d次错误验证码应返回 ErrInvalidOtp, got %v", i+1, err)
		}
	}

	// 超过尝试上限后锁定，流程需从PIN重新开始
	if _, err := service.VerifyOTP(ctx, "sess-1", code); !errors.Is(err, ErrOtpLocked) {
		t.Fatalf("超过尝试上限应返回 ErrOtpLocked, got %v", err)
	}
	if _, err := service.VerifyOTP(ctx, "sess-1", code); !errors.Is(err, ErrOtpNotIssued) {
		t.Fatalf("锁定后状态应重置, got %v", err)
	}
}

func TestVerifyOTPExpired(t *testing.T) {
	service, notification := newTestStepUp(t, &config.Config{OTPTTL: -time.Second})
	ctx := context.Background()

	if err := service.VerifyPin(ctx, "sess-1", testPin); err != nil {
		t.Fatalf("PIN验证失败: %v", err)
	}
	code := waitOTP(t, notification)

	// 验证码正确但已过期，仍然拒绝并重置流程
	if _, err := service.VerifyOTP(ctx, "sess-1", code); !errors.Is(err, ErrOtpExpired) {
		t.Fatalf("过期OTP应返回 ErrOtpExpired, got %v", err)
	}
	if _, err := service.VerifyOTP(ctx, "sess-1", code); !errors.Is(err, ErrOtpNotIssued) {
		t.Fatalf("过期后状态应重置到起点, got %v", err)
	}
}

func TestConsumeExpiredToken(t *testing.T) {
	service, notification := newTestStepUp(t, &config.Config{StepUpTokenTTL: -time.Second})
	ctx := context.Background()

	if err := service.VerifyPin(ctx, "sess-1", testPin); err != nil {
		t.Fatalf("PIN验证失败: %v", err)
	}
	code := waitOTP(t, notification)
	token, err := service.VerifyOTP(ctx, "sess-1", code)
	if err != nil {
		t.Fatalf("OTP验证失败: %v", err)
	}

	if err := service.Consume(ctx, "sess-1", token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("过期令牌应返回 ErrTokenExpired, got %v", err)
	}
}

func TestConsumeTokenBoundToSession(t *testing.T) {
	service, notification := newTestStepUp(t, &config.Config{})
	ctx := context.Background()

	if err := service.VerifyPin(ctx, "sess-1", testPin); err != nil {
		t.Fatalf("PIN验证失败: %v", err)
	}
	code := waitOTP(t, notification)
	token, err := service.VerifyOTP(ctx, "sess-1", code)
	if err != nil {
		t.Fatalf("OTP验证失败: %v", err)
	}

	// 令牌绑定签发它的会话
	if err := service.Consume(ctx, "sess-2", token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("其他会话消费应返回 ErrTokenInvalid, got %v", err)
	}
	if err := service.Consume(ctx, "sess-1", token); err != nil {
		t.Fatalf("原会话消费应成功: %v", err)
	}
}

func TestReVerifyPinInvalidatesToken(t *testing.T) {
	service, notification := newTestStepUp(t, &config.Config{})
	ctx := context.Background()

	if err := service.VerifyPin(ctx, "sess-1", testPin); err != nil {
		t.Fatalf("PIN验证失败: %v", err)
	}
	code := waitOTP(t, notification)
	token, err := service.VerifyOTP(ctx, "sess-1", code)
	if err != nil {
		t.Fatalf("OTP验证失败: %v", err)
	}

	// 重新走PIN验证作废此前签发的令牌
	if err := service.VerifyPin(ctx, "sess-1", testPin); err != nil {
		t.Fatalf("二次PIN验证失败: %v", err)
	}
	waitOTP(t, notification)

	if err := service.Consume(ctx, "sess-1", token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("旧令牌应已作废, got %v", err)
	}
}

func TestConcurrentConsumeExactlyOnce(t *testing.T) {
	service, notification := newTestStepUp(t, &config.Config{})
	ctx := context.Background()

	if err := service.VerifyPin(ctx, "sess-1", testPin); err != nil {
		t.Fatalf("PIN验证失败: %v", err)
	}
	code := waitOTP(t, notification)
	token, err := service.VerifyOTP(ctx, "sess-1", code)
	if err != nil {
		t.Fatalf("OTP验证失败: %v", err)
	}

	const workers = 32
	var wg sync.WaitGroup
	results := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- service.Consume(ctx, "sess-1", token)
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, used int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrTokenUsed):
			used++
		default:
			t.Errorf("意外的错误: %v", err)
		}
	}

	if succeeded != 1 {
		t.Fatalf("并发消费应恰好成功一次: succeeded=%d", succeeded)
	}
	if used != workers-1 {
		t.Fatalf("其余消费应全部返回 ErrTokenUsed: used=%d", used)
	}
}

func TestResendOTPInvalidatesPrevious(t *testing.T) {
	service, notification := newTestStepUp(t, &config.Config{})
	ctx := context.Background()

	if err := service.ResendOTP(ctx, "sess-1"); !errors.Is(err, ErrOtpNotIssued) {
		t.Fatalf("未验证PIN时重发应拒绝, got %v", err)
	}

	if err := service.VerifyPin(ctx, "sess-1", testPin); err != nil {
		t.Fatalf("PIN验证失败: %v", err)
	}
	first := waitOTP(t, notification)

	if err := service.ResendOTP(ctx, "sess-1"); err != nil {
		t.Fatalf("重发失败: %v", err)
	}
	second := waitOTP(t, notification)

	if first != second {
		// 旧验证码应已作废
		if _, err := service.VerifyOTP(ctx, "sess-1", first); !errors.Is(err, ErrInvalidOtp) {
			t.Fatalf("旧验证码应被拒绝, got %v", err)
		}
	}
	if _, err := service.VerifyOTP(ctx, "sess-1", second); err != nil {
		t.Fatalf("新验证码应通过: %v", err)
	}
}
