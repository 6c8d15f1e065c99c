package services

import (
	"context"
	"sync"
	"time"
)

// StepUpSession 升级授权流程的每会话状态
type StepUpSession struct {
	PinFailures    int       `json:"pin_failures"`
	LockedUntil    time.Time `json:"locked_until"`
	PinVerifiedAt  time.Time `json:"pin_verified_at"`
	OTPDigest      string    `json:"otp_digest"`
	OTPExpiresAt   time.Time `json:"otp_expires_at"`
	OTPAttempts    int       `json:"otp_attempts"`
	Token          string    `json:"token"`
	TokenExpiresAt time.Time `json:"token_expires_at"`
	TokenConsumed  bool      `json:"token_consumed"`
}

// ConsumeResult 令牌消费的判定结果
type ConsumeResult int

const (
	ConsumeOK ConsumeResult = iota
	ConsumeInvalid
	ConsumeExpired
	ConsumeUsed
)

// InterfaceStepUpStore 升级授权状态存储。AddPinFailure、AddOTPAttempt
// 和 ConsumeToken 必须原子执行，并发请求下计数不丢失、令牌只成功一次。
type InterfaceStepUpStore interface {
	Get(ctx context.Context, sessionID string) (*StepUpSession, error) // 不存在时返回 (nil, nil)
	Save(ctx context.Context, sessionID string, sess *StepUpSession) error
	AddPinFailure(ctx context.Context, sessionID string) (int, error)
	AddOTPAttempt(ctx context.Context, sessionID string) (int, error)
	ConsumeToken(ctx context.Context, sessionID, token string, now time.Time) (ConsumeResult, error)
	Clear(ctx context.Context, sessionID string) error
}

type memoryStepUpEntry struct {
	sess      StepUpSession
	expiresAt time.Time
}

// MemoryStepUpStore 进程内升级授权存储，Redis不可用时的降级方案
type MemoryStepUpStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]*memoryStepUpEntry
}

// NewMemoryStepUpStore 创建内存升级授权存储
func NewMemoryStepUpStore(ttl time.Duration) InterfaceStepUpStore {
	return &MemoryStepUpStore{
		ttl:     ttl,
		entries: make(map[string]*memoryStepUpEntry),
	}
}

// 调用方必须持有 s.mu
func (s *MemoryStepUpStore) live(sessionID string) *memoryStepUpEntry {
	entry, ok := s.entries[sessionID]
	if !ok {
		return nil
	}
	if time.Now().After(entry.expiresAt) {
		delete(s.entries, sessionID)
		return nil
	}
	return entry
}

func (s *MemoryStepUpStore) Get(_ context.Context, sessionID string) (*StepUpSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := s.live(sessionID)
	if entry == nil {
		return nil, nil
	}
	copied := entry.sess
	return &copied, nil
}

func (s *MemoryStepUpStore) Save(_ context.Context, sessionID string, sess *StepUpSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[sessionID] = &memoryStepUpEntry{
		sess:      *sess,
		expiresAt: time.Now().Add(s.ttl),
	}
	return nil
}

func (s *MemoryStepUpStore) AddPinFailure(_ context.Context, sessionID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := s.live(sessionID)
	if entry == nil {
		entry = &memoryStepUpEntry{}
		s.entries[sessionID] = entry
	}
	entry.sess.PinFailures++
	entry.expiresAt = time.Now().Add(s.ttl)
	return entry.sess.PinFailures, nil
}

func (s *MemoryStepUpStore) AddOTPAttempt(_ context.Context, sessionID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := s.live(sessionID)
	if entry == nil {
		return 0, nil
	}
	entry.sess.OTPAttempts++
	return entry.sess.OTPAttempts, nil
}

func (s *MemoryStepUpStore) ConsumeToken(_ context.Context, sessionID, token string, now time.Time) (ConsumeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := s.live(sessionID)
	if entry == nil || entry.sess.Token == "" || entry.sess.Token != token {
		return ConsumeInvalid, nil
	}
	if entry.sess.TokenConsumed {
		return ConsumeUsed, nil
	}
	if now.After(entry.sess.TokenExpiresAt) {
		return ConsumeExpired, nil
	}
	entry.sess.TokenConsumed = true
	return ConsumeOK, nil
}

func (s *MemoryStepUpStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sessionID)
	return nil
}
