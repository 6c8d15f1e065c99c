package services

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// SessionRecord 服务端会话记录，登出即删除
type SessionRecord struct {
	AdminID   uint      `json:"admin_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// InterfaceSessionStore 会话存储接口
type InterfaceSessionStore interface {
	Put(ctx context.Context, sessionID string, record *SessionRecord, ttl time.Duration) error
	Get(ctx context.Context, sessionID string) (*SessionRecord, error) // 不存在时返回 (nil, nil)
	Delete(ctx context.Context, sessionID string) error
}

const sessionKeyPrefix = "grojet:session:"

// RedisSessionStore 基于Redis的会话存储
type RedisSessionStore struct {
	redis InterfaceRedisService
}

// NewRedisSessionStore 创建Redis会话存储
func NewRedisSessionStore(redisService InterfaceRedisService) InterfaceSessionStore {
	return &RedisSessionStore{redis: redisService}
}

func (s *RedisSessionStore) Put(ctx context.Context, sessionID string, record *SessionRecord, ttl time.Duration) error {
	return s.redis.Set(ctx, sessionKeyPrefix+sessionID, record, ttl)
}

func (s *RedisSessionStore) Get(ctx context.Context, sessionID string) (*SessionRecord, error) {
	var record SessionRecord
	err := s.redis.Get(ctx, sessionKeyPrefix+sessionID, &record)
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.redis.Delete(ctx, sessionKeyPrefix+sessionID)
}

// MemorySessionStore 进程内会话存储，Redis不可用时的降级方案
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*SessionRecord
}

// NewMemorySessionStore 创建内存会话存储
func NewMemorySessionStore() InterfaceSessionStore {
	return &MemorySessionStore{sessions: make(map[string]*SessionRecord)}
}

func (s *MemorySessionStore) Put(_ context.Context, sessionID string, record *SessionRecord, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *record
	s.sessions[sessionID] = &copied
	return nil
}

func (s *MemorySessionStore) Get(_ context.Context, sessionID string) (*SessionRecord, error) {
	s.mu.RLock()
	record, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if time.Now().After(record.ExpiresAt) {
		s.mu.Lock()
		delete(s.sessions, sessionID)
		s.mu.Unlock()
		return nil, nil
	}
	copied := *record
	return &copied, nil
}

func (s *MemorySessionStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}
