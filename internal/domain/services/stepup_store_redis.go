package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

const stepUpKeyPrefix = "grojet:stepup:"

// 消费判定在Redis端单脚本完成，并发请求只有一个能拿到 ok
var consumeTokenScript = redis.NewScript(`
local token = redis.call('HGET', KEYS[1], 'token')
if not token or token ~= ARGV[1] then
  return 'invalid'
end
if redis.call('HGET', KEYS[1], 'token_consumed') == '1' then
  return 'used'
end
local exp = tonumber(redis.call('HGET', KEYS[1], 'token_expires_at'))
if not exp or exp < tonumber(ARGV[2]) then
  return 'expired'
end
redis.call('HSET', KEYS[1], 'token_consumed', '1')
return 'ok'
`)

// RedisStepUpStore 基于Redis哈希的升级授权存储
type RedisStepUpStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStepUpStore 创建Redis升级授权存储
func NewRedisStepUpStore(redisService InterfaceRedisService, ttl time.Duration) InterfaceStepUpStore {
	return &RedisStepUpStore{client: redisService.Client(), ttl: ttl}
}

func stepUpKey(sessionID string) string {
	return stepUpKeyPrefix + sessionID
}

func unixField(fields map[string]string, name string) time.Time {
	v, err := strconv.ParseInt(fields[name], 10, 64)
	if err != nil || v == 0 {
		return time.Time{}
	}
	return time.Unix(v, 0)
}

func intField(fields map[string]string, name string) int {
	v, _ := strconv.Atoi(fields[name])
	return v
}

func unixOrZero(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

func (s *RedisStepUpStore) Get(ctx context.Context, sessionID string) (*StepUpSession, error) {
	fields, err := s.client.HGetAll(ctx, stepUpKey(sessionID)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, nil
	}

	return &StepUpSession{
		PinFailures:    intField(fields, "pin_failures"),
		LockedUntil:    unixField(fields, "locked_until"),
		PinVerifiedAt:  unixField(fields, "pin_verified_at"),
		OTPDigest:      fields["otp_digest"],
		OTPExpiresAt:   unixField(fields, "otp_expires_at"),
		OTPAttempts:    intField(fields, "otp_attempts"),
		Token:          fields["token"],
		TokenExpiresAt: unixField(fields, "token_expires_at"),
		TokenConsumed:  fields["token_consumed"] == "1",
	}, nil
}

func (s *RedisStepUpStore) Save(ctx context.Context, sessionID string, sess *StepUpSession) error {
	consumed := "0"
	if sess.TokenConsumed {
		consumed = "1"
	}

	key := stepUpKey(sessionID)
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, map[string]interface{}{
		"pin_failures":     sess.PinFailures,
		"locked_until":     unixOrZero(sess.LockedUntil),
		"pin_verified_at":  unixOrZero(sess.PinVerifiedAt),
		"otp_digest":       sess.OTPDigest,
		"otp_expires_at":   unixOrZero(sess.OTPExpiresAt),
		"otp_attempts":     sess.OTPAttempts,
		"token":            sess.Token,
		"token_expires_at": unixOrZero(sess.TokenExpiresAt),
		"token_consumed":   consumed,
	})
	pipe.Expire(ctx, key, s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStepUpStore) AddPinFailure(ctx context.Context, sessionID string) (int, error) {
	key := stepUpKey(sessionID)
	pipe := s.client.TxPipeline()
	incr := pipe.HIncrBy(ctx, key, "pin_failures", 1)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return int(incr.Val()), nil
}

func (s *RedisStepUpStore) AddOTPAttempt(ctx context.Context, sessionID string) (int, error) {
	n, err := s.client.HIncrBy(ctx, stepUpKey(sessionID), "otp_attempts", 1).Result()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (s *RedisStepUpStore) ConsumeToken(ctx context.Context, sessionID, token string, now time.Time) (ConsumeResult, error) {
	result, err := consumeTokenScript.Run(ctx, s.client, []string{stepUpKey(sessionID)}, token, now.Unix()).Text()
	if err != nil {
		return ConsumeInvalid, err
	}

	switch result {
	case "ok":
		return ConsumeOK, nil
	case "used":
		return ConsumeUsed, nil
	case "expired":
		return ConsumeExpired, nil
	case "invalid":
		return ConsumeInvalid, nil
	default:
		return ConsumeInvalid, fmt.Errorf("unexpected consume result %q", result)
	}
}

func (s *RedisStepUpStore) Clear(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, stepUpKey(sessionID)).Err()
}
