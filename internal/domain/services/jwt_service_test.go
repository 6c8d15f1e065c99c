package services

import (
	"testing"
	"time"

	"grojet-admin-service/internal/infrastructure/config"

	"github.com/golang-jwt/jwt/v4"
)

func newTestJWTService() InterfaceJWTService {
	return NewJWTService(&config.Config{JWTSecretKey: "test-secret-key"})
}

func TestJWTClaimsRoundTrip(t *testing.T) {
	service := newTestJWTService()

	token, err := service.GenerateToken(42, "admin", "sess-abc", time.Hour)
	if err != nil {
		t.Fatalf("生成令牌失败: %v", err)
	}

	claims, err := service.ExtractClaims(token)
	if err != nil {
		t.Fatalf("提取声明失败: %v", err)
	}
	if claims.AdminID != 42 {
		t.Errorf("AdminID: got %d want 42", claims.AdminID)
	}
	if claims.Role != "admin" {
		t.Errorf("Role: got %q want admin", claims.Role)
	}
	if claims.SessionID != "sess-abc" {
		t.Errorf("SessionID: got %q want sess-abc", claims.SessionID)
	}
	if claims.Issuer != "grojet-admin-service" {
		t.Errorf("Issuer: got %q", claims.Issuer)
	}
}

func TestJWTExpiredToken(t *testing.T) {
	service := newTestJWTService()

	token, err := service.GenerateToken(1, "admin", "sess-1", -time.Minute)
	if err != nil {
		t.Fatalf("生成令牌失败: %v", err)
	}

	if _, err := service.ExtractClaims(token); err == nil {
		t.Fatal("过期令牌应被拒绝")
	}
}

func TestJWTWrongSecret(t *testing.T) {
	service := newTestJWTService()
	other := NewJWTService(&config.Config{JWTSecretKey: "another-secret"})

	token, err := other.GenerateToken(1, "admin", "sess-1", time.Hour)
	if err != nil {
		t.Fatalf("生成令牌失败: %v", err)
	}

	if _, err := service.ExtractClaims(token); err == nil {
		t.Fatal("用错误密钥签名的令牌应被拒绝")
	}
}

func TestJWTWrongAlgorithm(t *testing.T) {
	service := newTestJWTService()

	// 用none算法伪造的令牌必须被拒绝
	forged := jwt.NewWithClaims(jwt.SigningMethodNone, &JWTClaims{
		AdminID:   1,
		Role:      "super_admin",
		SessionID: "sess-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	tokenString, err := forged.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("构造伪造令牌失败: %v", err)
	}

	if _, err := service.ExtractClaims(tokenString); err == nil {
		t.Fatal("非HMAC算法的令牌应被拒绝")
	}
}
