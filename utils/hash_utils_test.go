package utils

import "testing"

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("Admin@123")
	if err != nil {
		t.Fatalf("生成哈希失败: %v", err)
	}

	if !CheckPasswordHash("Admin@123", hash) {
		t.Fatal("正确密码应通过校验")
	}
	if CheckPasswordHash("wrong", hash) {
		t.Fatal("错误密码不应通过校验")
	}
}

func TestOTPDigest(t *testing.T) {
	digest := DigestOTP("123456")
	if digest == "123456" {
		t.Fatal("摘要不应等于明文")
	}

	if !CheckOTPDigest("123456", digest) {
		t.Fatal("正确验证码应通过校验")
	}
	if CheckOTPDigest("654321", digest) {
		t.Fatal("错误验证码不应通过校验")
	}
}

func TestRandomDigits(t *testing.T) {
	code, err := RandomDigits(6)
	if err != nil {
		t.Fatalf("生成失败: %v", err)
	}
	if len(code) != 6 {
		t.Fatalf("长度应为6: got %q", code)
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			t.Fatalf("应只包含数字: %q", code)
		}
	}
}

func TestRandomTokenLength(t *testing.T) {
	token, err := RandomToken(32)
	if err != nil {
		t.Fatalf("生成失败: %v", err)
	}
	// 32字节的十六进制表示为64个字符
	if len(token) != 64 {
		t.Fatalf("长度应为64: got %d", len(token))
	}

	other, err := RandomToken(32)
	if err != nil {
		t.Fatalf("生成失败: %v", err)
	}
	if token == other {
		t.Fatal("两次生成不应相同")
	}
}
