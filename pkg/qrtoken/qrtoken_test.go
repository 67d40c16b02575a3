package qrtoken

import (
	"strings"
	"testing"
)

const testSecret = "unit-test-secret"

func TestEncodeDeterministic(t *testing.T) {
	ids := []string{"1", "42", "visitor-9001", "+919999999999"}
	for _, id := range ids {
		first := Encode(id, testSecret)
		second := Encode(id, testSecret)
		if first != second {
			t.Errorf("Encode(%q) 不是确定性的: %q != %q", id, first, second)
		}
		if !IsValidFormat(first) {
			t.Errorf("Encode(%q) = %q 未通过格式校验", id, first)
		}
	}
}

func TestEncodeDistinctUsers(t *testing.T) {
	a := Encode("1", testSecret)
	b := Encode("2", testSecret)
	if a == b {
		t.Errorf("不同用户生成了相同令牌: %q", a)
	}
}

func TestEncodeSecretMatters(t *testing.T) {
	a := Encode("1", "secret-a")
	b := Encode("1", "secret-b")
	if a == b {
		t.Errorf("不同密钥生成了相同令牌: %q", a)
	}
}

func TestIsValidFormat(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"标准令牌", "LOGATOR-ABCDEF123456", true},
		{"全数字载荷", "LOGATOR-000000000000", true},
		{"小写载荷", "LOGATOR-abcdef123456", false},
		{"11位载荷", "LOGATOR-ABCDEF12345", false},
		{"13位载荷", "LOGATOR-ABCDEF1234567", false},
		{"缺少前缀", "ABCDEF123456", false},
		{"前缀错误", "LOGGER-ABCDEF123456", false},
		{"非十六进制字符", "LOGATOR-ABCDEFG23456", false},
		{"空字符串", "", false},
		{"前后空白", " LOGATOR-ABCDEF123456 ", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidFormat(tt.token); got != tt.want {
				t.Errorf("IsValidFormat(%q) = %v, 期望 %v", tt.token, got, tt.want)
			}
		})
	}
}

func TestExtractPayload(t *testing.T) {
	token := Encode("77", testSecret)
	payload, ok := ExtractPayload(token)
	if !ok {
		t.Fatalf("ExtractPayload(%q) 返回 false", token)
	}
	if len(payload) != PayloadLength {
		t.Errorf("载荷长度 = %d, 期望 %d", len(payload), PayloadLength)
	}
	if !strings.HasSuffix(token, payload) {
		t.Errorf("载荷 %q 不是令牌 %q 的后缀", payload, token)
	}

	if _, ok := ExtractPayload("not-a-token"); ok {
		t.Error("无效令牌不应返回载荷")
	}
}
