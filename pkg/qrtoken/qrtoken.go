// Package qrtoken 实现访客二维码令牌的编码与格式校验。
// 令牌格式为 "LOGATOR-" 前缀加 12 位大写十六进制字符，
// 载荷是 HMAC-SHA256("logator:<userId>", secret) 的前 12 位十六进制。
// 令牌到用户的反向映射只在服务端通过查表完成，客户端无法从载荷还原用户。
package qrtoken

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

// TokenPrefix 是所有访客二维码令牌的固定前缀
const TokenPrefix = "LOGATOR-"

// PayloadLength 是令牌载荷的十六进制字符数
const PayloadLength = 12

var tokenPattern = regexp.MustCompile(`^LOGATOR-[A-F0-9]{12}$`)

// Encode 为给定的用户标识生成确定性的二维码令牌。
// 相同的 userID 与密钥始终产生相同的令牌。
func Encode(userID string, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte("logator:" + userID))
	digest := hex.EncodeToString(mac.Sum(nil))
	return TokenPrefix + strings.ToUpper(digest[:PayloadLength])
}

// IsValidFormat 校验令牌是否符合 LOGATOR-XXXXXXXXXXXX 格式。
// 小写十六进制、长度不符或缺少前缀均视为无效。
func IsValidFormat(token string) bool {
	return tokenPattern.MatchString(token)
}

// ExtractPayload 返回令牌的 12 位十六进制载荷。
// 格式无效时返回空字符串和 false。
func ExtractPayload(token string) (string, bool) {
	if !IsValidFormat(token) {
		return "", false
	}
	return strings.TrimPrefix(token, TokenPrefix), true
}
