package utils

import (
	"errors"
	"strings"
	"unicode"
)

var (
	ErrInvalidPhoneNumberFormat = errors.New("无效的电话号码格式，必须是8到15位数字，可带国家码前缀")
	ErrInvalidLatitude          = errors.New("纬度必须在 -90 到 90 之间")
	ErrInvalidLongitude         = errors.New("经度必须在 -180 到 180 之间")
)

// NormalizePhoneNumber 去除电话号码中的空格、连字符与括号，保留前导 "+"。
// "+91 99999 99999" 和 "+91-9999999999" 归一化后等价。
func NormalizePhoneNumber(phone string) string {
	trimmed := strings.TrimSpace(phone)
	var b strings.Builder
	for i, r := range trimmed {
		if r == '+' && i == 0 {
			b.WriteRune(r)
			continue
		}
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidatePhoneNumber 校验电话号码格式。
// 在归一化之前检查原始输入：只允许数字、分隔符 (空格/-/括号) 与前导 "+"，
// 含字母等其他字符的输入直接拒绝。数字位数必须是 8 到 15 位 (E.164 上限)。
// 如果有效，返回 nil；否则返回具体的错误。
func ValidatePhoneNumber(phone string) error {
	trimmed := strings.TrimSpace(phone)
	digitCount := 0
	for i, r := range trimmed {
		switch {
		case r == '+':
			if i != 0 {
				return ErrInvalidPhoneNumberFormat
			}
		case unicode.IsDigit(r):
			digitCount++
		case r == ' ' || r == '-' || r == '(' || r == ')':
			// 分隔符，归一化时去除
		default:
			return ErrInvalidPhoneNumberFormat
		}
	}
	if digitCount < 8 || digitCount > 15 {
		return ErrInvalidPhoneNumberFormat
	}
	return nil
}

// ValidateCoordinate 校验十进制度数的经纬度取值范围。
func ValidateCoordinate(latitude, longitude float64) error {
	if latitude < -90 || latitude > 90 {
		return ErrInvalidLatitude
	}
	if longitude < -180 || longitude > 180 {
		return ErrInvalidLongitude
	}
	return nil
}
