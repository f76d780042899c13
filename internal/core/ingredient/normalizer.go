package ingredient

import (
	"strings"
	"unicode"
)

// DefaultMaxQueryLength 查詢字串在修剪後保留的最大字元數
const DefaultMaxQueryLength = 50

// Query 正規化後的查詢
type Query struct {
	// Display 修剪並截斷後的查詢，可能含標點，用於回應與查找
	Display string
	// Key 主要快取查找鍵
	Key string
	// Sanitized 只保留字母、數字、空白的形式，作為生成器輸入
	Sanitized string
}

// Normalize 修剪、截斷並產生查找鍵與生成器輸入
func Normalize(raw string, maxLen int) Query {
	if maxLen <= 0 {
		maxLen = DefaultMaxQueryLength
	}
	display := truncate(strings.TrimSpace(raw), maxLen)
	return Query{
		Display:   display,
		Key:       CanonicalKey(display),
		Sanitized: Sanitize(display),
	}
}

// Sanitize 移除字母、數字、空白以外的字元後再修剪
func Sanitize(s string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, s)
	return strings.TrimSpace(cleaned)
}

// CanonicalKey 儲存層使用的鍵
func CanonicalKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// truncate 以字元（rune）為單位截斷
func truncate(s string, maxLen int) string {
	n := 0
	for i := range s {
		if n == maxLen {
			return s[:i]
		}
		n++
	}
	return s
}
