package utils

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"golang.org/x/net/http/httpguts"
)

// MaxHeaderValueLength HTTP头部值最大长度 (8KB)
const MaxHeaderValueLength = 8192

var (
	// forbiddenHeaders 由HTTP客户端管理,不允许用户配置
	forbiddenHeaders = map[string]bool{
		"host":              true,
		"content-length":    true,
		"transfer-encoding": true,
		"connection":        true,
	}

	// sensitiveKeywords 敏感头部名称关键字 (用于日志脱敏)
	sensitiveKeywords = []string{"authorization", "cookie", "token", "key", "secret", "password", "credential"}
)

// ValidateHeaders 验证http.Header中的所有头部,返回第一个错误
func ValidateHeaders(headers http.Header) error {
	for name, values := range headers {
		if forbiddenHeaders[strings.ToLower(name)] {
			return fmt.Errorf("头部 %q 由HTTP客户端自动管理,不允许自定义", name)
		}
		if !httpguts.ValidHeaderFieldName(name) {
			return fmt.Errorf("头部名称包含非法字符: %q", name)
		}
		for _, value := range values {
			if len(value) > MaxHeaderValueLength {
				return fmt.Errorf("头部 %q 的值过长: %d 字节 (最大 %d)", name, len(value), MaxHeaderValueLength)
			}
			if !httpguts.ValidHeaderFieldValue(value) {
				return fmt.Errorf("头部 %q 的值包含非法字符", name)
			}
		}
	}
	return nil
}

// RedactHeaders 脱敏后的头部字符串 (用于日志), 按名称排序
// 格式: "Header1: value1, Header2: value2"
func RedactHeaders(headers http.Header) string {
	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		values := headers[name]
		if len(values) == 0 {
			continue
		}
		parts = append(parts, name+": "+redactValue(name, values[0]))
	}
	return strings.Join(parts, ", ")
}

func redactValue(name, value string) string {
	lower := strings.ToLower(name)
	sensitive := false
	for _, keyword := range sensitiveKeywords {
		if strings.Contains(lower, keyword) {
			sensitive = true
			break
		}
	}
	switch {
	case !sensitive:
		return value
	case strings.HasPrefix(value, "Bearer "):
		return "Bearer ***"
	case len(value) > 8:
		return value[:4] + "***" + value[len(value)-4:]
	default:
		return "***"
	}
}
