package models

import (
	"fmt"
	"net/http"
	"strings"
)

// CliHeaders 表示命令行传递的头部列表
// 每个字符串格式为 "Name: Value"
type CliHeaders []string

// Parse 将字符串列表解析为 http.Header
func (ch CliHeaders) Parse() (http.Header, error) {
	result := make(http.Header)
	for i, s := range ch {
		name, value, err := parseHeaderString(s)
		if err != nil {
			return nil, fmt.Errorf("参数 --header 第%d项格式错误: %w", i+1, err)
		}
		result.Set(name, value)
	}
	return result, nil
}

// parseHeaderString 解析单个头部字符串 "Name: Value"
func parseHeaderString(s string) (name, value string, err error) {
	name, value, ok := strings.Cut(s, ":")
	if !ok {
		return "", "", fmt.Errorf("缺少冒号分隔符,应为 'Name: Value'")
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", fmt.Errorf("头部名称不能为空")
	}
	if strings.ContainsAny(name, " \t\r\n") {
		return "", "", fmt.Errorf("头部名称包含空白字符: %q", name)
	}

	return name, strings.TrimSpace(value), nil
}

// HeaderProvider 提供每次请求使用的HTTP头部
// 返回的http.Header已按优先级合并(默认 < 配置 < 命令行)
type HeaderProvider interface {
	GetHeaders() (http.Header, error)
}
