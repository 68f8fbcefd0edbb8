package models

import (
	"fmt"
)

// TransportError HTTP层失败(连接错误、超时、非2xx状态码),不重试
type TransportError struct {
	URL        string
	StatusCode int // 0 表示没有收到响应
	Cause      error
}

// Error 实现error接口
func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("请求失败 [%s] (状态码 %d): %v", e.URL, e.StatusCode, e.Cause)
	}
	return fmt.Sprintf("请求失败 [%s]: %v", e.URL, e.Cause)
}

// Unwrap 支持errors.Unwrap
func (e *TransportError) Unwrap() error {
	return e.Cause
}

// ParseError 预期的HTML/JSON结构缺失或格式错误
type ParseError struct {
	URL   string
	What  string
	Cause error
}

// Error 实现error接口
func (e *ParseError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("解析失败 [%s]: %s", e.URL, e.What)
	}
	return fmt.Sprintf("解析失败 [%s]: %s: %v", e.URL, e.What, e.Cause)
}

// Unwrap 支持errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// StorageError 持久化操作失败
type StorageError struct {
	Op         string // insert_many, insert_one, delete_all, find_all, aggregate
	Collection string
	Cause      error
}

// Error 实现error接口
func (e *StorageError) Error() string {
	return fmt.Sprintf("存储操作失败 [%s/%s]: %v", e.Collection, e.Op, e.Cause)
}

// Unwrap 支持errors.Unwrap
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// ExtractErrorKind 文章提取失败的类别
type ExtractErrorKind int

const (
	ExtractFetchFailed     ExtractErrorKind = iota + 1 // 获取页面失败
	ExtractMissingField                                // 缺少必需元素
	ExtractInvalidMetadata                             // JSON-LD元数据无效
	ExtractUnexpected                                  // 其他意外错误
)

// String 返回类别名称
func (k ExtractErrorKind) String() string {
	switch k {
	case ExtractFetchFailed:
		return "fetch_failed"
	case ExtractMissingField:
		return "missing_field"
	case ExtractInvalidMetadata:
		return "invalid_metadata"
	case ExtractUnexpected:
		return "unexpected"
	default:
		return "unknown"
	}
}

// ExtractError 单篇文章提取失败
type ExtractError struct {
	Kind  ExtractErrorKind
	URL   string
	Field string // 仅 ExtractMissingField 时有值
	Cause error
}

// Error 实现error接口
func (e *ExtractError) Error() string {
	if e.Kind == ExtractMissingField {
		return fmt.Sprintf("提取文章失败 [%s] (%s: %s)", e.URL, e.Kind, e.Field)
	}
	return fmt.Sprintf("提取文章失败 [%s] (%s): %v", e.URL, e.Kind, e.Cause)
}

// Unwrap 支持errors.Unwrap
func (e *ExtractError) Unwrap() error {
	return e.Cause
}

// FetchError 列表页获取失败
type FetchError struct {
	URL   string
	Cause error
}

// Error 实现error接口
func (e *FetchError) Error() string {
	return fmt.Sprintf("获取列表页失败 [%s]: %v", e.URL, e.Cause)
}

// Unwrap 支持errors.Unwrap
func (e *FetchError) Unwrap() error {
	return e.Cause
}

// ConfigError 配置文件错误
type ConfigError struct {
	// FilePath 配置文件路径
	FilePath string

	// Cause 底层错误 (如viper.ConfigParseError)
	Cause error
}

// Error 实现error接口
func (e *ConfigError) Error() string {
	return fmt.Sprintf("配置文件错误 [%s]: %v", e.FilePath, e.Cause)
}

// Unwrap 支持errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Cause
}
