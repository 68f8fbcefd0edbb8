package core

import (
	"net/http"
	"sync"

	"github.com/RecoveryAshes/newscrawler/internal/models"
	"github.com/RecoveryAshes/newscrawler/internal/utils"
)

const (
	// DefaultUserAgent 默认User-Agent
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) " +
		"Chrome/120.0.0.0 Safari/537.36"
)

// HeaderManager 管理HTTP请求头部
// 实现 models.HeaderProvider 接口,所有worker共享
type HeaderManager struct {
	// defaults 系统默认头部
	defaults http.Header

	// config 从配置文件 http.headers 加载的头部
	config http.Header

	// cli 从命令行 -H 解析的头部
	cli http.Header

	once    sync.Once
	merged  http.Header
	loadErr error
}

// NewHeaderManager 创建头部管理器
// 参数:
//   - userAgent: 默认User-Agent (为空则使用DefaultUserAgent)
//   - configHeaders: 配置文件中的头部
//   - cliHeaders: 命令行传递的 "Name: Value" 字符串列表
//
// 返回:
//   - *HeaderManager: 头部管理器实例
//   - error: 如果命令行参数解析失败
func NewHeaderManager(userAgent string, configHeaders map[string]string, cliHeaders []string) (*HeaderManager, error) {
	hm := &HeaderManager{
		defaults: getDefaultHeaders(userAgent),
		config:   make(http.Header),
		cli:      make(http.Header),
	}

	for name, value := range configHeaders {
		hm.config.Set(name, value)
	}

	if len(cliHeaders) > 0 {
		parsed, err := models.CliHeaders(cliHeaders).Parse()
		if err != nil {
			return nil, err
		}
		hm.cli = parsed
	}

	return hm, nil
}

// getDefaultHeaders 返回系统默认头部
func getDefaultHeaders(userAgent string) http.Header {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return http.Header{
		"User-Agent":      []string{userAgent},
		"Accept":          []string{"text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"},
		"Accept-Language": []string{"tr-TR,tr;q=0.9,en;q=0.8"},
		"Accept-Encoding": []string{"gzip, deflate, br"},
	}
}

// Validate 验证所有头部的合法性
// 验证顺序: 默认 → 配置 → 命令行
func (hm *HeaderManager) Validate() error {
	if err := utils.ValidateHeaders(hm.defaults); err != nil {
		utils.Errorf("默认头部验证失败: %v", err)
		return err
	}

	if err := utils.ValidateHeaders(hm.config); err != nil {
		utils.Errorf("配置文件头部验证失败: %v", err)
		return err
	}

	if err := utils.ValidateHeaders(hm.cli); err != nil {
		utils.Errorf("命令行头部验证失败: %v", err)
		return err
	}

	utils.Debugf("所有HTTP头部验证通过")
	return nil
}

// GetMergedHeaders 按优先级合并头部 (default < config < cli)
func (hm *HeaderManager) GetMergedHeaders() http.Header {
	result := make(http.Header)

	for name, values := range hm.defaults {
		result[name] = values
	}
	for name, values := range hm.config {
		result[name] = values
	}
	for name, values := range hm.cli {
		result[name] = values
	}

	return result
}

// SafeHeaders 返回脱敏后的头部 (用于日志)
func (hm *HeaderManager) SafeHeaders() string {
	return utils.RedactHeaders(hm.GetMergedHeaders())
}

// GetHeaders 实现 HeaderProvider 接口
// 首次调用时验证并合并,之后返回同一结果的副本
func (hm *HeaderManager) GetHeaders() (http.Header, error) {
	hm.once.Do(func() {
		if err := hm.Validate(); err != nil {
			hm.loadErr = err
			return
		}
		hm.merged = hm.GetMergedHeaders()
		utils.Debugf("生效的HTTP头部: %s", utils.RedactHeaders(hm.merged))
	})
	if hm.loadErr != nil {
		return nil, hm.loadErr
	}
	return hm.merged.Clone(), nil
}
