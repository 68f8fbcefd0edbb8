package models

import (
	"fmt"
	"strings"
	"time"
)

// CrawlConfig 爬取配置
type CrawlConfig struct {
	ListingURLTemplate string  `json:"listing_url_template" mapstructure:"listing_url_template"` // 列表页URL模板,包含一个 %d 页码占位符
	FirstPage          int     `json:"first_page" mapstructure:"first_page"`                     // 起始页码 (默认:1)
	LastPage           int     `json:"last_page" mapstructure:"last_page"`                       // 结束页码,含 (默认:50)
	MaxWorkers         int     `json:"max_workers" mapstructure:"max_workers"`                   // 并发worker数 (默认:10)
	RequestTimeout     int     `json:"request_timeout" mapstructure:"request_timeout"`           // 单个HTTP请求超时(秒) (默认:30)
	RateLimit          float64 `json:"rate_limit" mapstructure:"rate_limit"`                     // 每秒请求数上限,0表示不限制
	GraphIndex         int     `json:"graph_index" mapstructure:"graph_index"`                   // JSON-LD @graph 中日期节点的下标 (默认:5)
	TopN               int     `json:"top_n" mapstructure:"top_n"`                               // 词频统计保留前N个 (默认:10)
}

// Validate 验证配置
func (c *CrawlConfig) Validate() error {
	if strings.Count(c.ListingURLTemplate, "%d") != 1 {
		return fmt.Errorf("列表页URL模板必须包含且仅包含一个 %%d: %q", c.ListingURLTemplate)
	}
	if err := ValidateURL(fmt.Sprintf(c.ListingURLTemplate, c.FirstPage)); err != nil {
		return fmt.Errorf("列表页URL模板无效: %w", err)
	}
	if c.FirstPage < 1 || c.LastPage < c.FirstPage {
		return fmt.Errorf("页码范围无效: %d-%d", c.FirstPage, c.LastPage)
	}
	if c.LastPage-c.FirstPage >= 10000 {
		return fmt.Errorf("页码范围过大: %d-%d", c.FirstPage, c.LastPage)
	}
	if c.MaxWorkers < 1 || c.MaxWorkers > 100 {
		return fmt.Errorf("并发数必须在1-100之间")
	}
	if c.RequestTimeout < 1 || c.RequestTimeout > 300 {
		return fmt.Errorf("请求超时必须在1-300秒之间")
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("请求速率不能为负数")
	}
	if c.GraphIndex < 0 {
		return fmt.Errorf("graph_index不能为负数")
	}
	if c.TopN < 1 || c.TopN > 1000 {
		return fmt.Errorf("top_n必须在1-1000之间")
	}
	return nil
}

// Timeout 单个请求的超时时间
func (c *CrawlConfig) Timeout() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

// ListingURL 根据页码生成列表页URL
func (c *CrawlConfig) ListingURL(page int) string {
	return fmt.Sprintf(c.ListingURLTemplate, page)
}

// Pages 配置的页码列表
func (c *CrawlConfig) Pages() []int {
	return PageRange(c.FirstPage, c.LastPage)
}
