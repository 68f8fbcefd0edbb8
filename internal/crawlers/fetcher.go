package crawlers

import (
	"bytes"
	"compress/flate"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/RecoveryAshes/newscrawler/internal/models"
	"github.com/RecoveryAshes/newscrawler/internal/utils"
	"github.com/andybalholm/brotli"
	"github.com/gocolly/colly/v2"
	"golang.org/x/time/rate"
)

const (
	// DefaultRequestTimeout 默认单请求超时
	DefaultRequestTimeout = 30 * time.Second

	// MaxBodySize 响应体上限 (10MB)
	MaxBodySize = 10 * 1024 * 1024
)

// Fetcher 获取页面原始内容
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) ([]byte, error)
}

// FetcherConfig PageFetcher配置
type FetcherConfig struct {
	Timeout   time.Duration         // 单请求超时,0使用默认值
	RateLimit float64               // 每秒请求数,0表示不限制
	Headers   models.HeaderProvider // 可为nil
}

// PageFetcher 基于Colly的页面获取器
// 所有worker共享同一个实例,每次Fetch克隆出独立回调的收集器
type PageFetcher struct {
	collector *colly.Collector
	limiter   *rate.Limiter
	headers   models.HeaderProvider
}

// NewPageFetcher 创建页面获取器
func NewPageFetcher(config FetcherConfig) *PageFetcher {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	// 同步模式: Visit直接返回请求结果
	// 允许重复访问: 同一URL在多次运行或重复链接时都要真正请求
	// 错误状态码也交给OnResponse,由Fetch自己判断是否为2xx
	c := colly.NewCollector(
		colly.AllowURLRevisit(),
		colly.IgnoreRobotsTxt(),
		colly.ParseHTTPErrorResponse(),
		colly.MaxBodySize(MaxBodySize),
	)
	c.SetRequestTimeout(timeout)

	var limiter *rate.Limiter
	if config.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.RateLimit), 1)
		utils.Debugf("页面获取器: 请求速率限制 %.2f 次/秒", config.RateLimit)
	}

	utils.Debugf("页面获取器: HTTP超时设置为 %v", timeout)

	return &PageFetcher{
		collector: c,
		limiter:   limiter,
		headers:   config.Headers,
	}
}

// Fetch 发送一次GET请求并返回解压后的响应体
// 不重试;非2xx和传输错误返回 *models.TransportError
func (f *PageFetcher) Fetch(ctx context.Context, pageURL string) ([]byte, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, &models.TransportError{URL: pageURL, Cause: err}
		}
	}

	c := f.collector.Clone()
	c.Context = ctx

	var (
		body       []byte
		statusCode int
		encoding   string
		headerErr  error
	)

	c.OnRequest(func(r *colly.Request) {
		if f.headers == nil {
			return
		}
		headers, err := f.headers.GetHeaders()
		if err != nil {
			headerErr = err
			r.Abort()
			return
		}
		for name, values := range headers {
			if len(values) > 0 {
				r.Headers.Set(name, values[0])
			}
		}
	})

	c.OnResponse(func(r *colly.Response) {
		body = r.Body
		statusCode = r.StatusCode
		encoding = r.Headers.Get("Content-Encoding")
	})

	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			statusCode = r.StatusCode
		}
	})

	if err := c.Visit(pageURL); err != nil {
		return nil, &models.TransportError{URL: pageURL, StatusCode: statusCode, Cause: err}
	}
	if headerErr != nil {
		return nil, &models.TransportError{URL: pageURL, Cause: fmt.Errorf("获取HTTP头部失败: %w", headerErr)}
	}
	if statusCode < 200 || statusCode > 299 {
		return nil, &models.TransportError{URL: pageURL, StatusCode: statusCode, Cause: fmt.Errorf("非2xx响应")}
	}

	decoded, err := decompressBody(encoding, body)
	if err != nil {
		return nil, &models.TransportError{URL: pageURL, StatusCode: statusCode, Cause: err}
	}

	utils.Debugf("获取成功: %s (%d bytes)", pageURL, len(decoded))
	return decoded, nil
}

// decompressBody 根据Content-Encoding头部解压响应体
// gzip已由Colly解压,这里只处理 br 和 deflate
func decompressBody(contentEncoding string, body []byte) ([]byte, error) {
	var reader io.Reader
	switch strings.ToLower(strings.TrimSpace(contentEncoding)) {
	case "br":
		reader = brotli.NewReader(bytes.NewReader(body))
	case "deflate":
		fr := flate.NewReader(bytes.NewReader(body))
		defer fr.Close()
		reader = fr
	default:
		return body, nil
	}

	decompressed, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("解压响应失败 (编码=%s): %w", contentEncoding, err)
	}
	return decompressed, nil
}
