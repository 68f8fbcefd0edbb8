// Package crawlers 提供新闻站点的页面获取和字段提取功能
//
// # 概述
//
// crawlers包只覆盖固定的"列表页 → 文章页"模式,不做通用链接跟踪,
// 不处理robots.txt,也不执行JavaScript。
//
// # 核心组件
//
// ## PageFetcher
//
// 基于Colly同步收集器的HTTP获取器。每个请求只发送一次(不重试),
// 非2xx状态码和传输错误统一返回 *models.TransportError。
// 支持请求超时、自定义头部、可选的固定速率限制和Brotli/Deflate解压。
//
//	fetcher := NewPageFetcher(FetcherConfig{Timeout: 30 * time.Second, Headers: headerManager})
//	body, err := fetcher.Fetch(ctx, "https://example.com/page/1/")
//
// ## Selection
//
// 选择器能力接口 {FindOne, FindAll, Attr, Text}。提取逻辑只依赖该接口,
// 默认实现基于goquery。
//
// ## ListingFetcher
//
// 解析列表页中的 a.post-link 链接,取文档顺序下标 [10, 20) 的窗口。
// 前10个匹配是置顶/推荐内容,被有意跳过。
//
//	links, err := NewListingFetcher(fetcher).FetchLinks(ctx, listingURL)
//
// ## FieldExtractor
//
// 将单个文章页解析为 models.ArticleRecord。所有失败都转换为
// *models.ExtractError 并记录日志,不会向上抛出panic。
//
//	article, err := NewFieldExtractor(fetcher, 5).Extract(ctx, articleURL)
//
// ## ResourceMonitor
//
// 基于gopsutil周期采样系统内存和CPU使用率,记录一次运行中的峰值。
package crawlers
