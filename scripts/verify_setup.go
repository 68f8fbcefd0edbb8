package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/RecoveryAshes/newscrawler/internal/core"
	"github.com/RecoveryAshes/newscrawler/internal/crawlers"
	"github.com/RecoveryAshes/newscrawler/internal/storage"
)

func main() {
	fmt.Println("==============================================")
	fmt.Println("  newscrawler 环境验证")
	fmt.Println("==============================================")
	fmt.Println()

	allOK := true

	fmt.Printf("✅ Go版本: %s\n", runtime.Version())
	fmt.Printf("✅ 操作系统: %s/%s\n", runtime.GOOS, runtime.GOARCH)

	// 配置
	configPath := ""
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}
	config, err := core.LoadConfig(configPath)
	if err != nil {
		fmt.Printf("❌ 加载配置失败: %v\n", err)
		os.Exit(1)
	}
	if err := config.Validate(); err != nil {
		fmt.Printf("❌ 配置无效: %v\n", err)
		allOK = false
	} else {
		fmt.Println("✅ 配置有效")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// 存储
	fmt.Println()
	fmt.Printf("检查存储 (%s)...\n", config.Storage.Driver)
	store, err := storage.Open(ctx, config.Storage)
	if err != nil {
		fmt.Printf("❌ 存储不可用: %v\n", err)
		fmt.Println("   可使用 --dry-run 以内存存储运行")
		allOK = false
	} else {
		fmt.Println("✅ 存储连接成功")
		_ = store.Close(ctx)
	}

	// 目标站点
	fmt.Println()
	crawlConfig := config.CrawlConfig()
	listingURL := crawlConfig.ListingURL(crawlConfig.FirstPage)
	fmt.Printf("检查目标站点: %s\n", listingURL)

	headerManager, err := core.NewHeaderManager(config.Crawl.UserAgent, config.HTTP.Headers, nil)
	if err != nil {
		fmt.Printf("❌ HTTP头部配置无效: %v\n", err)
		os.Exit(1)
	}
	fetcher := crawlers.NewPageFetcher(crawlers.FetcherConfig{
		Timeout: crawlConfig.Timeout(),
		Headers: headerManager,
	})
	links, err := crawlers.NewListingFetcher(fetcher).FetchLinks(ctx, listingURL)
	switch {
	case err != nil:
		fmt.Printf("❌ 列表页获取失败: %v\n", err)
		allOK = false
	case len(links) == 0:
		fmt.Println("⚠️  列表页可访问,但没有找到文章链接 (页面结构可能已变化)")
	default:
		fmt.Printf("✅ 列表页可访问,找到 %d 个文章链接\n", len(links))
	}

	// 项目结构
	fmt.Println()
	fmt.Println("检查项目结构...")
	requiredDirs := []string{
		"cmd/newscrawler",
		"internal/core",
		"internal/crawlers",
		"internal/storage",
		"internal/analysis",
		"internal/chart",
		"internal/utils",
		"internal/models",
		"configs",
	}

	for _, dir := range requiredDirs {
		if _, err := os.Stat(dir); err == nil {
			fmt.Printf("✅ %s/\n", dir)
		} else {
			fmt.Printf("❌ %s/ 不存在\n", dir)
			allOK = false
		}
	}

	fmt.Println()
	fmt.Println("==============================================")
	if allOK {
		fmt.Println("✅ 环境验证通过!")
		fmt.Println()
		fmt.Println("下一步:")
		fmt.Println("  1. 运行 'go build ./cmd/newscrawler' 构建项目")
		fmt.Println("  2. 运行 './newscrawler --help' 查看帮助")
		os.Exit(0)
	}
	fmt.Println("❌ 环境验证失败,请解决上述问题。")
	os.Exit(1)
}
