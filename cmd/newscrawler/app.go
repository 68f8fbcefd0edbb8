package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/RecoveryAshes/newscrawler/internal/analysis"
	"github.com/RecoveryAshes/newscrawler/internal/chart"
	"github.com/RecoveryAshes/newscrawler/internal/core"
	"github.com/RecoveryAshes/newscrawler/internal/crawlers"
	"github.com/RecoveryAshes/newscrawler/internal/storage"
	"github.com/RecoveryAshes/newscrawler/internal/utils"
)

// app 一次命令执行所需的组件
type app struct {
	config   *core.Config
	store    storage.Store
	fetcher  *crawlers.PageFetcher
	analyzer *analysis.WordFrequencyAnalyzer
	reporter *utils.Reporter
}

// newApp 根据配置连接存储并组装爬取组件
func newApp(ctx context.Context, config *core.Config, cliHeaders []string) (*app, error) {
	headerManager, err := core.NewHeaderManager(config.Crawl.UserAgent, config.HTTP.Headers, cliHeaders)
	if err != nil {
		return nil, fmt.Errorf("创建HTTP头部管理器失败: %w", err)
	}
	if err := headerManager.Validate(); err != nil {
		return nil, fmt.Errorf("HTTP头部验证失败: %w", err)
	}
	utils.Debugf("HTTP头部: %s", headerManager.SafeHeaders())

	store, err := storage.Open(ctx, config.Storage)
	if err != nil {
		return nil, fmt.Errorf("打开存储失败: %w", err)
	}
	if config.Storage.Driver == storage.DriverMemory {
		utils.Warn("⚠️  使用内存存储,结果不会持久化")
	}

	crawlConfig := config.CrawlConfig()
	fetcher := crawlers.NewPageFetcher(crawlers.FetcherConfig{
		Timeout:   crawlConfig.Timeout(),
		RateLimit: crawlConfig.RateLimit,
		Headers:   headerManager,
	})

	return &app{
		config:   config,
		store:    store,
		fetcher:  fetcher,
		analyzer: analysis.NewWordFrequencyAnalyzer(store, chart.NewBarRenderer(config.Chart), crawlConfig.TopN),
		reporter: utils.NewReporter(config.Output.BaseDir, os.Stdout),
	}, nil
}

// Scheduler 创建爬取调度器,interactive为true时显示进度条
func (a *app) Scheduler(interactive bool) *core.CrawlScheduler {
	return core.NewCrawlScheduler(a.config.CrawlConfig(), a.fetcher, a.store, a.analyzer, core.SchedulerOptions{
		ShowProgress:     interactive,
		MonitorResources: true,
		Reporter:         a.reporter,
	})
}

// Close 断开存储
func (a *app) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.store.Close(ctx); err != nil {
		utils.Errorf("关闭存储失败: %v", err)
	}
}
