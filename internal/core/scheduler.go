package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/RecoveryAshes/newscrawler/internal/analysis"
	"github.com/RecoveryAshes/newscrawler/internal/crawlers"
	"github.com/RecoveryAshes/newscrawler/internal/models"
	"github.com/RecoveryAshes/newscrawler/internal/storage"
	"github.com/RecoveryAshes/newscrawler/internal/utils"
	"github.com/schollz/progressbar/v3"
)

// 资源采样间隔
const resourceSampleInterval = 2 * time.Second

// SchedulerOptions 调度器可选项
type SchedulerOptions struct {
	ShowProgress     bool
	MonitorResources bool
	Reporter         *utils.Reporter // nil表示不打印也不保存报告
}

// CrawlScheduler 并发爬取多个列表页,全部完成后执行词频统计和分组报告
type CrawlScheduler struct {
	config   models.CrawlConfig
	fetcher  crawlers.Fetcher
	store    storage.Store
	analyzer *analysis.WordFrequencyAnalyzer
	options  SchedulerOptions
}

// NewCrawlScheduler 创建爬取调度器
func NewCrawlScheduler(config models.CrawlConfig, fetcher crawlers.Fetcher, store storage.Store, analyzer *analysis.WordFrequencyAnalyzer, options SchedulerOptions) *CrawlScheduler {
	return &CrawlScheduler{
		config:   config,
		fetcher:  fetcher,
		store:    store,
		analyzer: analyzer,
		options:  options,
	}
}

// RunCrawl 以固定大小的worker池爬取给定页码
// 只有在后处理之前上下文被取消时才返回错误(同时返回已完成页面的汇总)
func (s *CrawlScheduler) RunCrawl(ctx context.Context, pages []int, concurrency int) (*models.RunSummary, error) {
	if concurrency <= 0 {
		concurrency = s.config.MaxWorkers
	}
	if concurrency > len(pages) {
		concurrency = len(pages)
	}
	if concurrency < 1 {
		concurrency = 1
	}

	summary := &models.RunSummary{
		RunID:     models.NewRunID(),
		StartedAt: time.Now(),
		Workers:   concurrency,
		Pages:     pages,
		Outcomes:  make([]models.CrawlOutcome, 0, len(pages)),
	}

	utils.Logger.Info().
		Str("run_id", summary.RunID).
		Int("pages", len(pages)).
		Int("workers", concurrency).
		Msg("🚀 开始爬取")

	var monitor *crawlers.ResourceMonitor
	if s.options.MonitorResources {
		monitor = crawlers.NewResourceMonitor()
		monitor.StartMonitoring(ctx, resourceSampleInterval)
	}

	var bar *progressbar.ProgressBar
	if s.options.ShowProgress {
		bar = utils.NewProgressBar(len(pages), "爬取列表页")
	}

	crawler := NewArticleCrawler(s.config, summary.RunID, s.fetcher, s.store)
	pageCh := make(chan int)
	results := make(chan models.CrawlOutcome, len(pages))

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for page := range pageCh {
				utils.Debugf("[worker %d] 列表页 %d", workerID, page)
				results <- crawler.CrawlPage(ctx, page)
			}
		}(i)
	}

	// 取消后停止分发新页面
	go func() {
		defer close(pageCh)
		for _, page := range pages {
			select {
			case <-ctx.Done():
				return
			case pageCh <- page:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	for outcome := range results {
		summary.Add(outcome)
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}

	summary.Duration = time.Since(summary.StartedAt).Seconds()
	if monitor != nil {
		usage := monitor.StopMonitoring()
		summary.PeakMemoryPercent = usage.PeakMemoryPercent
		summary.PeakCPUPercent = usage.PeakCPUPercent
	}

	if err := ctx.Err(); err != nil {
		utils.Warnf("⚠️  爬取被取消: 已完成 %d/%d 个列表页", len(summary.Outcomes), len(pages))
		return summary, fmt.Errorf("爬取被取消: %w", err)
	}

	s.postProcess(ctx, summary)
	return summary, nil
}

// postProcess 所有页面完成后: 词频统计、分组报告、保存汇总
func (s *CrawlScheduler) postProcess(ctx context.Context, summary *models.RunSummary) {
	docs, err := s.store.FindAll(ctx, storage.CollectionNews)
	if err != nil {
		utils.Logger.Error().Err(err).Str("collection", storage.CollectionNews).Msg("读取文章失败,跳过词频统计")
	} else if s.analyzer != nil {
		summary.TopWords = s.analyzer.Analyze(ctx, analysis.NewsTexts(docs))
	}

	groups, err := UpdateDateReport(ctx, s.store)
	if err != nil {
		utils.Logger.Error().Err(err).Str("collection", storage.CollectionNews).Msg("分组统计失败")
	} else {
		summary.Groups = groups
	}

	utils.Logger.Info().
		Str("run_id", summary.RunID).
		Int("attempted", summary.TotalAttempted).
		Int("success", summary.TotalSuccess).
		Int("failed", summary.TotalFailed).
		Int("empty_pages", summary.EmptyPages).
		Float64("duration", summary.Duration).
		Msg("🎉 爬取完成")

	if s.options.Reporter == nil {
		return
	}
	s.options.Reporter.PrintGroups(summary.Groups)
	s.options.Reporter.PrintSummary(summary)
	if path, err := s.options.Reporter.SaveSummary(summary); err != nil {
		utils.Errorf("保存运行汇总失败: %v", err)
	} else {
		utils.Infof("📄 运行汇总已保存: %s", path)
	}
}

// UpdateDateReport 按update_date分组统计news集合
func UpdateDateReport(ctx context.Context, store storage.Store) ([]models.UpdateDateGroup, error) {
	groups, err := store.Aggregate(ctx, storage.CollectionNews, "update_date", []string{"header", "update_date"})
	if err != nil {
		return nil, err
	}
	return storage.UpdateDateGroups(groups), nil
}
