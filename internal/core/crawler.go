package core

import (
	"context"
	"time"

	"github.com/RecoveryAshes/newscrawler/internal/crawlers"
	"github.com/RecoveryAshes/newscrawler/internal/models"
	"github.com/RecoveryAshes/newscrawler/internal/storage"
	"github.com/RecoveryAshes/newscrawler/internal/utils"
)

// ArticleCrawler 单个列表页的爬取器
// 获取列表页,依次提取文章,整页写入news并记录stats
type ArticleCrawler struct {
	config    models.CrawlConfig
	runID     string
	listing   *crawlers.ListingFetcher
	extractor *crawlers.FieldExtractor
	store     storage.Store

	now func() time.Time
}

// NewArticleCrawler 创建文章爬取器
func NewArticleCrawler(config models.CrawlConfig, runID string, fetcher crawlers.Fetcher, store storage.Store) *ArticleCrawler {
	return &ArticleCrawler{
		config:    config,
		runID:     runID,
		listing:   crawlers.NewListingFetcher(fetcher),
		extractor: crawlers.NewFieldExtractor(fetcher, config.GraphIndex),
		store:     store,
		now:       time.Now,
	}
}

// CrawlPage 爬取一个列表页,不返回错误
// 列表页失败视为0篇文章;文章失败计入FailCount;存储错误只记录日志
func (c *ArticleCrawler) CrawlPage(ctx context.Context, page int) models.CrawlOutcome {
	start := time.Now()
	listingURL := c.config.ListingURL(page)
	logger := utils.Logger.With().Int("page", page).Logger()

	links, err := c.listing.FetchLinks(ctx, listingURL)
	if err != nil {
		logger.Warn().Err(err).Str("url", listingURL).Msg("列表页获取失败,本页按0篇文章处理")
		links = nil
	}

	outcome := models.CrawlOutcome{PageNumber: page, TotalAttempted: len(links)}
	batch := make([]models.ArticleRecord, 0, len(links))
	for _, link := range links {
		article, err := c.extractor.Extract(ctx, link)
		if err != nil {
			outcome.FailCount++
			continue
		}
		batch = append(batch, *article)
		outcome.SuccessCount++
	}
	outcome.Elapsed = time.Since(start)

	// 已完成页面的结果在取消后仍然写入
	storeCtx := context.WithoutCancel(ctx)

	if len(batch) > 0 {
		if err := c.store.InsertMany(storeCtx, storage.CollectionNews, storage.ArticleDocuments(batch)); err != nil {
			logger.Error().Err(err).Str("collection", storage.CollectionNews).Msg("保存文章失败")
		}
	} else {
		logger.Warn().Str("url", listingURL).Msg("本页没有成功提取的文章")
	}

	stats := models.NewStatsRecord(c.runID, outcome, c.now())
	if err := c.store.InsertOne(storeCtx, storage.CollectionStats, stats); err != nil {
		logger.Error().Err(err).Str("collection", storage.CollectionStats).Msg("保存统计失败")
	}

	logger.Info().
		Int("attempted", outcome.TotalAttempted).
		Int("success", outcome.SuccessCount).
		Int("failed", outcome.FailCount).
		Dur("elapsed", outcome.Elapsed).
		Msg("✅ 列表页完成")

	return outcome
}
