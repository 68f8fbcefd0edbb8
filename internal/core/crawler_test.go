package core

import (
	"context"
	"testing"
	"time"

	"github.com/RecoveryAshes/newscrawler/internal/crawlers"
	"github.com/RecoveryAshes/newscrawler/internal/models"
	"github.com/RecoveryAshes/newscrawler/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCrawler(site *newsSite, store storage.Store) *ArticleCrawler {
	fetcher := crawlers.NewPageFetcher(crawlers.FetcherConfig{Timeout: 5 * time.Second})
	c := NewArticleCrawler(site.crawlConfig(1, 5), "run-test", fetcher, store)
	c.now = func() time.Time { return time.Date(2023, 5, 1, 14, 30, 0, 0, time.UTC) }
	return c
}

func TestArticleCrawler_CrawlPage(t *testing.T) {
	site := newNewsSite(t)
	store := storage.NewMemoryStore()
	ctx := context.Background()

	outcome := newTestCrawler(site, store).CrawlPage(ctx, 2)

	assert.Equal(t, 2, outcome.PageNumber)
	assert.Equal(t, 10, outcome.TotalAttempted)
	assert.Equal(t, 9, outcome.SuccessCount)
	assert.Equal(t, 1, outcome.FailCount)
	assert.True(t, outcome.Consistent())
	assert.Greater(t, outcome.Elapsed, time.Duration(0))

	docs, err := store.FindAll(ctx, storage.CollectionNews)
	require.NoError(t, err)
	require.Len(t, docs, 9)

	var first models.ArticleRecord
	require.NoError(t, storage.Decode(docs[0], &first))
	assert.Equal(t, site.server.URL+"/haber/2-10/", first.URL)
	assert.Equal(t, "Haber 2-10", first.Header)
	assert.Equal(t, "gündem haber sayfa2", first.Body)
	assert.Equal(t, []string{"https://cdn.example.com/2-10.jpg"}, first.ImageURLs)
	assert.Equal(t, "2023-05-01", first.PublishDate)
	assert.Equal(t, "2023-05-02", first.UpdateDate)

	stats, err := store.FindAll(ctx, storage.CollectionStats)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	var record models.StatsRecord
	require.NoError(t, storage.Decode(stats[0], &record))
	assert.Equal(t, "run-test", record.RunID)
	assert.Equal(t, 2, record.Page)
	assert.Equal(t, 10, record.Count)
	assert.Equal(t, 9, record.SuccessCount)
	assert.Equal(t, 1, record.FailCount)
	assert.Equal(t, "2023-05-01 14:30", record.Date)
}

func TestArticleCrawler_EmptyAndFailedListing(t *testing.T) {
	site := newNewsSite(t)
	store := storage.NewMemoryStore()
	ctx := context.Background()
	crawler := newTestCrawler(site, store)

	for _, page := range []int{4, 5} {
		outcome := crawler.CrawlPage(ctx, page)
		assert.Equal(t, page, outcome.PageNumber)
		assert.Equal(t, 0, outcome.TotalAttempted)
		assert.Equal(t, 0, outcome.SuccessCount)
		assert.Equal(t, 0, outcome.FailCount)
	}

	// 空页面不写入news,但仍然记录stats
	assert.Equal(t, 0, store.Count(storage.CollectionNews))
	assert.Equal(t, 2, store.Count(storage.CollectionStats))
}

func TestArticleCrawler_StorageErrorsSwallowed(t *testing.T) {
	site := newNewsSite(t)
	store := storage.NewMemoryStore()
	require.NoError(t, store.Close(context.Background()))

	outcome := newTestCrawler(site, store).CrawlPage(context.Background(), 1)
	assert.Equal(t, 9, outcome.SuccessCount)
	assert.True(t, outcome.Consistent())
}
