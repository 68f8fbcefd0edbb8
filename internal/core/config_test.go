package core

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/RecoveryAshes/newscrawler/internal/models"
	"github.com/RecoveryAshes/newscrawler/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	config, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, DefaultListingURLTemplate, config.Site.ListingURLTemplate)
	assert.Equal(t, 1, config.Site.FirstPage)
	assert.Equal(t, 50, config.Site.LastPage)
	assert.Equal(t, 10, config.Crawl.MaxWorkers)
	assert.Equal(t, 30, config.Crawl.RequestTimeout)
	assert.Equal(t, 5, config.Crawl.GraphIndex)
	assert.Equal(t, storage.DriverMongo, config.Storage.Driver)
	assert.Equal(t, "db_news", config.Storage.Database)
	assert.Equal(t, 10, config.Analysis.TopN)
	assert.Equal(t, "graph.png", config.Chart.Output)
	assert.Equal(t, "logs", config.Logging.LogDir)
	assert.NoError(t, config.Validate())

	crawl := config.CrawlConfig()
	assert.Equal(t, "https://turkishnetworktimes.com/kategori/gundem/page/7/", crawl.ListingURL(7))
	assert.Len(t, crawl.Pages(), 50)
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, `
site:
  listing_url_template: "https://example.com/news/page/%d/"
  first_page: 3
  last_page: 8
crawl:
  max_workers: 2
  rate_limit: 1.5
http:
  headers:
    X-Api-Key: "secret-value"
storage:
  driver: memory
analysis:
  top_n: 25
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/news/page/%d/", config.Site.ListingURLTemplate)
	assert.Equal(t, 3, config.Site.FirstPage)
	assert.Equal(t, 8, config.Site.LastPage)
	assert.Equal(t, 2, config.Crawl.MaxWorkers)
	assert.Equal(t, 1.5, config.Crawl.RateLimit)
	assert.Equal(t, 30, config.Crawl.RequestTimeout)
	assert.Equal(t, storage.DriverMemory, config.Storage.Driver)
	assert.Equal(t, 25, config.Analysis.TopN)

	// viper会把键转为小写
	var apiKey string
	for name, value := range config.HTTP.Headers {
		if strings.EqualFold(name, "X-Api-Key") {
			apiKey = value
		}
	}
	assert.Equal(t, "secret-value", apiKey)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("NEWSCRAWLER_STORAGE_URI", "mongodb://db.internal:27017")
	t.Setenv("NEWSCRAWLER_CRAWL_MAX_WORKERS", "7")

	config, err := LoadConfig(writeConfig(t, "crawl:\n  max_workers: 3\n"))
	require.NoError(t, err)
	assert.Equal(t, "mongodb://db.internal:27017", config.Storage.URI)
	assert.Equal(t, 7, config.Crawl.MaxWorkers)
}

func TestLoadConfig_Errors(t *testing.T) {
	var configErr *models.ConfigError

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.As(err, &configErr))

	_, err = LoadConfig(writeConfig(t, "site: [unterminated"))
	require.Error(t, err)
	assert.True(t, errors.As(err, &configErr))

	big := writeConfig(t, "# "+strings.Repeat("x", MaxConfigFileSize))
	_, err = LoadConfig(big)
	require.Error(t, err)
	assert.True(t, errors.As(err, &configErr))
}

func TestConfig_MergeCLIFlags(t *testing.T) {
	config, err := LoadConfig("")
	require.NoError(t, err)

	config.MergeCLIFlags(4, 2, 9, 15, 20, true)
	assert.Equal(t, 4, config.Crawl.MaxWorkers)
	assert.Equal(t, 2, config.Site.FirstPage)
	assert.Equal(t, 9, config.Site.LastPage)
	assert.Equal(t, 15, config.Crawl.RequestTimeout)
	assert.Equal(t, 20, config.Analysis.TopN)
	assert.Equal(t, storage.DriverMemory, config.Storage.Driver)

	// 零值不覆盖
	config.MergeCLIFlags(0, 0, 0, 0, 0, false)
	assert.Equal(t, 4, config.Crawl.MaxWorkers)
	assert.Equal(t, storage.DriverMemory, config.Storage.Driver)
}

func TestConfig_Validate(t *testing.T) {
	config, err := LoadConfig("")
	require.NoError(t, err)

	config.Site.ListingURLTemplate = "https://example.com/page/"
	assert.Error(t, config.Validate())

	config.Site.ListingURLTemplate = DefaultListingURLTemplate
	config.Storage.Driver = "sqlite"
	assert.Error(t, config.Validate())
}
