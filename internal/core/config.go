package core

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/RecoveryAshes/newscrawler/internal/chart"
	"github.com/RecoveryAshes/newscrawler/internal/models"
	"github.com/RecoveryAshes/newscrawler/internal/storage"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix 环境变量前缀,如 NEWSCRAWLER_STORAGE_URI
	EnvPrefix = "NEWSCRAWLER"

	// MaxConfigFileSize 配置文件最大大小 (1MB)
	MaxConfigFileSize = 1 * 1024 * 1024

	// DefaultListingURLTemplate 默认列表页URL模板
	DefaultListingURLTemplate = "https://turkishnetworktimes.com/kategori/gundem/page/%d/"
)

// Config 应用程序配置
type Config struct {
	Site     SiteConfig     `mapstructure:"site"`
	Crawl    CrawlSection   `mapstructure:"crawl"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Storage  storage.Config `mapstructure:"storage"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Chart    chart.Config   `mapstructure:"chart"`
	Output   OutputConfig   `mapstructure:"output"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Schedule ScheduleConfig `mapstructure:"schedule"`
}

// SiteConfig 目标站点
type SiteConfig struct {
	ListingURLTemplate string `mapstructure:"listing_url_template"`
	FirstPage          int    `mapstructure:"first_page"`
	LastPage           int    `mapstructure:"last_page"`
}

// CrawlSection 爬取行为
type CrawlSection struct {
	MaxWorkers     int     `mapstructure:"max_workers"`
	RequestTimeout int     `mapstructure:"request_timeout"`
	RateLimit      float64 `mapstructure:"rate_limit"`
	GraphIndex     int     `mapstructure:"graph_index"`
	UserAgent      string  `mapstructure:"user_agent"`
}

// HTTPConfig 自定义请求头部
type HTTPConfig struct {
	Headers map[string]string `mapstructure:"headers"`
}

// AnalysisConfig 词频分析配置
type AnalysisConfig struct {
	TopN int `mapstructure:"top_n"`
}

// LoggingConfig 日志配置
type LoggingConfig struct {
	Level    string         `mapstructure:"level"`
	LogDir   string         `mapstructure:"log_dir"`
	Rotation RotationConfig `mapstructure:"rotation"`
}

// RotationConfig 日志轮转配置
type RotationConfig struct {
	MaxSize    int  `mapstructure:"max_size"`
	MaxBackups int  `mapstructure:"max_backups"`
	MaxAge     int  `mapstructure:"max_age"`
	Compress   bool `mapstructure:"compress"`
}

// OutputConfig 输出配置
type OutputConfig struct {
	BaseDir string `mapstructure:"base_dir"`
}

// ScheduleConfig 定时爬取配置
type ScheduleConfig struct {
	Cron       string `mapstructure:"cron"`
	RunOnStart bool   `mapstructure:"run_on_start"`
}

// LoadConfig 加载配置文件
// 优先级: 默认值 < 配置文件 < 环境变量(.env也会被加载)
func LoadConfig(configPath string) (*Config, error) {
	// .env 不存在时忽略
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, &models.ConfigError{FilePath: ".env", Cause: err}
	}

	v := viper.New()

	if configPath != "" {
		if err := checkConfigFileSize(configPath); err != nil {
			return nil, err
		}
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		v.AddConfigPath("./configs")
		v.AddConfigPath(".")

		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".newscrawler"))
		}
	}

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, &models.ConfigError{FilePath: configPath, Cause: fmt.Errorf("读取配置文件失败: %w", err)}
		}
		// 配置文件不存在,使用默认值
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, &models.ConfigError{FilePath: v.ConfigFileUsed(), Cause: fmt.Errorf("解析配置文件失败: %w", err)}
	}

	return &config, nil
}

// checkConfigFileSize 拒绝过大的配置文件
func checkConfigFileSize(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return &models.ConfigError{FilePath: path, Cause: fmt.Errorf("无法读取配置文件信息: %w", err)}
	}
	if info.Size() > MaxConfigFileSize {
		return &models.ConfigError{
			FilePath: path,
			Cause:    fmt.Errorf("配置文件过大: %d 字节 (最大 %d 字节)", info.Size(), MaxConfigFileSize),
		}
	}
	return nil
}

// setDefaults 设置默认配置值
func setDefaults(v *viper.Viper) {
	// 站点
	v.SetDefault("site.listing_url_template", DefaultListingURLTemplate)
	v.SetDefault("site.first_page", 1)
	v.SetDefault("site.last_page", 50)

	// 爬取
	v.SetDefault("crawl.max_workers", 10)
	v.SetDefault("crawl.request_timeout", 30)
	v.SetDefault("crawl.rate_limit", 0)
	v.SetDefault("crawl.graph_index", 5)
	v.SetDefault("crawl.user_agent", DefaultUserAgent)

	v.SetDefault("http.headers", map[string]string{})

	// 存储
	v.SetDefault("storage.driver", storage.DriverMongo)
	v.SetDefault("storage.uri", "mongodb://localhost:27017")
	v.SetDefault("storage.database", "db_news")
	v.SetDefault("storage.connect_timeout", 10)

	// 分析与图表
	v.SetDefault("analysis.top_n", 10)
	v.SetDefault("chart.output", chart.DefaultOutput)
	v.SetDefault("chart.width", chart.DefaultWidth)
	v.SetDefault("chart.height", chart.DefaultHeight)
	v.SetDefault("chart.title", "")

	// 输出
	v.SetDefault("output.base_dir", "output")

	// 日志
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.log_dir", "logs")
	v.SetDefault("logging.rotation.max_size", 10)
	v.SetDefault("logging.rotation.max_backups", 3)
	v.SetDefault("logging.rotation.max_age", 28)
	v.SetDefault("logging.rotation.compress", true)

	// 定时任务
	v.SetDefault("schedule.cron", "0 */6 * * *")
	v.SetDefault("schedule.run_on_start", false)
}

// CrawlConfig 从配置中提取爬取配置
func (c *Config) CrawlConfig() models.CrawlConfig {
	return models.CrawlConfig{
		ListingURLTemplate: c.Site.ListingURLTemplate,
		FirstPage:          c.Site.FirstPage,
		LastPage:           c.Site.LastPage,
		MaxWorkers:         c.Crawl.MaxWorkers,
		RequestTimeout:     c.Crawl.RequestTimeout,
		RateLimit:          c.Crawl.RateLimit,
		GraphIndex:         c.Crawl.GraphIndex,
		TopN:               c.Analysis.TopN,
	}
}

// Validate 验证合并后的配置
func (c *Config) Validate() error {
	crawl := c.CrawlConfig()
	if err := crawl.Validate(); err != nil {
		return fmt.Errorf("爬取配置无效: %w", err)
	}
	if err := c.Storage.Validate(); err != nil {
		return fmt.Errorf("存储配置无效: %w", err)
	}
	return nil
}

// MergeCLIFlags 合并命令行参数到配置
// 零值表示未指定,保留配置文件中的值
func (c *Config) MergeCLIFlags(workers, firstPage, lastPage, timeout, topN int, dryRun bool) {
	if workers > 0 {
		c.Crawl.MaxWorkers = workers
	}
	if firstPage > 0 {
		c.Site.FirstPage = firstPage
	}
	if lastPage > 0 {
		c.Site.LastPage = lastPage
	}
	if timeout > 0 {
		c.Crawl.RequestTimeout = timeout
	}
	if topN > 0 {
		c.Analysis.TopN = topN
	}
	if dryRun {
		c.Storage.Driver = storage.DriverMemory
	}
}
