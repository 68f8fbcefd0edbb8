package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/RecoveryAshes/newscrawler/internal/core"
	"github.com/RecoveryAshes/newscrawler/internal/utils"
	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

// 命令行参数
var (
	// 全局参数
	configFile string
	verbose    bool
	logLevel   string
	headers    []string // 自定义HTTP请求头
	dryRun     bool

	// 爬取参数
	workers   int
	pageRange string
	timeout   int
	topN      int
)

// appConfig 在PersistentPreRunE中加载,所有子命令共享
var appConfig *core.Config

var rootCmd = &cobra.Command{
	Use:   "newscrawler",
	Short: "新闻列表页并发爬取和词频分析工具",
	Long: `newscrawler - 新闻站点爬取工具

按页码范围并发爬取新闻列表页,提取每篇文章的标题、摘要、正文、图片和日期,
写入MongoDB后统计正文高频词并生成柱状图,最后按更新日期输出分组报告。

示例:
  # 爬取默认范围 (1-50页, 10个worker)
  newscrawler

  # 爬取第1-5页, 4个worker, 只在内存中保存
  newscrawler -p 1-5 -t 4 --dry-run

  # 自定义HTTP头部
  newscrawler -H "User-Agent: NewsBot/1.0" -H "Cookie: consent=1"

  # 查看已保存新闻的分组报告
  newscrawler report

版本: ` + Version + `
构建时间: ` + BuildTime,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config, err := core.LoadConfig(configFile)
		if err != nil {
			return fmt.Errorf("加载配置失败: %w", err)
		}

		logConfig := utils.LogConfig{
			Level:      config.Logging.Level,
			LogDir:     config.Logging.LogDir,
			MaxSize:    config.Logging.Rotation.MaxSize,
			MaxBackups: config.Logging.Rotation.MaxBackups,
			MaxAge:     config.Logging.Rotation.MaxAge,
			Compress:   config.Logging.Rotation.Compress,
		}

		// 命令行参数覆盖配置文件
		if logLevel != "" {
			logConfig.Level = logLevel
		}
		if verbose {
			logConfig.Level = "debug"
		}

		if err := utils.InitLogger(logConfig); err != nil {
			return fmt.Errorf("初始化日志系统失败: %w", err)
		}

		if err := applyFlags(cmd, config); err != nil {
			return err
		}

		appConfig = config
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd.Context(), appConfig, headers)
		if err != nil {
			return err
		}
		defer app.Close()

		crawlConfig := appConfig.CrawlConfig()
		summary, err := app.Scheduler(true).RunCrawl(cmd.Context(), crawlConfig.Pages(), crawlConfig.MaxWorkers)
		if err != nil {
			return fmt.Errorf("爬取失败: %w", err)
		}

		utils.Infof("✨ 爬取任务完成! 成功 %d 篇, 失败 %d 篇", summary.TotalSuccess, summary.TotalFailed)
		return nil
	},
}

// applyFlags 校验命令行参数并合并到配置
func applyFlags(cmd *cobra.Command, config *core.Config) error {
	firstPage, lastPage := 0, 0
	if cmd.Flags().Changed("pages") {
		var err error
		firstPage, lastPage, err = utils.ParsePageRange(pageRange)
		if err != nil {
			return fmt.Errorf("无效的页码范围: %w", err)
		}
	}

	if err := ValidateFlags(workers, timeout, topN); err != nil {
		return err
	}

	config.MergeCLIFlags(workers, firstPage, lastPage, timeout, topN, dryRun)
	if err := config.Validate(); err != nil {
		return fmt.Errorf("配置验证失败: %w", err)
	}
	return nil
}

func init() {
	// 全局参数
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "配置文件路径")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "详细输出模式 (等同于 --log-level debug)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "日志级别 (trace|debug|info|warn|error)")
	rootCmd.PersistentFlags().StringSliceVarP(&headers, "header", "H", []string{}, "自定义HTTP头部,格式: 'Name: Value',可多次指定")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "使用内存存储,不写入MongoDB")

	// 爬取参数
	rootCmd.PersistentFlags().IntVarP(&workers, "workers", "t", 0, "并发worker数 (1-100, 默认使用配置文件)")
	rootCmd.PersistentFlags().StringVarP(&pageRange, "pages", "p", "", "页码范围,格式 'N' 或 'A-B' (默认使用配置文件)")
	rootCmd.PersistentFlags().IntVar(&timeout, "timeout", 0, "单个HTTP请求超时(秒)")
	rootCmd.PersistentFlags().IntVar(&topN, "top", 0, "词频统计保留前N个词")

	rootCmd.AddCommand(versionCmd, reportCmd, wordsCmd, scheduleCmd)
}

func main() {
	// Ctrl+C 停止分发新页面,已开始的页面照常写入
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		stop()
		os.Exit(1)
	}
}
