package main

import (
	"fmt"

	"github.com/RecoveryAshes/newscrawler/internal/analysis"
	"github.com/RecoveryAshes/newscrawler/internal/core"
	"github.com/RecoveryAshes/newscrawler/internal/storage"
	"github.com/RecoveryAshes/newscrawler/internal/utils"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

var (
	cronSpec   string
	runOnStart bool
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "显示版本信息",
	// 不需要加载配置
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("newscrawler %s\n", Version)
		fmt.Printf("构建时间: %s\n", BuildTime)
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "按更新日期输出已保存新闻的分组报告",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd.Context(), appConfig, headers)
		if err != nil {
			return err
		}
		defer app.Close()

		groups, err := core.UpdateDateReport(cmd.Context(), app.store)
		if err != nil {
			return fmt.Errorf("分组统计失败: %w", err)
		}
		if len(groups) == 0 {
			utils.Warn("news集合中没有数据")
			return nil
		}
		app.reporter.PrintGroups(groups)
		return nil
	},
}

var wordsCmd = &cobra.Command{
	Use:   "words",
	Short: "根据已保存的新闻重新统计高频词并生成图表",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd.Context(), appConfig, headers)
		if err != nil {
			return err
		}
		defer app.Close()

		docs, err := app.store.FindAll(cmd.Context(), storage.CollectionNews)
		if err != nil {
			return fmt.Errorf("读取新闻失败: %w", err)
		}
		entries := app.analyzer.Analyze(cmd.Context(), analysis.NewsTexts(docs))
		if len(entries) == 0 {
			utils.Warn("没有可统计的新闻正文")
			return nil
		}
		app.reporter.PrintTopWords(entries)
		return nil
	},
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "按cron表达式定时执行爬取",
	Long: `按cron表达式定时执行完整爬取,直到收到中断信号。
上一次爬取未结束时跳过本次触发。

示例:
  newscrawler schedule --cron "0 */6 * * *"
  newscrawler schedule --cron "@hourly" --run-on-start -p 1-10`,
	RunE: func(cmd *cobra.Command, args []string) error {
		spec := appConfig.Schedule.Cron
		if cmd.Flags().Changed("cron") {
			spec = cronSpec
		}
		if spec == "" {
			return fmt.Errorf("未设置cron表达式 (schedule.cron 或 --cron)")
		}
		if _, err := cron.ParseStandard(spec); err != nil {
			return fmt.Errorf("无效的cron表达式 %q: %w", spec, err)
		}

		app, err := newApp(cmd.Context(), appConfig, headers)
		if err != nil {
			return err
		}
		defer app.Close()

		ctx := cmd.Context()
		crawlConfig := appConfig.CrawlConfig()
		runOnce := func() {
			utils.Infof("🕐 定时爬取开始")
			summary, err := app.Scheduler(false).RunCrawl(ctx, crawlConfig.Pages(), crawlConfig.MaxWorkers)
			if err != nil {
				utils.Errorf("❌ 定时爬取失败: %v", err)
				return
			}
			utils.Infof("✅ 定时爬取完成: 成功 %d 篇, 失败 %d 篇", summary.TotalSuccess, summary.TotalFailed)
		}

		c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
		if _, err := c.AddFunc(spec, runOnce); err != nil {
			return fmt.Errorf("添加定时任务失败: %w", err)
		}

		if runOnStart || appConfig.Schedule.RunOnStart {
			runOnce()
		}

		c.Start()
		utils.Infof("📅 定时爬取已启动: %s", spec)

		<-ctx.Done()
		utils.Warn("收到中断信号,等待当前爬取结束...")
		<-c.Stop().Done()
		return nil
	},
}

func init() {
	scheduleCmd.Flags().StringVar(&cronSpec, "cron", "", "cron表达式 (默认使用配置文件 schedule.cron)")
	scheduleCmd.Flags().BoolVar(&runOnStart, "run-on-start", false, "启动时立即执行一次")
}
