package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/RecoveryAshes/newscrawler/internal/models"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/schollz/progressbar/v3"
)

// Reporter 报告生成器
type Reporter struct {
	outputDir string
	out       io.Writer
}

// NewReporter 创建报告生成器
// out 为nil时输出到标准输出
func NewReporter(outputDir string, out io.Writer) *Reporter {
	if out == nil {
		out = os.Stdout
	}
	return &Reporter{
		outputDir: outputDir,
		out:       out,
	}
}

// SaveSummary 保存运行汇总JSON,返回文件路径
func (r *Reporter) SaveSummary(summary *models.RunSummary) (string, error) {
	if err := os.MkdirAll(r.outputDir, 0755); err != nil {
		return "", fmt.Errorf("创建报告目录失败: %w", err)
	}

	data, err := summary.ToJSON()
	if err != nil {
		return "", fmt.Errorf("序列化JSON失败: %w", err)
	}

	path := filepath.Join(r.outputDir, fmt.Sprintf("run_%s.json", summary.RunID))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("写入报告文件失败: %w", err)
	}

	Debugf("保存报告: %s", path)
	return path, nil
}

// PrintGroups 打印按更新日期分组的新闻
func (r *Reporter) PrintGroups(groups []models.UpdateDateGroup) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Update Date", "Count", "Header"})

	for _, group := range groups {
		for i, news := range group.News {
			if i == 0 {
				t.AppendRow(table.Row{group.UpdateDate, group.Count, news.Header})
				continue
			}
			t.AppendRow(table.Row{"", "", news.Header})
		}
		t.AppendSeparator()
	}

	t.Render()
}

// PrintSummary 打印每页统计和汇总
func (r *Reporter) PrintSummary(summary *models.RunSummary) {
	outcomes := append([]models.CrawlOutcome(nil), summary.Outcomes...)
	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i].PageNumber < outcomes[j].PageNumber })

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.SetTitle("📊 爬取统计")
	t.AppendHeader(table.Row{"Page", "Elapsed (s)", "Attempted", "Success", "Failed"})
	for _, o := range outcomes {
		t.AppendRow(table.Row{o.PageNumber, fmt.Sprintf("%.2f", o.Elapsed.Seconds()), o.TotalAttempted, o.SuccessCount, o.FailCount})
	}
	t.AppendFooter(table.Row{"Total", fmt.Sprintf("%.2f", summary.Duration), summary.TotalAttempted, summary.TotalSuccess, summary.TotalFailed})
	t.Render()

	if len(summary.TopWords) > 0 {
		r.PrintTopWords(summary.TopWords)
	}
}

// PrintTopWords 打印高频词表
func (r *Reporter) PrintTopWords(entries []models.WordFrequencyEntry) {
	w := table.NewWriter()
	w.SetOutputMirror(r.out)
	w.SetStyle(table.StyleLight)
	w.SetTitle("🔤 高频词")
	w.AppendHeader(table.Row{"#", "Word", "Count"})
	for i, entry := range entries {
		w.AppendRow(table.Row{i + 1, entry.Word, entry.Count})
	}
	w.Render()
}

// NewProgressBar 创建进度条
func NewProgressBar(max int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(max,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}
