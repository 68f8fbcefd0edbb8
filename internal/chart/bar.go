// Package chart 词频柱状图
package chart

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/RecoveryAshes/newscrawler/internal/models"
	gochart "github.com/wcharczuk/go-chart/v2"
)

// 默认输出参数
const (
	DefaultOutput = "graph.png"
	DefaultWidth  = 1024
	DefaultHeight = 512
)

// Config 图表配置
type Config struct {
	Output string `mapstructure:"output"`
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
	Title  string `mapstructure:"title"`
}

// BarRenderer 将词频渲染为PNG柱状图,每个词一根柱子
type BarRenderer struct {
	config Config
}

// NewBarRenderer 创建柱状图渲染器,未设置的字段使用默认值
func NewBarRenderer(config Config) *BarRenderer {
	if config.Output == "" {
		config.Output = DefaultOutput
	}
	if config.Width <= 0 {
		config.Width = DefaultWidth
	}
	if config.Height <= 0 {
		config.Height = DefaultHeight
	}
	return &BarRenderer{config: config}
}

// Output 图表输出路径
func (r *BarRenderer) Output() string {
	return r.config.Output
}

// Render 绘制并覆盖写入输出文件
func (r *BarRenderer) Render(entries []models.WordFrequencyEntry) (string, error) {
	if len(entries) == 0 {
		return "", fmt.Errorf("没有可绘制的词频")
	}

	if dir := filepath.Dir(r.config.Output); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("创建图表目录失败: %w", err)
		}
	}

	file, err := os.Create(r.config.Output)
	if err != nil {
		return "", fmt.Errorf("创建图表文件失败: %w", err)
	}
	defer file.Close()

	if err := r.barChart(entries).Render(gochart.PNG, file); err != nil {
		return "", fmt.Errorf("渲染图表失败: %w", err)
	}
	return r.config.Output, nil
}

func (r *BarRenderer) barChart(entries []models.WordFrequencyEntry) gochart.BarChart {
	bars := make([]gochart.Value, 0, len(entries))
	maxCount := 0
	for _, e := range entries {
		bars = append(bars, gochart.Value{Value: float64(e.Count), Label: e.Word})
		if e.Count > maxCount {
			maxCount = e.Count
		}
	}

	// 柱宽随词数缩放,保证所有柱子放得下
	barWidth := (r.config.Width - 100) / (len(entries) * 2)
	if barWidth < 8 {
		barWidth = 8
	}

	return gochart.BarChart{
		Title:    r.config.Title,
		Width:    r.config.Width,
		Height:   r.config.Height,
		BarWidth: barWidth,
		YAxis: gochart.YAxis{
			// 所有词次数相同时自动范围为零宽度,这里固定从0开始
			Range: &gochart.ContinuousRange{Min: 0, Max: float64(maxCount) * 1.1},
		},
		Bars: bars,
	}
}
