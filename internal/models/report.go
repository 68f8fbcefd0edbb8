package models

import (
	"encoding/json"
	"time"
)

// GroupedNews 按更新日期分组报告中的单条新闻
type GroupedNews struct {
	Header     string `json:"header"`
	UpdateDate string `json:"update_date"`
}

// UpdateDateGroup 按update_date分组的一行
type UpdateDateGroup struct {
	UpdateDate string        `json:"update_date"`
	Count      int           `json:"count"`
	News       []GroupedNews `json:"news"`
}

// RunSummary 一次完整运行的汇总报告
type RunSummary struct {
	// 运行信息
	RunID     string    `json:"run_id"`
	StartedAt time.Time `json:"started_at"`
	Duration  float64   `json:"duration"` // 秒
	Workers   int       `json:"workers"`
	Pages     []int     `json:"pages"`

	// 统计信息
	Outcomes       []CrawlOutcome `json:"outcomes"`
	TotalAttempted int            `json:"total_attempted"`
	TotalSuccess   int            `json:"total_success"`
	TotalFailed    int            `json:"total_failed"`
	EmptyPages     int            `json:"empty_pages"`

	// 后处理结果
	TopWords []WordFrequencyEntry `json:"top_words"`
	Groups   []UpdateDateGroup    `json:"groups,omitempty"`

	// 资源使用峰值
	PeakMemoryPercent float64 `json:"peak_memory_percent"`
	PeakCPUPercent    float64 `json:"peak_cpu_percent"`
}

// Add 累加单页结果
func (s *RunSummary) Add(o CrawlOutcome) {
	s.Outcomes = append(s.Outcomes, o)
	s.TotalAttempted += o.TotalAttempted
	s.TotalSuccess += o.SuccessCount
	s.TotalFailed += o.FailCount
	if o.SuccessCount == 0 {
		s.EmptyPages++
	}
}

// ToJSON 序列化为JSON
func (s *RunSummary) ToJSON() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// FromJSON 从JSON反序列化
func (s *RunSummary) FromJSON(data []byte) error {
	return json.Unmarshal(data, s)
}
