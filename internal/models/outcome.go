package models

import (
	"time"
)

// StatsDateLayout 统计记录中date字段的格式
const StatsDateLayout = "2006-01-02 15:04"

// CrawlOutcome 单个列表页的爬取结果
// 每页一个实例,页与页之间不共享可变状态
type CrawlOutcome struct {
	PageNumber     int           `json:"page"`
	Elapsed        time.Duration `json:"elapsed"`
	TotalAttempted int           `json:"count"`
	SuccessCount   int           `json:"success_count"`
	FailCount      int           `json:"fail_count"`
}

// Consistent 成功数+失败数必须等于尝试总数
func (o CrawlOutcome) Consistent() bool {
	return o.SuccessCount+o.FailCount == o.TotalAttempted
}

// StatsRecord stats集合中的持久化形式
type StatsRecord struct {
	RunID        string  `json:"run_id" bson:"run_id"`
	Page         int     `json:"page" bson:"page"`
	ElapsedTime  float64 `json:"elapsed_time" bson:"elapsed_time"` // 秒
	Count        int     `json:"count" bson:"count"`
	Date         string  `json:"date" bson:"date"`
	SuccessCount int     `json:"success_count" bson:"success_count"`
	FailCount    int     `json:"fail_count" bson:"fail_count"`
}

// NewStatsRecord 由CrawlOutcome生成统计记录
func NewStatsRecord(runID string, o CrawlOutcome, now time.Time) StatsRecord {
	return StatsRecord{
		RunID:        runID,
		Page:         o.PageNumber,
		ElapsedTime:  o.Elapsed.Seconds(),
		Count:        o.TotalAttempted,
		Date:         now.Format(StatsDateLayout),
		SuccessCount: o.SuccessCount,
		FailCount:    o.FailCount,
	}
}

// WordFrequencyEntry 词频条目
type WordFrequencyEntry struct {
	Word  string `json:"word" bson:"word"`
	Count int    `json:"count" bson:"count"`
}
