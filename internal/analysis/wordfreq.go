// Package analysis 新闻正文的词频统计
package analysis

import (
	"context"
	"sort"
	"strings"

	"github.com/RecoveryAshes/newscrawler/internal/models"
	"github.com/RecoveryAshes/newscrawler/internal/storage"
	"github.com/RecoveryAshes/newscrawler/internal/utils"
)

// DefaultTopN 未指定时返回的词数
const DefaultTopN = 10

// ChartRenderer 词频图表输出
type ChartRenderer interface {
	Render(entries []models.WordFrequencyEntry) (string, error)
}

// TopWords 统计出现次数最多的n个词
// 文本以单个空格拼接后按空白切分,词不做大小写或标点处理
// 次数相同时按首次出现的顺序排列
func TopWords(texts []string, n int) []models.WordFrequencyEntry {
	if n <= 0 {
		n = DefaultTopN
	}

	counts := make(map[string]int)
	var order []string
	for _, word := range strings.Fields(strings.Join(texts, " ")) {
		if _, seen := counts[word]; !seen {
			order = append(order, word)
		}
		counts[word]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > n {
		order = order[:n]
	}
	entries := make([]models.WordFrequencyEntry, 0, len(order))
	for _, word := range order {
		entries = append(entries, models.WordFrequencyEntry{Word: word, Count: counts[word]})
	}
	return entries
}

// WordFrequencyAnalyzer 计算词频并持久化、绘图
type WordFrequencyAnalyzer struct {
	store    storage.Store
	renderer ChartRenderer
	topN     int
}

// NewWordFrequencyAnalyzer 创建词频分析器,renderer为nil时不绘图
func NewWordFrequencyAnalyzer(store storage.Store, renderer ChartRenderer, topN int) *WordFrequencyAnalyzer {
	if topN <= 0 {
		topN = DefaultTopN
	}
	return &WordFrequencyAnalyzer{
		store:    store,
		renderer: renderer,
		topN:     topN,
	}
}

// Analyze 计算词频,替换word_frequency集合的内容并输出图表
// 存储和绘图错误只记录日志,不影响返回的统计结果
func (a *WordFrequencyAnalyzer) Analyze(ctx context.Context, texts []string) []models.WordFrequencyEntry {
	entries := TopWords(texts, a.topN)
	utils.Infof("📊 词频统计完成: %d 篇文章, 前 %d 个词", len(texts), len(entries))

	if err := a.store.DeleteAll(ctx, storage.CollectionWordFrequency); err != nil {
		utils.Logger.Error().Err(err).Str("collection", storage.CollectionWordFrequency).Msg("清空词频集合失败")
	}
	if len(entries) > 0 {
		if err := a.store.InsertMany(ctx, storage.CollectionWordFrequency, storage.WordFrequencyDocuments(entries)); err != nil {
			utils.Logger.Error().Err(err).Str("collection", storage.CollectionWordFrequency).Msg("保存词频失败")
		}
	}

	if a.renderer == nil {
		return entries
	}
	if len(entries) == 0 {
		utils.Warn("没有词频数据,跳过图表")
		return entries
	}
	path, err := a.renderer.Render(entries)
	if err != nil {
		utils.Errorf("生成词频图表失败: %v", err)
		return entries
	}
	utils.Infof("📈 词频图表已保存: %s", path)
	return entries
}

// NewsTexts 从news集合的文档中取出正文字段
func NewsTexts(docs []storage.Document) []string {
	texts := make([]string, 0, len(docs))
	for _, doc := range docs {
		if text, ok := doc["text"].(string); ok {
			texts = append(texts, text)
		}
	}
	return texts
}
