package crawlers

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/RecoveryAshes/newscrawler/internal/models"
	"github.com/RecoveryAshes/newscrawler/internal/utils"
)

// DefaultGraphIndex rank-math生成的@graph中文章节点的固定位置
const DefaultGraphIndex = 5

// timestampLayouts JSON-LD中出现过的时间戳格式
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
}

type structuredData struct {
	Graph []json.RawMessage `json:"@graph"`
}

type dateNode struct {
	DatePublished string `json:"datePublished"`
	DateModified  string `json:"dateModified"`
}

// ArticleDates 从JSON-LD中读取的发布/更新日期 (YYYY-MM-DD)
type ArticleDates struct {
	Published string
	Modified  string
}

// ParseArticleDates 解析schema.org JSON-LD,读取@graph[index]的日期
// 该位置不含datePublished时,按字段查找第一个带日期的节点
func ParseArticleDates(raw string, index int) (ArticleDates, error) {
	var data structuredData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return ArticleDates{}, fmt.Errorf("JSON-LD格式错误: %w", err)
	}
	if len(data.Graph) == 0 {
		return ArticleDates{}, fmt.Errorf("JSON-LD缺少@graph")
	}

	node, ok := graphNodeAt(data.Graph, index)
	if !ok {
		found := false
		for i := range data.Graph {
			if node, ok = graphNodeAt(data.Graph, i); ok {
				utils.Debugf("@graph[%d]没有日期,使用@graph[%d]", index, i)
				found = true
				break
			}
		}
		if !found {
			return ArticleDates{}, fmt.Errorf("@graph中没有包含datePublished的节点")
		}
	}

	published, err := FormatDate(node.DatePublished)
	if err != nil {
		return ArticleDates{}, fmt.Errorf("datePublished: %w", err)
	}
	modified, err := FormatDate(node.DateModified)
	if err != nil {
		return ArticleDates{}, fmt.Errorf("dateModified: %w", err)
	}
	return ArticleDates{Published: published, Modified: modified}, nil
}

func graphNodeAt(graph []json.RawMessage, index int) (dateNode, bool) {
	if index < 0 || index >= len(graph) {
		return dateNode{}, false
	}
	var node dateNode
	if err := json.Unmarshal(graph[index], &node); err != nil {
		return dateNode{}, false
	}
	return node, node.DatePublished != ""
}

// FormatDate 将带时区偏移的ISO-8601时间戳转换为 YYYY-MM-DD
// 日期按时间戳自身的偏移计算,不转换为本地时区
func FormatDate(timestamp string) (string, error) {
	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, timestamp)
		if err == nil {
			return t.Format(models.DateLayout), nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("无法解析时间戳 %q: %w", timestamp, lastErr)
}
