package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout 文章日期的存储格式 (年-月-日, 补零)
const DateLayout = "2006-01-02"

// ArticleRecord 单篇新闻的结构化结果
// 由FieldExtractor构建,构建后不再修改,交给存储层之前归调用方所有
type ArticleRecord struct {
	URL         string   `json:"url" bson:"url"`                   // 文章URL (自然标识,不强制唯一)
	Header      string   `json:"header" bson:"header"`             // 标题
	Summary     string   `json:"summary" bson:"summary"`           // 摘要
	Body        string   `json:"text" bson:"text"`                 // 正文(段落以单个空格拼接)
	ImageURLs   []string `json:"img_url_list" bson:"img_url_list"` // 图片懒加载地址,保持文档顺序
	PublishDate string   `json:"publish_date" bson:"publish_date"` // 发布日期 YYYY-MM-DD
	UpdateDate  string   `json:"update_date" bson:"update_date"`   // 更新日期 YYYY-MM-DD
}

// Validate 检查必填字段
func (a *ArticleRecord) Validate() error {
	if a.URL == "" {
		return fmt.Errorf("文章URL不能为空")
	}
	if a.Header == "" {
		return fmt.Errorf("文章标题不能为空: %s", a.URL)
	}
	for _, d := range []string{a.PublishDate, a.UpdateDate} {
		if _, err := time.Parse(DateLayout, d); err != nil {
			return fmt.Errorf("日期格式无效 [%s]: %q", a.URL, d)
		}
	}
	return nil
}

// ToJSON 序列化为JSON
func (a *ArticleRecord) ToJSON() ([]byte, error) {
	return json.MarshalIndent(a, "", "  ")
}

// ListingPage 一个列表页的解析结果,只在单次爬取迭代内存在
type ListingPage struct {
	PageNumber  int
	ArticleURLs []string
}
