// Package storage 文档存储层
//
// 爬虫只依赖Store接口: MongoStore用于正式运行,MemoryStore用于测试和 --dry-run。
// 两者的字段名都来自bson标签,因此存入的文档结构一致。
package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/RecoveryAshes/newscrawler/internal/models"
	"go.mongodb.org/mongo-driver/bson"
)

// 集合名称
const (
	CollectionNews          = "news"
	CollectionStats         = "stats"
	CollectionWordFrequency = "word_frequency"
)

// 存储驱动
const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

// Document 从存储读出的一条文档
type Document = bson.M

// Group 分组聚合的一行: 按Key升序
type Group struct {
	Key   string
	Count int
	Items []Document
}

// Store 文档存储接口,必须能承受多个worker并发写入
type Store interface {
	InsertMany(ctx context.Context, collection string, docs []any) error
	InsertOne(ctx context.Context, collection string, doc any) error
	DeleteAll(ctx context.Context, collection string) error
	FindAll(ctx context.Context, collection string) ([]Document, error)
	// Aggregate 按groupBy字段分组,统计数量并收集push字段,结果按分组键升序
	Aggregate(ctx context.Context, collection string, groupBy string, push []string) ([]Group, error)
	Close(ctx context.Context) error
}

// Config 存储配置
type Config struct {
	Driver         string `mapstructure:"driver"`
	URI            string `mapstructure:"uri"`
	Database       string `mapstructure:"database"`
	ConnectTimeout int    `mapstructure:"connect_timeout"` // 秒
}

// Validate 验证存储配置
func (c Config) Validate() error {
	switch strings.ToLower(c.Driver) {
	case DriverMemory:
		return nil
	case DriverMongo:
		if c.URI == "" {
			return fmt.Errorf("mongo驱动需要设置storage.uri")
		}
		if c.Database == "" {
			return fmt.Errorf("mongo驱动需要设置storage.database")
		}
		if c.ConnectTimeout < 0 {
			return fmt.Errorf("storage.connect_timeout不能为负数: %d", c.ConnectTimeout)
		}
		return nil
	default:
		return fmt.Errorf("不支持的存储驱动: %q (可选 %s|%s)", c.Driver, DriverMongo, DriverMemory)
	}
}

// Timeout 连接超时,未设置时为10秒
func (c Config) Timeout() time.Duration {
	if c.ConnectTimeout <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.ConnectTimeout) * time.Second
}

// Open 根据配置创建存储
func Open(ctx context.Context, config Config) (Store, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("存储配置无效: %w", err)
	}
	if strings.ToLower(config.Driver) == DriverMemory {
		return NewMemoryStore(), nil
	}
	return NewMongoStore(ctx, config)
}

// Decode 将文档解码到带bson标签的结构体
func Decode(doc Document, out any) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return fmt.Errorf("编码文档失败: %w", err)
	}
	if err := bson.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("解码文档失败: %w", err)
	}
	return nil
}

// ArticleDocuments 将文章记录转换为InsertMany的参数
func ArticleDocuments(articles []models.ArticleRecord) []any {
	docs := make([]any, 0, len(articles))
	for i := range articles {
		docs = append(docs, articles[i])
	}
	return docs
}

// WordFrequencyDocuments 将词频条目转换为InsertMany的参数
func WordFrequencyDocuments(entries []models.WordFrequencyEntry) []any {
	docs := make([]any, 0, len(entries))
	for i := range entries {
		docs = append(docs, entries[i])
	}
	return docs
}

// UpdateDateGroups 将按update_date聚合的结果转换为报告行
func UpdateDateGroups(groups []Group) []models.UpdateDateGroup {
	result := make([]models.UpdateDateGroup, 0, len(groups))
	for _, g := range groups {
		row := models.UpdateDateGroup{
			UpdateDate: g.Key,
			Count:      g.Count,
			News:       make([]models.GroupedNews, 0, len(g.Items)),
		}
		for _, item := range g.Items {
			header, _ := item["header"].(string)
			updateDate, _ := item["update_date"].(string)
			row.News = append(row.News, models.GroupedNews{Header: header, UpdateDate: updateDate})
		}
		result = append(result, row)
	}
	return result
}

func storageError(op, collection string, err error) error {
	return &models.StorageError{Op: op, Collection: collection, Cause: err}
}
