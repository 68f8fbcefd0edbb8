package storage

import (
	"context"
	"fmt"

	"github.com/RecoveryAshes/newscrawler/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoStore 基于MongoDB的存储
// mongo.Client本身是并发安全的,所有worker共享同一个实例
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoStore 连接MongoDB并验证连通性
func NewMongoStore(ctx context.Context, config Config) (*MongoStore, error) {
	connectCtx, cancel := context.WithTimeout(ctx, config.Timeout())
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().
		ApplyURI(config.URI).
		SetConnectTimeout(config.Timeout()).
		SetServerSelectionTimeout(config.Timeout()))
	if err != nil {
		return nil, fmt.Errorf("连接MongoDB失败: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("MongoDB不可用: %w", err)
	}

	utils.Logger.Info().
		Str("database", config.Database).
		Msg("✅ MongoDB已连接")

	return &MongoStore{
		client: client,
		db:     client.Database(config.Database),
	}, nil
}

func (s *MongoStore) InsertMany(ctx context.Context, collection string, docs []any) error {
	if len(docs) == 0 {
		return storageError("insert_many", collection, fmt.Errorf("文档列表为空"))
	}
	if _, err := s.db.Collection(collection).InsertMany(ctx, docs); err != nil {
		return storageError("insert_many", collection, err)
	}
	return nil
}

func (s *MongoStore) InsertOne(ctx context.Context, collection string, doc any) error {
	if _, err := s.db.Collection(collection).InsertOne(ctx, doc); err != nil {
		return storageError("insert_one", collection, err)
	}
	return nil
}

func (s *MongoStore) DeleteAll(ctx context.Context, collection string) error {
	if _, err := s.db.Collection(collection).DeleteMany(ctx, bson.D{}); err != nil {
		return storageError("delete_all", collection, err)
	}
	return nil
}

func (s *MongoStore) FindAll(ctx context.Context, collection string) ([]Document, error) {
	cursor, err := s.db.Collection(collection).Find(ctx, bson.D{})
	if err != nil {
		return nil, storageError("find_all", collection, err)
	}

	docs := []Document{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, storageError("find_all", collection, err)
	}
	return docs, nil
}

// aggregateRow $group阶段的输出
type aggregateRow struct {
	Key   string     `bson:"_id"`
	Count int        `bson:"count"`
	Items []Document `bson:"items"`
}

func (s *MongoStore) Aggregate(ctx context.Context, collection string, groupBy string, push []string) ([]Group, error) {
	cursor, err := s.db.Collection(collection).Aggregate(ctx, groupPipeline(groupBy, push))
	if err != nil {
		return nil, storageError("aggregate", collection, err)
	}

	var rows []aggregateRow
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, storageError("aggregate", collection, err)
	}

	groups := make([]Group, 0, len(rows))
	for _, row := range rows {
		groups = append(groups, Group{Key: row.Key, Count: row.Count, Items: row.Items})
	}
	return groups, nil
}

// groupPipeline 构建 $group + $sort 聚合管道
func groupPipeline(groupBy string, push []string) mongo.Pipeline {
	pushed := bson.D{}
	for _, field := range push {
		pushed = append(pushed, bson.E{Key: field, Value: "$" + field})
	}
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$" + groupBy},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "items", Value: bson.D{{Key: "$push", Value: pushed}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
}

func (s *MongoStore) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("断开MongoDB失败: %w", err)
	}
	return nil
}
