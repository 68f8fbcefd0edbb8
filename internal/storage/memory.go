package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
)

// MemoryStore 进程内存储
// 文档以bson编码保存,字段名与MongoStore完全一致
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string][]bson.Raw
	closed      bool
}

// NewMemoryStore 创建内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string][]bson.Raw)}
}

func (m *MemoryStore) InsertMany(ctx context.Context, collection string, docs []any) error {
	if len(docs) == 0 {
		return storageError("insert_many", collection, fmt.Errorf("文档列表为空"))
	}
	encoded := make([]bson.Raw, 0, len(docs))
	for i, doc := range docs {
		raw, err := bson.Marshal(doc)
		if err != nil {
			return storageError("insert_many", collection, fmt.Errorf("编码第%d个文档失败: %w", i, err))
		}
		encoded = append(encoded, raw)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return storageError("insert_many", collection, errStoreClosed)
	}
	m.collections[collection] = append(m.collections[collection], encoded...)
	return nil
}

func (m *MemoryStore) InsertOne(ctx context.Context, collection string, doc any) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return storageError("insert_one", collection, fmt.Errorf("编码文档失败: %w", err))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return storageError("insert_one", collection, errStoreClosed)
	}
	m.collections[collection] = append(m.collections[collection], raw)
	return nil
}

func (m *MemoryStore) DeleteAll(ctx context.Context, collection string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return storageError("delete_all", collection, errStoreClosed)
	}
	delete(m.collections, collection)
	return nil
}

// FindAll 按插入顺序返回集合中所有文档的副本
func (m *MemoryStore) FindAll(ctx context.Context, collection string) ([]Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, storageError("find_all", collection, errStoreClosed)
	}

	raws := m.collections[collection]
	docs := make([]Document, 0, len(raws))
	for _, raw := range raws {
		var doc Document
		if err := bson.Unmarshal(raw, &doc); err != nil {
			return nil, storageError("find_all", collection, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (m *MemoryStore) Aggregate(ctx context.Context, collection string, groupBy string, push []string) ([]Group, error) {
	docs, err := m.FindAll(ctx, collection)
	if err != nil {
		return nil, storageError("aggregate", collection, err)
	}

	index := make(map[string]*Group)
	for _, doc := range docs {
		key := fmt.Sprint(doc[groupBy])
		if doc[groupBy] == nil {
			key = ""
		}
		g, ok := index[key]
		if !ok {
			g = &Group{Key: key}
			index[key] = g
		}
		item := make(Document, len(push))
		for _, field := range push {
			item[field] = doc[field]
		}
		g.Count++
		g.Items = append(g.Items, item)
	}

	groups := make([]Group, 0, len(index))
	for _, g := range index {
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Key < groups[j].Key })
	return groups, nil
}

func (m *MemoryStore) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Count 集合中的文档数
func (m *MemoryStore) Count(collection string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.collections[collection])
}

var errStoreClosed = fmt.Errorf("存储已关闭")
