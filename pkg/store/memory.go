package store

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
)

// Memory 内存存储实现
//
// 集合为惰性创建的 map，由单一锁保护创建与读写。
// 适合测试和单进程短生命周期场景；进程退出即丢失。
type Memory struct {
	mu          sync.RWMutex
	collections map[string]map[string][]byte
}

// NewMemory 创建内存存储
func NewMemory() *Memory {
	return &Memory{
		collections: make(map[string]map[string][]byte),
	}
}

// Put 实现 Store 接口
func (m *Memory) Put(_ context.Context, collection string, item any) (string, error) {
	id, raw, err := encodeItem(item)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	coll, ok := m.collections[collection]
	if !ok {
		// 首次写入时透明创建集合
		coll = make(map[string][]byte)
		m.collections[collection] = coll
	}
	coll[id] = raw
	return id, nil
}

// Get 实现 Store 接口
func (m *Memory) Get(_ context.Context, collection, id string, out any) (bool, error) {
	m.mu.RLock()
	raw, ok := m.collections[collection][id]
	m.mu.RUnlock()

	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, err
	}
	return true, nil
}

// GetAll 实现 Store 接口
func (m *Memory) GetAll(_ context.Context, collection string, out any) error {
	m.mu.RLock()
	coll := m.collections[collection]
	ids := make([]string, 0, len(coll))
	for id := range coll {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	raws := make([][]byte, 0, len(ids))
	for _, id := range ids {
		raws = append(raws, coll[id])
	}
	m.mu.RUnlock()

	return decodeList(raws, out)
}

// Delete 实现 Store 接口
func (m *Memory) Delete(_ context.Context, collection, id string) error {
	m.mu.Lock()
	if coll, ok := m.collections[collection]; ok {
		delete(coll, id)
	}
	m.mu.Unlock()
	return nil
}

// Close 实现 Store 接口
func (m *Memory) Close() error {
	m.mu.Lock()
	m.collections = make(map[string]map[string][]byte)
	m.mu.Unlock()
	return nil
}

// 确保 Memory 实现了 Store 接口
var _ Store = (*Memory)(nil)
