// Package store 提供无模式、按集合组织的 JSON 文档存储
//
// 每个集合（collection）是一个以 id 为键的文档桶，在首次访问时透明创建，
// 没有预定义的模式注册表。接口契约：
//   - Put: 按文档的 "id" 字段 upsert，缺失时生成 UUID
//   - Get: 按 id 读取，未命中返回 found=false 而非错误
//   - GetAll: 返回集合内全部文档（按 id 排序）
//   - Delete: 按 id 删除，删除不存在的文档不报错
//
// 已知限制（刻意不掩盖）：跨集合没有事务性，进程在一串写入中途终止时
// 可能观察到部分生效；同一 id 的并发写入为 last-writer-wins。
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Store 集合式文档存储接口
//
// 所有实现保证：同一调用方对同一 id 的写入按发出顺序生效。
type Store interface {
	// Put 按文档的 id 字段 upsert，返回实际使用的 id（缺失时生成）
	Put(ctx context.Context, collection string, item any) (string, error)

	// Get 按 id 读取文档并反序列化到 out；未命中返回 (false, nil)
	Get(ctx context.Context, collection, id string, out any) (bool, error)

	// GetAll 读取集合内全部文档到 out（指向切片的指针），按 id 排序
	GetAll(ctx context.Context, collection string, out any) error

	// Delete 按 id 删除文档；文档不存在时不报错
	Delete(ctx context.Context, collection, id string) error

	// Close 释放底层资源
	Close() error
}

// encodeItem 序列化文档并确保 "id" 字段存在
//
// item 必须能序列化为 JSON 对象；id 缺失或为空时生成 UUID 并写回文档。
func encodeItem(item any) (string, []byte, error) {
	raw, err := json.Marshal(item)
	if err != nil {
		return "", nil, fmt.Errorf("marshal item: %w", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return "", nil, fmt.Errorf("item must encode to a JSON object: %w", err)
	}

	id, _ := doc["id"].(string)
	if id == "" {
		id = uuid.New().String()
		doc["id"] = id
		raw, err = json.Marshal(doc)
		if err != nil {
			return "", nil, fmt.Errorf("re-marshal item with generated id: %w", err)
		}
	}

	return id, raw, nil
}

// decodeList 将一组原始文档反序列化到 out（指向切片的指针）
func decodeList(raws [][]byte, out any) error {
	items := make([]json.RawMessage, len(raws))
	for i, raw := range raws {
		items[i] = json.RawMessage(raw)
	}

	buf, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("assemble document list: %w", err)
	}
	if err := json.Unmarshal(buf, out); err != nil {
		return fmt.Errorf("decode document list: %w", err)
	}
	return nil
}
