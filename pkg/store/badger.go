package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
)

// BadgerConfig BadgerDB 存储配置
type BadgerConfig struct {
	// Path 数据目录；InMemory 为 true 时忽略
	Path string
	// InMemory 纯内存模式（无磁盘持久化），用于测试
	InMemory bool
	// SyncWrites 同步写盘保证持久性
	SyncWrites bool
	// Logger 日志器；为 nil 时关闭 BadgerDB 内部日志
	Logger *slog.Logger
}

// DefaultBadgerConfig 生产默认配置
func DefaultBadgerConfig(path string) BadgerConfig {
	return BadgerConfig{
		Path:       path,
		SyncWrites: true,
	}
}

// InMemoryBadgerConfig 测试用内存配置
func InMemoryBadgerConfig() BadgerConfig {
	return BadgerConfig{
		InMemory: true,
	}
}

// Badger BadgerDB 存储实现
//
// 键为 "collection/id"，集合只是键前缀，天然惰性创建。
// GetAll 按键序前缀扫描，因此结果按 id 排序。
type Badger struct {
	db *badger.DB
}

// badgerLogger 将 slog.Logger 适配到 BadgerDB 的 Logger 接口
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// NewBadger 打开 BadgerDB 存储
//
// 持久模式下自动创建数据目录。调用方负责 Close。
func NewBadger(cfg BadgerConfig) (*Badger, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent store")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("create store directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}

	opts = opts.WithSyncWrites(cfg.SyncWrites)
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger store: %w", err)
	}

	return &Badger{db: db}, nil
}

// key 构造 "collection/id" 键
func (b *Badger) key(collection, id string) []byte {
	return []byte(collection + "/" + id)
}

// Put 实现 Store 接口
func (b *Badger) Put(_ context.Context, collection string, item any) (string, error) {
	id, raw, err := encodeItem(item)
	if err != nil {
		return "", err
	}

	err = b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(b.key(collection, id), raw)
	})
	if err != nil {
		return "", fmt.Errorf("put %s/%s: %w", collection, id, err)
	}
	return id, nil
}

// Get 实现 Store 接口
func (b *Badger) Get(_ context.Context, collection, id string, out any) (bool, error) {
	var raw []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(b.key(collection, id))
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return false, err
	}
	return true, nil
}

// GetAll 实现 Store 接口
func (b *Badger) GetAll(_ context.Context, collection string, out any) error {
	prefix := []byte(collection + "/")

	var raws [][]byte
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.ValidForPrefix(prefix); it.Next() {
			raw, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			raws = append(raws, raw)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("scan %s: %w", collection, err)
	}

	return decodeList(raws, out)
}

// Delete 实现 Store 接口
func (b *Badger) Delete(_ context.Context, collection, id string) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(b.key(collection, id))
	})
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}

// Close 实现 Store 接口
func (b *Badger) Close() error {
	return b.db.Close()
}

// 确保 Badger 实现了 Store 接口
var _ Store = (*Badger)(nil)
