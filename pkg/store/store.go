// Package store 提供本地持久化存储：以 JSON 形式把命名值写进 KV 后端，跨重启保留.
//
// 读取永远不会失败：键不存在或内容损坏时返回调用方给出的默认值.
// 写入失败会返回错误，由调用方决定如何告知用户.
//
// 基本用法:
//
//	s := store.New(kvStore)
//
//	volume := store.Get(ctx, s, "globalVolume", 70)
//	if err := store.Set(ctx, s, "globalVolume", 55); err != nil {
//		return err
//	}
//
//	// 每个键一个 Binding，所有读写都经过同一个入口
//	board := store.Bind(s, "soundboard", func() []*model.Sound { return make([]*model.Sound, 6) })
//	slots := board.Get(ctx)
//
// 并发:
//
//	多个进程共享同一后端时按最后写入者获胜，不做跨进程加锁.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bytedance/sonic"

	"github.com/yeisme/soundboard/pkg/internal/storage/kv"
	nlog "github.com/yeisme/soundboard/pkg/log"
	"github.com/yeisme/soundboard/pkg/metrics"
)

// ChangeFunc 在某个键写入成功后被调用.
type ChangeFunc func(ctx context.Context, key string, value []byte)

// Store 基于 KV 的持久化存储.
type Store struct {
	kv kv.KVStore

	mu        sync.RWMutex
	listeners []ChangeFunc
}

// New 创建持久化存储.
func New(kvStore kv.KVStore) *Store {
	return &Store{kv: kvStore}
}

// OnChange 注册写入监听器，对应前端状态变化触发的重新渲染.
func (s *Store) OnChange(fn ChangeFunc) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

func (s *Store) notify(ctx context.Context, key string, value []byte) {
	s.mu.RLock()
	listeners := append([]ChangeFunc(nil), s.listeners...)
	s.mu.RUnlock()

	for _, fn := range listeners {
		fn(ctx, key, value)
	}
}

// Lookup 读取并解码键，返回 (值, 是否存在, 错误). 解码失败以错误返回.
func Lookup[T any](ctx context.Context, s *Store, key string) (T, bool, error) {
	var zero T

	data, err := s.kv.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return zero, false, nil
	}

	if err != nil {
		return zero, false, fmt.Errorf("read %s: %w", key, err)
	}

	var value T
	if err := sonic.Unmarshal(data, &value); err != nil {
		return zero, true, fmt.Errorf("decode %s: %w", key, err)
	}

	return value, true, nil
}

// Get 读取键，不存在、损坏或后端故障时返回默认值.
func Get[T any](ctx context.Context, s *Store, key string, def T) T {
	value, ok, err := Lookup[T](ctx, s, key)
	if err != nil {
		logReadFailure(key, err)

		return def
	}

	if !ok {
		return def
	}

	return value
}

// Set 编码并写入键，成功后通知监听器.
func Set[T any](ctx context.Context, s *Store, key string, value T) error {
	data, err := sonic.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	if err := s.write(ctx, key, data); err != nil {
		return err
	}

	s.notify(ctx, key, data)

	return nil
}

// commitDefault 写入默认值但不通知监听器，读取不算状态变化.
func commitDefault[T any](ctx context.Context, s *Store, key string, value T) error {
	data, err := sonic.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	return s.write(ctx, key, data)
}

func (s *Store) write(ctx context.Context, key string, data []byte) error {
	if err := s.kv.Set(ctx, key, data, 0); err != nil {
		metrics.StoreErrors.WithLabelValues("write").Inc()

		return fmt.Errorf("write %s: %w", key, err)
	}

	return nil
}

// Delete 删除键.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.kv.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}

	s.notify(ctx, key, nil)

	return nil
}

// Exists 键是否存在，不解码内容. 后端故障以错误返回.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	ok, err := s.kv.Exists(ctx, key)
	if err != nil {
		metrics.StoreErrors.WithLabelValues("read").Inc()

		return false, fmt.Errorf("read %s: %w", key, err)
	}

	return ok, nil
}

// Raw 返回键的原始字节，用于诊断.
func (s *Store) Raw(ctx context.Context, key string) ([]byte, error) {
	return s.kv.Get(ctx, key)
}

// Keys 列出匹配 glob 模式的键.
func (s *Store) Keys(ctx context.Context, pattern string) ([]string, error) {
	return s.kv.Keys(ctx, pattern)
}

// Close 关闭底层 KV.
func (s *Store) Close() error {
	return s.kv.Close()
}

func logWriteFailure(key string, err error) {
	nlog.Logger().Warn().Err(err).Str("key", key).Msg("failed to commit default value")
}

func logReadFailure(key string, err error) {
	metrics.StoreErrors.WithLabelValues("read").Inc()
	nlog.Logger().Warn().Err(err).Str("key", key).Msg("stored value unreadable, using default")
}
