package kv

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

// MemoryKV 进程内 KV，测试与 --ephemeral 场景使用.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string][]byte
	now  func() time.Time
}

// NewMemoryKV 创建内存 KV 实例.
func NewMemoryKV(_ context.Context, _ any) (KVStore, error) {
	return &MemoryKV{data: make(map[string][]byte), now: time.Now}, nil
}

// Get 获取键的值，返回副本.
func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	raw, ok := m.data[key]
	m.mu.RUnlock()

	if !ok {
		return nil, notFound(key)
	}

	val, expired, err := decodeWithTTL(raw, m.now())
	if err != nil {
		return nil, err
	}

	if expired {
		m.mu.Lock()
		delete(m.data, key)
		m.mu.Unlock()

		return nil, notFound(key)
	}

	return append([]byte(nil), val...), nil
}

// Set 设置键的值.
func (m *MemoryKV) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	encoded, err := encodeWithTTL(append([]byte(nil), value...), ttl, m.now())
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.data[key] = encoded
	m.mu.Unlock()

	return nil
}

// Delete 删除键.
func (m *MemoryKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()

	return nil
}

// Exists 检查键是否存在.
func (m *MemoryKV) Exists(ctx context.Context, key string) (bool, error) {
	_, err := m.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}

	return err == nil, err
}

// Keys 获取匹配模式的键.
func (m *MemoryKV) Keys(_ context.Context, pattern string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.data))

	for k := range m.data {
		if matchKey(pattern, k) {
			keys = append(keys, k)
		}
	}

	sort.Strings(keys)

	return keys, nil
}

// Sweep 删除已过期的键.
func (m *MemoryKV) Sweep(_ context.Context) (int64, error) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64

	for k, raw := range m.data {
		if _, expired, err := decodeWithTTL(raw, now); err == nil && expired {
			delete(m.data, k)
			n++
		}
	}

	return n, nil
}

// Close 关闭存储（内存实现无需操作）.
func (m *MemoryKV) Close() error {
	return nil
}

func init() {
	RegisterKVFactory(KVTypeMemory, NewMemoryKV)
}
