// Package kv 提供用于键值存储的接口和实现. 音板、初始化标记和音量都以 JSON 字节存放在这里.
package kv

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"time"

	"github.com/yeisme/soundboard/pkg/configs"
)

// ErrNotFound 键不存在或已过期.
var ErrNotFound = errors.New("kv: key not found")

type Client struct {
	KVStore
	Type KVType
}

// KVStore 定义键值存储接口.
type KVStore interface {
	// Get 获取键的值，不存在时返回 ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set 设置键的值，ttl<=0 表示永不过期.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete 删除键，键不存在不算错误.
	Delete(ctx context.Context, key string) error
	// Exists 检查键是否存在.
	Exists(ctx context.Context, key string) (bool, error)
	// Keys 获取匹配 glob 模式的键，空模式返回全部.
	Keys(ctx context.Context, pattern string) ([]string, error)
	// Close 关闭存储连接.
	Close() error
}

// Sweeper 由需要主动清理过期键的后端实现（redis、nats 由服务端过期）.
type Sweeper interface {
	// Sweep 删除已过期的键，返回删除数量.
	Sweep(ctx context.Context) (int64, error)
}

// KVType 键值存储类型.
type KVType string

const (
	KVTypeDB         KVType = "db"
	KVTypeMemory     KVType = "memory"
	KVTypeRedis      KVType = "redis"
	KVTypeNATS       KVType = "nats"
	KVTypeGroupcache KVType = "groupcache"
)

// KVFactory 定义创建 KVStore 的工厂函数类型.
type KVFactory func(ctx context.Context, config any) (KVStore, error)

// kvFactories 存储 KV 类型到工厂的映射.
var kvFactories = make(map[KVType]KVFactory)

// RegisterKVFactory 注册 KV 工厂函数.
func RegisterKVFactory(kvType KVType, factory KVFactory) {
	kvFactories[kvType] = factory
}

// GetRegisteredKVTypes 返回已注册的 KV 类型列表（已排序）.
func GetRegisteredKVTypes() []KVType {
	types := make([]KVType, 0, len(kvFactories))
	for kvType := range kvFactories {
		types = append(types, kvType)
	}

	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	return types
}

// NewKVStore 根据类型创建 KVStore 实例.
func NewKVStore(ctx context.Context, kvType KVType, config any) (KVStore, error) {
	factory, exists := kvFactories[kvType]
	if !exists {
		return nil, fmt.Errorf("unsupported KV type: %s", kvType)
	}

	return factory(ctx, config)
}

// NewKVClient 按应用配置创建 KV 客户端，每种后端拿到各自的子配置.
func NewKVClient(ctx context.Context, cfg *configs.AppConfig) (*Client, error) {
	kvType := KVType(cfg.KV.Type)

	var sub any

	switch kvType {
	case KVTypeDB:
		sub = &cfg.DB
	case KVTypeRedis:
		sub = &cfg.KV.Redis
	case KVTypeNATS:
		sub = &cfg.KV.NATS
	case KVTypeGroupcache:
		sub = &cfg.KV.Groupcache
	}

	store, err := NewKVStore(ctx, kvType, sub)
	if err != nil {
		return nil, fmt.Errorf("init kv (%s): %w", kvType, err)
	}

	return &Client{KVStore: store, Type: kvType}, nil
}

// matchKey 判断 key 是否匹配 glob 模式.
func matchKey(pattern, key string) bool {
	if pattern == "" || pattern == "*" {
		return true
	}

	ok, err := path.Match(pattern, key)

	return err == nil && ok
}

func notFound(key string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, key)
}
