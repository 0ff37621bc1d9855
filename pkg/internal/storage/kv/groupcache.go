package kv

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/golang/groupcache"

	"github.com/yeisme/soundboard/pkg/configs"
)

// GroupcacheKV 本节点数据存放在本地 map，未命中的键通过 groupcache 向对等节点读取.
// groupcache 的缓存不可失效，所以本地键总是直接读 map，保证写后立即可见.
type GroupcacheKV struct {
	group *groupcache.Group
	pool  *groupcache.HTTPPool
	data  map[string][]byte
	mu    sync.RWMutex
}

var (
	// groupcache 的组名与 HTTPPool 都是进程级单例.
	groupcacheMu        sync.Mutex
	groupcacheInstances = map[string]*GroupcacheKV{}
)

// NewGroupcacheKV 创建 Groupcache KV 实例，同名组复用同一实例.
func NewGroupcacheKV(_ context.Context, config any) (KVStore, error) {
	gcConfig, ok := config.(*configs.GroupcacheKVConfig)
	if !ok {
		return nil, fmt.Errorf("invalid Groupcache config")
	}

	groupcacheMu.Lock()
	defer groupcacheMu.Unlock()

	if existing, ok := groupcacheInstances[gcConfig.Name]; ok {
		return existing, nil
	}

	kv := &GroupcacheKV{data: make(map[string][]byte)}
	kv.group = groupcache.NewGroup(gcConfig.Name, gcConfig.CacheBytes, groupcache.GetterFunc(kv.load))

	if len(gcConfig.Peers) > 0 && gcConfig.Self != "" {
		kv.pool = groupcache.NewHTTPPoolOpts(gcConfig.Self, &groupcache.HTTPPoolOptions{})
		kv.pool.Set(gcConfig.Peers...)
	}

	groupcacheInstances[gcConfig.Name] = kv

	return kv, nil
}

// load 是 groupcache 的回源函数，只提供本节点拥有的键.
func (g *GroupcacheKV) load(_ context.Context, key string, dest groupcache.Sink) error {
	g.mu.RLock()
	raw, ok := g.data[key]
	g.mu.RUnlock()

	if !ok {
		return notFound(key)
	}

	return dest.SetBytes(raw)
}

// Handler 对等节点需要挂载的 HTTP 处理器，未配置 peers 时为 nil.
func (g *GroupcacheKV) Handler() http.Handler {
	if g.pool == nil {
		return nil
	}

	return g.pool
}

// Get 获取键的值.
func (g *GroupcacheKV) Get(ctx context.Context, key string) ([]byte, error) {
	g.mu.RLock()
	raw, local := g.data[key]
	g.mu.RUnlock()

	if !local {
		if g.pool == nil {
			return nil, notFound(key)
		}

		if err := g.group.Get(ctx, key, groupcache.AllocatingByteSliceSink(&raw)); err != nil {
			return nil, notFound(key)
		}
	}

	val, expired, err := decodeWithTTL(raw, time.Now())
	if err != nil {
		return nil, err
	}

	if expired {
		return nil, notFound(key)
	}

	return append([]byte(nil), val...), nil
}

// Set 设置键的值.
func (g *GroupcacheKV) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	encoded, err := encodeWithTTL(append([]byte(nil), value...), ttl, time.Now())
	if err != nil {
		return err
	}

	g.mu.Lock()
	g.data[key] = encoded
	g.mu.Unlock()

	return nil
}

// Delete 删除键.
func (g *GroupcacheKV) Delete(_ context.Context, key string) error {
	g.mu.Lock()
	delete(g.data, key)
	g.mu.Unlock()

	return nil
}

// Exists 只检查本节点数据.
func (g *GroupcacheKV) Exists(_ context.Context, key string) (bool, error) {
	g.mu.RLock()
	_, ok := g.data[key]
	g.mu.RUnlock()

	return ok, nil
}

// Keys 获取本节点匹配模式的键.
func (g *GroupcacheKV) Keys(_ context.Context, pattern string) ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	keys := make([]string, 0, len(g.data))

	for key := range g.data {
		if matchKey(pattern, key) {
			keys = append(keys, key)
		}
	}

	sort.Strings(keys)

	return keys, nil
}

// Close groupcache 没有显式的关闭方法.
func (g *GroupcacheKV) Close() error {
	return nil
}

func init() {
	RegisterKVFactory(KVTypeGroupcache, NewGroupcacheKV)
}
