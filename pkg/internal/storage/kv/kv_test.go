package kv_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/yeisme/soundboard/pkg/configs"
	"github.com/yeisme/soundboard/pkg/internal/storage/kv"
)

func newDBStore(tb testing.TB) kv.KVStore {
	tb.Helper()

	cfg := &configs.DBConfig{
		Type:         configs.SQLite,
		Database:     filepath.Join(tb.TempDir(), "kv"),
		Table:        "kv_entries",
		MaxIdleConns: 1,
	}

	store, err := kv.NewKVStore(context.Background(), kv.KVTypeDB, cfg)
	if err != nil {
		tb.Fatalf("create db kv: %v", err)
	}

	tb.Cleanup(func() { _ = store.Close() })

	return store
}

// exerciseStore 对任意后端执行相同的读写语义检查.
func exerciseStore(t *testing.T, store kv.KVStore) {
	t.Helper()

	ctx := context.Background()

	if _, err := store.Get(ctx, "soundboard"); !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing key, got %v", err)
	}

	if err := store.Set(ctx, "soundboard", []byte(`[null,null]`), 0); err != nil {
		t.Fatalf("set: %v", err)
	}

	// 覆盖写
	if err := store.Set(ctx, "soundboard", []byte(`[null]`), 0); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	got, err := store.Get(ctx, "soundboard")
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if string(got) != `[null]` {
		t.Errorf("expected overwritten value, got %q", got)
	}

	if err := store.Set(ctx, "globalVolume", []byte(`70`), 0); err != nil {
		t.Fatalf("set volume: %v", err)
	}

	ok, err := store.Exists(ctx, "globalVolume")
	if err != nil || !ok {
		t.Errorf("expected globalVolume to exist, got %v %v", ok, err)
	}

	keys, err := store.Keys(ctx, "sound*")
	if err != nil {
		t.Fatalf("keys: %v", err)
	}

	if len(keys) != 1 || keys[0] != "soundboard" {
		t.Errorf("expected [soundboard], got %v", keys)
	}

	all, err := store.Keys(ctx, "")
	if err != nil || len(all) != 2 {
		t.Errorf("expected 2 keys, got %v %v", all, err)
	}

	if err := store.Delete(ctx, "soundboard"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	// 删除不存在的键不算错误
	if err := store.Delete(ctx, "soundboard"); err != nil {
		t.Errorf("delete missing key: %v", err)
	}

	if ok, _ := store.Exists(ctx, "soundboard"); ok {
		t.Error("expected soundboard to be deleted")
	}
}

// TestMemoryKV 测试内存后端.
func TestMemoryKV(t *testing.T) {
	store, err := kv.NewKVStore(context.Background(), kv.KVTypeMemory, nil)
	if err != nil {
		t.Fatalf("create memory kv: %v", err)
	}

	exerciseStore(t, store)
}

// TestDBKV 测试 sqlite 后端，并验证重新打开后数据仍在.
func TestDBKV(t *testing.T) {
	exerciseStore(t, newDBStore(t))

	ctx := context.Background()
	dir := t.TempDir()
	cfg := &configs.DBConfig{Type: configs.SQLite, Database: filepath.Join(dir, "kv"), Table: "kv_entries", MaxIdleConns: 1}

	first, err := kv.NewKVStore(ctx, kv.KVTypeDB, cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if err := first.Set(ctx, "soundboard_initialized", []byte("true"), 0); err != nil {
		t.Fatalf("set: %v", err)
	}

	_ = first.Close()

	second, err := kv.NewKVStore(ctx, kv.KVTypeDB, cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()

	got, err := second.Get(ctx, "soundboard_initialized")
	if err != nil || string(got) != "true" {
		t.Errorf("expected persisted value, got %q %v", got, err)
	}
}

// TestDBKVTTL 测试过期条目不可见.
func TestDBKVTTL(t *testing.T) {
	store := newDBStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, "short", []byte("1"), time.Nanosecond); err != nil {
		t.Fatalf("set: %v", err)
	}

	time.Sleep(5 * time.Millisecond)

	if _, err := store.Get(ctx, "short"); !errors.Is(err, kv.ErrNotFound) {
		t.Errorf("expected expired key to be not found, got %v", err)
	}
}

// TestSweep 测试可清理后端删除过期键并保留其余键.
func TestSweep(t *testing.T) {
	mem, _ := kv.NewKVStore(context.Background(), kv.KVTypeMemory, nil)

	for name, store := range map[string]kv.KVStore{"memory": mem, "db": newDBStore(t)} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			sweeper, ok := store.(kv.Sweeper)
			if !ok {
				t.Fatalf("%s backend should implement Sweeper", name)
			}

			_ = store.Set(ctx, "gone", []byte("1"), time.Nanosecond)
			_ = store.Set(ctx, "kept", []byte("1"), 0)

			time.Sleep(5 * time.Millisecond)

			n, err := sweeper.Sweep(ctx)
			if err != nil {
				t.Fatalf("sweep: %v", err)
			}

			if n != 1 {
				t.Errorf("expected 1 swept key, got %d", n)
			}

			if ok, _ := store.Exists(ctx, "kept"); !ok {
				t.Error("non-expiring key should survive sweep")
			}
		})
	}
}

// TestMemoryKVTTL 测试内存后端的 TTL 包装.
func TestMemoryKVTTL(t *testing.T) {
	store, _ := kv.NewKVStore(context.Background(), kv.KVTypeMemory, nil)
	ctx := context.Background()

	if err := store.Set(ctx, "long", []byte("1"), time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, err := store.Get(ctx, "long")
	if err != nil || string(got) != "1" {
		t.Errorf("expected unwrapped value, got %q %v", got, err)
	}
}

// TestGroupcacheKV 测试 groupcache 后端写后立即可读，且同名组复用实例.
func TestGroupcacheKV(t *testing.T) {
	cfg := &configs.GroupcacheKVConfig{Name: "test-groupcache", CacheBytes: 1 << 20}

	store, err := kv.NewKVStore(context.Background(), kv.KVTypeGroupcache, cfg)
	if err != nil {
		t.Fatalf("create groupcache kv: %v", err)
	}

	exerciseStore(t, store)

	again, err := kv.NewKVStore(context.Background(), kv.KVTypeGroupcache, cfg)
	if err != nil {
		t.Fatalf("recreate groupcache kv: %v", err)
	}

	if again != store {
		t.Error("expected the same instance for the same group name")
	}
}

// TestNewKVClient 测试按应用配置选择后端.
func TestNewKVClient(t *testing.T) {
	cfg := configs.Defaults()
	cfg.KV.Type = string(kv.KVTypeMemory)

	client, err := kv.NewKVClient(context.Background(), &cfg)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	if client.Type != kv.KVTypeMemory {
		t.Errorf("expected memory client, got %s", client.Type)
	}

	cfg.KV.Type = "etcd"
	if _, err := kv.NewKVClient(context.Background(), &cfg); err == nil {
		t.Error("expected error for unsupported kv type")
	}
}

// TestRegisteredKVTypes 测试所有后端都已注册.
func TestRegisteredKVTypes(t *testing.T) {
	got := fmt.Sprint(kv.GetRegisteredKVTypes())
	if got != "[db groupcache memory nats redis]" {
		t.Errorf("unexpected registered types: %s", got)
	}
}

// Optional: enable with ENABLE_REDIS_TEST=1 and REDIS_ADDR set (default 127.0.0.1:6379).
func TestRedisKV(t *testing.T) {
	if os.Getenv("ENABLE_REDIS_TEST") == "" {
		t.Skip("set ENABLE_REDIS_TEST=1 to enable")
	}

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "127.0.0.1:6379"
	}

	cfg := &configs.RedisKVConfig{Addr: addr, Prefix: fmt.Sprintf("sbtest-%d:", time.Now().UnixNano())}

	store, err := kv.NewKVStore(context.Background(), kv.KVTypeRedis, cfg)
	if err != nil {
		t.Skipf("redis not available: %v", err)
	}
	defer store.Close()

	exerciseStore(t, store)
}

// Optional: enable with ENABLE_NATS_TEST=1 and NATS_URL set (default nats://127.0.0.1:4222).
func TestNATSKV(t *testing.T) {
	if os.Getenv("ENABLE_NATS_TEST") == "" {
		t.Skip("set ENABLE_NATS_TEST=1 to enable")
	}

	url := os.Getenv("NATS_URL")
	if url == "" {
		url = "nats://127.0.0.1:4222"
	}

	cfg := &configs.NATSKVConfig{URL: url, Bucket: fmt.Sprintf("sbtest-%d", time.Now().UnixNano())}

	store, err := kv.NewKVStore(context.Background(), kv.KVTypeNATS, cfg)
	if err != nil {
		t.Skipf("nats not available: %v", err)
	}
	defer store.Close()

	exerciseStore(t, store)
}

func BenchmarkMemoryKV(b *testing.B) {
	store, _ := kv.NewKVStore(context.Background(), kv.KVTypeMemory, nil)
	benchKV(b, store)
}

func BenchmarkDBKV(b *testing.B) {
	benchKV(b, newDBStore(b))
}

// benchKV 模拟音板写入：一个小 JSON 数组反复覆盖同一个键.
func benchKV(b *testing.B, store kv.KVStore) {
	ctx := context.Background()
	payload := []byte(`[{"id":"a","title":"t","filename":"f.mp3","tags":[],"hidden_tags":[],"category":"brano"},null,null,null,null,null]`)

	b.ReportAllocs()

	for b.Loop() {
		if err := store.Set(ctx, "soundboard", payload, 0); err != nil {
			b.Fatalf("set failed: %v", err)
		}

		if _, err := store.Get(ctx, "soundboard"); err != nil {
			b.Fatalf("get failed: %v", err)
		}
	}
}
