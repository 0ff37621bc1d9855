package catalog

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// ReloadFunc 快照替换后调用，prev 在首次加载时为 nil.
type ReloadFunc func(ctx context.Context, prev, next *Catalog)

// Service 持有当前曲库快照. 并发的重新加载合并为一次.
type Service struct {
	loader  *Loader
	current atomic.Pointer[Catalog]
	group   singleflight.Group

	mu        sync.RWMutex
	listeners []ReloadFunc
}

// NewService 创建曲库服务.
func NewService(loader *Loader) *Service {
	return &Service{loader: loader}
}

// Loader 返回底层加载器.
func (s *Service) Loader() *Loader {
	return s.loader
}

// OnReload 注册快照替换监听器.
func (s *Service) OnReload(fn ReloadFunc) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Current 返回当前快照，尚未加载时先加载.
func (s *Service) Current(ctx context.Context) *Catalog {
	if c := s.current.Load(); c != nil {
		return c
	}

	return s.Reload(ctx)
}

// Reload 重新加载曲库. 同时到达的调用共享一次加载结果.
func (s *Service) Reload(ctx context.Context) *Catalog {
	// 共享的加载不随某一个调用方取消
	loadCtx := context.WithoutCancel(ctx)

	v, _, _ := s.group.Do("reload", func() (any, error) {
		next := s.loader.Load(loadCtx)
		prev := s.current.Swap(next)

		s.mu.RLock()
		listeners := append([]ReloadFunc(nil), s.listeners...)
		s.mu.RUnlock()

		for _, fn := range listeners {
			fn(loadCtx, prev, next)
		}

		return next, nil
	})

	return v.(*Catalog)
}
