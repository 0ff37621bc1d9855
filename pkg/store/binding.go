package store

import (
	"context"
)

// Binding 把一个键和它的默认值绑在一起.
type Binding[T any] struct {
	store  *Store
	key    string
	def    func() T
	commit bool
}

// BindOption 配置 Binding.
type BindOption func(*bindOptions)

type bindOptions struct {
	noCommit bool
}

// WithoutCommit 首次读取不写回默认值. 用于以"键是否存在"表达状态的标记.
func WithoutCommit() BindOption {
	return func(o *bindOptions) { o.noCommit = true }
}

// Bind 创建绑定. 默认值在每次需要时重新取得，避免切片等引用类型被调用方改写后污染默认值.
func Bind[T any](s *Store, key string, def func() T, opts ...BindOption) *Binding[T] {
	var o bindOptions
	for _, opt := range opts {
		opt(&o)
	}

	return &Binding[T]{store: s, key: key, def: def, commit: !o.noCommit}
}

// Key 返回绑定的键名.
func (b *Binding[T]) Key() string {
	return b.key
}

// Get 读取值. 首次访问时键不存在，则返回默认值并写回（不触发变更通知）；
// 损坏的值只返回默认值，不覆盖.
func (b *Binding[T]) Get(ctx context.Context) T {
	value, ok, err := Lookup[T](ctx, b.store, b.key)
	if err != nil {
		logReadFailure(b.key, err)

		return b.def()
	}

	if ok {
		return value
	}

	def := b.def()
	if !b.commit {
		return def
	}

	if err := commitDefault(ctx, b.store, b.key, def); err != nil {
		logWriteFailure(b.key, err)
	}

	return def
}

// Exists 键是否已经写入过，不关心内容能否解码.
func (b *Binding[T]) Exists(ctx context.Context) (bool, error) {
	return b.store.Exists(ctx, b.key)
}

// Set 写入值.
func (b *Binding[T]) Set(ctx context.Context, value T) error {
	return Set(ctx, b.store, b.key, value)
}
