package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/yeisme/soundboard/pkg/configs"
)

// ErrNotFound 清单文件不存在.
var ErrNotFound = errors.New("catalog: manifest not found")

// Source 按相对路径读取静态内容，例如 "brano/sounds.json".
type Source interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
	// Describe 返回用于日志的来源描述.
	Describe() string
}

// SourceFactory 创建 Source 的工厂函数.
type SourceFactory func(ctx context.Context, cfg *configs.AppConfig) (Source, error)

var sourceFactories = map[configs.CatalogSource]SourceFactory{}

// RegisterSourceFactory 注册来源工厂.
func RegisterSourceFactory(t configs.CatalogSource, f SourceFactory) {
	sourceFactories[t] = f
}

// GetRegisteredSources 返回已注册的来源类型（已排序）.
func GetRegisteredSources() []configs.CatalogSource {
	types := make([]configs.CatalogSource, 0, len(sourceFactories))
	for t := range sourceFactories {
		types = append(types, t)
	}

	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	return types
}

// NewSource 按 catalog.source 创建来源.
func NewSource(ctx context.Context, cfg *configs.AppConfig) (Source, error) {
	factory, ok := sourceFactories[cfg.Catalog.Source]
	if !ok {
		return nil, fmt.Errorf("unsupported catalog source: %s", cfg.Catalog.Source)
	}

	return factory(ctx, cfg)
}
