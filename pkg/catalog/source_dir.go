package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"

	"github.com/yeisme/soundboard/pkg/configs"
)

// DirSource 从文件系统读取清单，可以是本地目录，也可以是嵌入的 fs.FS.
type DirSource struct {
	fsys fs.FS
	desc string
}

// NewDirSource 包装任意 fs.FS.
func NewDirSource(fsys fs.FS, desc string) *DirSource {
	return &DirSource{fsys: fsys, desc: desc}
}

// Describe 实现 Source.
func (s *DirSource) Describe() string {
	return s.desc
}

// Fetch 实现 Source.
func (s *DirSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := fs.ReadFile(s.fsys, path.Clean(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	return data, nil
}

func init() {
	RegisterSourceFactory(configs.CatalogSourceDir, func(_ context.Context, cfg *configs.AppConfig) (Source, error) {
		info, err := os.Stat(cfg.Catalog.Dir)
		if err != nil {
			return nil, fmt.Errorf("catalog dir: %w", err)
		}

		if !info.IsDir() {
			return nil, fmt.Errorf("catalog dir %s is not a directory", cfg.Catalog.Dir)
		}

		return NewDirSource(os.DirFS(cfg.Catalog.Dir), cfg.Catalog.Dir), nil
	})
}
