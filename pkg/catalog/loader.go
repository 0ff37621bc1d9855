// Package catalog 从静态内容源加载分类与音效清单.
//
// 每个分类目录下有 category.json 与 sounds.json 两个清单. 加载时并发抓取所有目录，
// 单个目录失败只记录日志并贡献空结果，其余目录照常返回.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/yeisme/soundboard/pkg/configs"
	"github.com/yeisme/soundboard/pkg/internal/model"
	nlog "github.com/yeisme/soundboard/pkg/log"
	"github.com/yeisme/soundboard/pkg/metrics"
	"github.com/yeisme/soundboard/pkg/tracing"
)

// Loader 曲库加载器.
type Loader struct {
	src Source
	cfg configs.CatalogConfig
	log zerolog.Logger
}

// NewLoader 创建加载器.
func NewLoader(src Source, cfg configs.CatalogConfig) *Loader {
	return &Loader{
		src: src,
		cfg: cfg,
		log: nlog.Component("catalog").With().Str("source", src.Describe()).Logger(),
	}
}

// Directories 返回配置的分类目录列表.
func (l *Loader) Directories() []string {
	return append([]string(nil), l.cfg.Directories...)
}

// fetchJSON 抓取并解码一个清单.
func fetchJSON[T any](ctx context.Context, l *Loader, dir, kind, name string) (T, error) {
	var out T

	ctx, span := tracing.StartSpan(ctx, "catalog.fetch")
	defer span.End()

	span.SetAttributes(attribute.String("catalog.dir", dir), attribute.String("catalog.kind", kind))

	data, err := l.src.Fetch(ctx, name)
	if err == nil {
		if uerr := sonic.Unmarshal(data, &out); uerr != nil {
			err = fmt.Errorf("decode %s: %w", name, uerr)
		}
	}

	metrics.CatalogFetches.WithLabelValues(dir, kind, metrics.ObserveResult(err)).Inc()
	tracing.RecordError(span, err)

	return out, err
}

// LoadCategory 读取单个分类清单，不按 isShown 过滤.
func (l *Loader) LoadCategory(ctx context.Context, dir string) (*model.Category, error) {
	cat, err := fetchJSON[model.Category](ctx, l, dir, metrics.KindCategory, l.cfg.ManifestPath(dir, l.cfg.CategoryFile))
	if err != nil {
		return nil, err
	}

	if cat.ID == "" {
		cat.ID = dir
	}

	cat.Dir = dir

	return &cat, nil
}

// LoadSoundsForCategory 读取单个目录的音效，失败时返回空切片.
func (l *Loader) LoadSoundsForCategory(ctx context.Context, dir string) []model.Sound {
	sounds, err := l.loadSounds(ctx, dir)
	if err != nil {
		l.warn(err, dir, "failed to load sounds for category")

		return []model.Sound{}
	}

	return sounds
}

func (l *Loader) loadSounds(ctx context.Context, dir string) ([]model.Sound, error) {
	raw, err := fetchJSON[[]model.Sound](ctx, l, dir, metrics.KindSounds, l.cfg.ManifestPath(dir, l.cfg.SoundsFile))
	if err != nil {
		return nil, err
	}

	sounds := make([]model.Sound, 0, len(raw))

	for _, s := range raw {
		if !s.Valid() {
			l.log.Warn().Str("dir", dir).Str("id", s.ID).Msg("skipping sound without title or filename")

			continue
		}

		s.Normalize(dir)
		sounds = append(sounds, s)
	}

	return sounds, nil
}

// LoadAllCategories 并发加载所有分类，丢弃失败的目录与隐藏分类. 结果按目录顺序排列.
func (l *Loader) LoadAllCategories(ctx context.Context) []model.Category {
	dirs := l.cfg.Directories
	results := make([]*model.Category, len(dirs))

	l.fanOut(ctx, dirs, func(ctx context.Context, i int, dir string) {
		cat, err := l.LoadCategory(ctx, dir)
		if err != nil {
			l.warn(err, dir, "failed to load category")

			return
		}

		if !cat.IsShown {
			l.log.Debug().Str("dir", dir).Msg("category hidden")

			return
		}

		results[i] = cat
	})

	categories := make([]model.Category, 0, len(dirs))

	for _, c := range results {
		if c != nil {
			categories = append(categories, *c)
		}
	}

	return categories
}

// LoadAllSounds 并发加载所有目录的音效并拼接. 音效不按分类可见性过滤.
func (l *Loader) LoadAllSounds(ctx context.Context) []model.Sound {
	dirs := l.cfg.Directories
	results := make([][]model.Sound, len(dirs))

	l.fanOut(ctx, dirs, func(ctx context.Context, i int, dir string) {
		results[i] = l.LoadSoundsForCategory(ctx, dir)
	})

	total := 0
	for _, r := range results {
		total += len(r)
	}

	sounds := make([]model.Sound, 0, total)
	for _, r := range results {
		sounds = append(sounds, r...)
	}

	return sounds
}

// LoadPromotions 读取内容根下的推广清单，只保留 isShown 的条目. 失败时返回空切片.
func (l *Loader) LoadPromotions(ctx context.Context) []model.Promotion {
	if l.cfg.PromotionsFile == "" {
		return []model.Promotion{}
	}

	raw, err := fetchJSON[[]model.Promotion](ctx, l, "", metrics.KindPromotions, l.cfg.PromotionsFile)
	if err != nil {
		l.warn(err, "", "failed to load promotions")

		return []model.Promotion{}
	}

	shown := make([]model.Promotion, 0, len(raw))

	for _, p := range raw {
		if p.IsShown {
			shown = append(shown, p)
		}
	}

	return shown
}

// fanOut 对每个目录执行 fn，等待全部结束. fn 自行吸收错误，所以 Wait 不会失败快速返回.
func (l *Loader) fanOut(ctx context.Context, dirs []string, fn func(ctx context.Context, i int, dir string)) {
	var g errgroup.Group

	if l.cfg.Concurrency > 0 {
		g.SetLimit(l.cfg.Concurrency)
	}

	for i, dir := range dirs {
		g.Go(func() error {
			fn(ctx, i, dir)

			return nil
		})
	}

	_ = g.Wait()
}

func (l *Loader) warn(err error, dir, msg string) {
	ev := l.log.Warn().Err(err).Str("dir", dir)
	if errors.Is(err, ErrNotFound) {
		ev = l.log.Warn().Str("dir", dir).Str("reason", "not found")
	}

	ev.Msg(msg)
}
