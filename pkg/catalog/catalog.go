package catalog

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	"github.com/yeisme/soundboard/pkg/internal/model"
	"github.com/yeisme/soundboard/pkg/metrics"
)

// Catalog 一次完整加载的不可变快照.
type Catalog struct {
	Categories []model.Category  `json:"categories"`
	Sounds     []model.Sound     `json:"sounds"`
	Promotions []model.Promotion `json:"promotions"`
	LoadedAt   time.Time         `json:"loaded_at"`
	// Version 内容指纹，可直接用作 ETag
	Version string `json:"version"`

	byID map[string]int
}

// NewCatalog 组装快照，重复 ID 只保留第一次出现.
func NewCatalog(categories []model.Category, sounds []model.Sound, promotions []model.Promotion, loadedAt time.Time) *Catalog {
	c := &Catalog{
		Categories: categories,
		Promotions: promotions,
		LoadedAt:   loadedAt,
		byID:       make(map[string]int, len(sounds)),
	}

	c.Sounds = make([]model.Sound, 0, len(sounds))

	for _, s := range sounds {
		if _, dup := c.byID[s.ID]; dup {
			continue
		}

		c.byID[s.ID] = len(c.Sounds)
		c.Sounds = append(c.Sounds, s)
	}

	c.Version = c.fingerprint()

	return c
}

// fingerprint 对排序后的 ID 与标题做 xxhash，加载顺序不影响结果.
func (c *Catalog) fingerprint() string {
	parts := make([]string, 0, len(c.Sounds)+len(c.Categories)+len(c.Promotions))

	for _, s := range c.Sounds {
		parts = append(parts, "s:"+s.ID+":"+s.Title+":"+s.Filename)
	}

	for _, cat := range c.Categories {
		parts = append(parts, "c:"+cat.ID+":"+cat.Name+":"+cat.Color)
	}

	for _, p := range c.Promotions {
		parts = append(parts, "p:"+p.ID+":"+p.Title)
	}

	sort.Strings(parts)

	h := xxhash.New()
	for _, p := range parts {
		_, _ = h.WriteString(p)
		_, _ = h.WriteString("\n")
	}

	return fmt.Sprintf("%016x", h.Sum64())
}

// Sound 按 ID 查找音效.
func (c *Catalog) Sound(id string) (model.Sound, bool) {
	i, ok := c.byID[id]
	if !ok {
		return model.Sound{}, false
	}

	return c.Sounds[i], true
}

// Load 并发加载分类、音效与推广，返回快照.
func (l *Loader) Load(ctx context.Context) *Catalog {
	var (
		categories []model.Category
		sounds     []model.Sound
		promotions []model.Promotion
		g          errgroup.Group
	)

	g.Go(func() error { categories = l.LoadAllCategories(ctx); return nil })
	g.Go(func() error { sounds = l.LoadAllSounds(ctx); return nil })
	g.Go(func() error { promotions = l.LoadPromotions(ctx); return nil })

	_ = g.Wait()

	c := NewCatalog(categories, sounds, promotions, time.Now())

	metrics.CatalogSize.WithLabelValues(metrics.KindSounds).Set(float64(len(c.Sounds)))
	metrics.CatalogSize.WithLabelValues(metrics.KindCategory).Set(float64(len(c.Categories)))
	metrics.CatalogSize.WithLabelValues(metrics.KindPromotions).Set(float64(len(c.Promotions)))

	l.log.Info().
		Int("categories", len(c.Categories)).
		Int("sounds", len(c.Sounds)).
		Str("version", c.Version).
		Msg("catalog loaded")

	return c
}
