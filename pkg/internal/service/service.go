// Package service 组装音板的业务服务，HTTP 处理器与 CLI 共用.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/yeisme/soundboard/pkg/board"
	"github.com/yeisme/soundboard/pkg/catalog"
	"github.com/yeisme/soundboard/pkg/configs"
	"github.com/yeisme/soundboard/pkg/events"
	"github.com/yeisme/soundboard/pkg/internal/model"
	"github.com/yeisme/soundboard/pkg/internal/storage"
	"github.com/yeisme/soundboard/pkg/library"
	nlog "github.com/yeisme/soundboard/pkg/log"
	"github.com/yeisme/soundboard/pkg/player"
	"github.com/yeisme/soundboard/pkg/share"
	"github.com/yeisme/soundboard/pkg/store"
)

var (
	// ErrSoundNotFound 曲库中没有该音效.
	ErrSoundNotFound = errors.New("sound not found")
	// ErrSlotEmpty 槽位为空，没有可播放的音效.
	ErrSlotEmpty = errors.New("slot is empty")
)

// Services 聚合全部业务组件.
type Services struct {
	Config   *configs.AppConfig
	Storage  *storage.Manager
	Store    *store.Store
	Catalog  *catalog.Service
	Board    *board.Manager
	Searcher *library.Searcher
	Share    *share.Builder
	Bus      *events.Bus
	// Deck 服务端播放面，serve 模式下由 API 驱动
	Deck *player.Deck

	log zerolog.Logger
}

// New 按配置组装服务. mgr 由调用方负责关闭.
func New(ctx context.Context, cfg *configs.AppConfig, mgr *storage.Manager) (*Services, error) {
	src, err := catalog.NewSource(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("catalog source: %w", err)
	}

	st := store.New(mgr.GetKVClient())
	bus := events.NewBus(mgr.GetMQClient(), cfg.Events)
	bus.BindStore(st, cfg.Board.Keys)

	s := &Services{
		Config:   cfg,
		Storage:  mgr,
		Store:    st,
		Catalog:  catalog.NewService(catalog.NewLoader(src, cfg.Catalog)),
		Board:    board.NewManager(st, cfg.Board),
		Searcher: library.NewSearcher(cfg.Library),
		Share:    share.NewBuilder(cfg.Share, cfg.Catalog),
		Bus:      bus,
		Deck:     player.NewDeck(cfg.Board.Slots, player.NewExecBackend(cfg.Player)),
		log:      nlog.Component("service"),
	}

	s.Catalog.OnReload(s.publishReload)

	return s, nil
}

func (s *Services) publishReload(ctx context.Context, _, next *catalog.Catalog) {
	err := s.Bus.PublishCatalogReloaded(ctx, events.CatalogReloadedPayload{
		Version:    next.Version,
		Categories: len(next.Categories),
		Sounds:     len(next.Sounds),
		Promotions: len(next.Promotions),
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to publish catalog reload")
	}
}

// Sound 按 ID 查找音效.
func (s *Services) Sound(ctx context.Context, id string) (model.Sound, error) {
	snd, ok := s.Catalog.Current(ctx).Sound(id)
	if !ok {
		return model.Sound{}, fmt.Errorf("%w: %s", ErrSoundNotFound, id)
	}

	return snd, nil
}

// Categories 当前曲库的分类查找表.
func (s *Services) Categories(ctx context.Context) *library.Categories {
	return library.NewCategories(s.Catalog.Current(ctx).Categories, s.Config.Library)
}

// SoundsInCategory 返回某分类的音效，category 为空时返回全部.
func (s *Services) SoundsInCategory(ctx context.Context, category string) []model.Sound {
	all := s.Catalog.Current(ctx).Sounds
	if category == "" {
		return all
	}

	out := make([]model.Sound, 0)

	for _, snd := range all {
		if snd.Category == category {
			out = append(out, snd)
		}
	}

	return out
}
