package service

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/yeisme/soundboard/pkg/board"
	"github.com/yeisme/soundboard/pkg/configs"
	"github.com/yeisme/soundboard/pkg/internal/model"
	"github.com/yeisme/soundboard/pkg/player"
	"github.com/yeisme/soundboard/pkg/share"
)

// ShareLink 生成音效的分享内容.
func (s *Services) ShareLink(ctx context.Context, soundID string) (share.Link, error) {
	snd, err := s.Sound(ctx, soundID)
	if err != nil {
		return share.Link{}, err
	}

	return s.Share.Build(snd), nil
}

// AudioLocation 播放器可直接打开的位置：本地目录来源返回文件路径，其余返回 URL.
func (s *Services) AudioLocation(snd model.Sound) string {
	cfg := s.Config.Catalog
	rel := cfg.AudioPath(snd.Dir, snd.Filename)

	switch cfg.Source {
	case configs.CatalogSourceDir:
		return filepath.Join(cfg.Dir, filepath.FromSlash(rel))
	case configs.CatalogSourceHTTP:
		return strings.TrimRight(cfg.BaseURL, "/") + "/" + (&url.URL{Path: rel}).EscapedPath()
	default:
		return s.Share.AudioURL(snd)
	}
}

// PlayRequest 组装播放请求，音量取全局音量.
func (s *Services) PlayRequest(ctx context.Context, soundID string) (player.Request, error) {
	snd, err := s.Sound(ctx, soundID)
	if err != nil {
		return player.Request{}, err
	}

	return player.Request{
		SoundID:  snd.ID,
		Location: s.AudioLocation(snd),
		Volume:   s.Board.Volume(ctx),
	}, nil
}

// PlayLibrary 在音效库播放面播放，同一音效再次调用即停止.
// 播放器启动失败体现在返回状态中，error 只表示音效不存在.
func (s *Services) PlayLibrary(ctx context.Context, soundID string) (player.Status, error) {
	req, err := s.PlayRequest(ctx, soundID)
	if err != nil {
		return player.Status{}, err
	}

	surface := s.Deck.Library()
	// 播放进程的生命周期不随请求结束
	_, _ = surface.Play(context.WithoutCancel(ctx), req)

	return surface.Status(), nil
}

// PlaySlot 从头播放格子里的音效.
func (s *Services) PlaySlot(ctx context.Context, index int) (player.Status, error) {
	surface, ok := s.Deck.Slot(index)
	if !ok {
		return player.Status{}, fmt.Errorf("%w: %d", board.ErrSlotOutOfRange, index)
	}

	slots := s.Board.Slots(ctx)
	if index >= len(slots) || slots[index] == nil {
		return player.Status{}, fmt.Errorf("%w: %d", ErrSlotEmpty, index)
	}

	req, err := s.PlayRequest(ctx, slots[index].ID)
	if err != nil {
		return player.Status{}, err
	}

	_, _ = surface.Play(context.WithoutCancel(ctx), req)

	return surface.Status(), nil
}
