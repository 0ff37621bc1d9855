package service

import (
	"context"

	"github.com/yeisme/soundboard/pkg/internal/types"
)

// BoardView 音板状态，附带分类名与颜色.
func (s *Services) BoardView(ctx context.Context) types.BoardResponse {
	cats := s.Categories(ctx)
	slots := s.Board.Slots(ctx)

	resp := types.BoardResponse{
		Slots:       make([]types.SlotView, len(slots)),
		Initialized: s.Board.Initialized(ctx),
		Volume:      s.Board.Volume(ctx),
	}

	for i, snd := range slots {
		view := types.SlotView{Index: i, Sound: snd, Color: s.Config.Library.DefaultColor}
		if snd != nil {
			view.CategoryName = cats.Name(snd.Category)
			view.Color = cats.Color(snd.Category)
		} else {
			resp.HasEmpty = true
		}

		resp.Slots[i] = view
	}

	return resp
}

// SeedBoard 首次使用时用曲库随机填充音板.
func (s *Services) SeedBoard(ctx context.Context) (bool, error) {
	return s.Board.Seed(ctx, s.Catalog.Current(ctx).Sounds)
}

// PlaceSound 把音效放入指定槽位.
func (s *Services) PlaceSound(ctx context.Context, index int, soundID string) error {
	snd, err := s.Sound(ctx, soundID)
	if err != nil {
		return err
	}

	return s.Board.Place(ctx, index, snd)
}

// AddSound 把音效放入第一个空槽位.
func (s *Services) AddSound(ctx context.Context, soundID string) (int, error) {
	snd, err := s.Sound(ctx, soundID)
	if err != nil {
		return -1, err
	}

	return s.Board.Add(ctx, snd)
}

// RemoveSlot 清空槽位，并停止该格子正在播放的声音.
func (s *Services) RemoveSlot(ctx context.Context, index int) error {
	if err := s.Board.Remove(ctx, index); err != nil {
		return err
	}

	if surface, ok := s.Deck.Slot(index); ok {
		surface.Stop()
	}

	return nil
}
