package service

import (
	"context"

	"github.com/yeisme/soundboard/pkg/internal/types"
	"github.com/yeisme/soundboard/pkg/library"
)

// Library 搜索音效库，结果标注是否已在音板上.
func (s *Services) Library(ctx context.Context, q library.Query) types.LibraryResponse {
	sounds := s.Searcher.Filter(s.Catalog.Current(ctx).Sounds, q)
	slots := s.Board.Slots(ctx)

	hasEmpty := false

	for _, snd := range slots {
		if snd == nil {
			hasEmpty = true

			break
		}
	}

	items := library.Decorate(sounds, s.Categories(ctx), library.NewMembership(slots))

	return types.LibraryResponse{Items: items, Total: len(items), HasEmpty: hasEmpty}
}
