package types

import (
	"time"

	"github.com/yeisme/soundboard/pkg/internal/model"
	"github.com/yeisme/soundboard/pkg/library"
)

// CategoriesResponse 可见分类列表.
type CategoriesResponse struct {
	Version    string           `json:"version"`
	Categories []model.Category `json:"categories"`
}

// SoundsQuery 音效列表查询.
type SoundsQuery struct {
	Category string `form:"category"`
}

// SoundsResponse 音效列表.
type SoundsResponse struct {
	Version string        `json:"version"`
	Sounds  []model.Sound `json:"sounds"`
	Total   int           `json:"total"`
}

// PromotionsResponse 推广卡片.
type PromotionsResponse struct {
	Promotions []model.Promotion `json:"promotions"`
}

// ReloadResponse 曲库重新加载结果.
type ReloadResponse struct {
	Version    string    `json:"version"`
	LoadedAt   time.Time `json:"loaded_at"`
	Categories int       `json:"categories"`
	Sounds     int       `json:"sounds"`
	Promotions int       `json:"promotions"`
}

// LibraryResponse 音效库搜索结果.
type LibraryResponse struct {
	Items    []library.Item `json:"items"`
	Total    int            `json:"total"`
	HasEmpty bool           `json:"has_empty"`
}
