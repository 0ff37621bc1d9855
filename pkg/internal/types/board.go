package types

import (
	"github.com/yeisme/soundboard/pkg/internal/model"
	"github.com/yeisme/soundboard/pkg/player"
)

// SlotView 音板上的一个槽位.
type SlotView struct {
	// Index 槽位下标，从 0 开始
	Index int `json:"index"`
	// Sound 空槽位为 null
	Sound *model.Sound `json:"sound"`
	// CategoryName 分类显示名，空槽位为空
	CategoryName string `json:"category_name,omitempty"`
	// Color 格子颜色类名
	Color string `json:"color"`
}

// BoardResponse 音板状态.
type BoardResponse struct {
	Slots       []SlotView `json:"slots"`
	HasEmpty    bool       `json:"has_empty"`
	Initialized bool       `json:"initialized"`
	Volume      int        `json:"volume"`
}

// PlaceSoundRequest 放置或添加音效.
type PlaceSoundRequest struct {
	SoundID string `form:"sound_id" json:"sound_id" binding:"required"`
}

// AddSoundResponse 添加音效的结果.
type AddSoundResponse struct {
	Index int `json:"index"`
}

// SeedResponse 播种结果. Seeded 为 false 表示音板之前已初始化.
type SeedResponse struct {
	Seeded bool          `json:"seeded"`
	Board  BoardResponse `json:"board"`
}

// VolumeRequest 设置音量. 超出 0-100 的值会被截断.
type VolumeRequest struct {
	Volume *int `form:"volume" json:"volume" binding:"required"`
}

// VolumeResponse 当前音量.
type VolumeResponse struct {
	Volume int `json:"volume"`
}

// PlaybackResponse 各播放面的状态，音效库在前.
type PlaybackResponse struct {
	Surfaces []player.Status `json:"surfaces"`
}
