package library

import (
	"github.com/yeisme/soundboard/pkg/configs"
	"github.com/yeisme/soundboard/pkg/internal/model"
)

// Categories 分类查找表.
type Categories struct {
	byID         map[string]model.Category
	unknownName  string
	defaultColor string
}

// NewCategories 以分类 ID 建索引.
func NewCategories(categories []model.Category, cfg configs.LibraryConfig) *Categories {
	byID := make(map[string]model.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}

	return &Categories{
		byID:         byID,
		unknownName:  cfg.UnknownCategoryName,
		defaultColor: cfg.DefaultColor,
	}
}

// Name 分类显示名，未知分类返回配置的占位名.
func (c *Categories) Name(id string) string {
	if cat, ok := c.byID[id]; ok && cat.Name != "" {
		return cat.Name
	}

	return c.unknownName
}

// Color 分类颜色类名，缺失时返回默认颜色.
func (c *Categories) Color(id string) string {
	if cat, ok := c.byID[id]; ok && cat.Color != "" {
		return cat.Color
	}

	return c.defaultColor
}

// Membership 音板上音效 ID 的集合.
type Membership map[string]struct{}

// NewMembership 从槽位构建集合，空槽位跳过.
func NewMembership(slots []*model.Sound) Membership {
	m := make(Membership, len(slots))
	for _, s := range slots {
		if s != nil {
			m[s.ID] = struct{}{}
		}
	}

	return m
}

// Has 音效是否在音板上.
func (m Membership) Has(id string) bool {
	_, ok := m[id]

	return ok
}

// Item 带展示信息的搜索结果.
type Item struct {
	Sound        model.Sound `json:"sound"`
	CategoryName string      `json:"category_name"`
	Color        string      `json:"color"`
	OnBoard      bool        `json:"on_board"`
}

// Decorate 为结果附加分类名、颜色与是否在音板上.
func Decorate(sounds []model.Sound, cats *Categories, onBoard Membership) []Item {
	items := make([]Item, 0, len(sounds))
	for _, s := range sounds {
		items = append(items, Item{
			Sound:        s,
			CategoryName: cats.Name(s.Category),
			Color:        cats.Color(s.Category),
			OnBoard:      onBoard.Has(s.ID),
		})
	}

	return items
}
