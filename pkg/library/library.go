// Package library 实现曲库的过滤与搜索.
package library

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/yeisme/soundboard/pkg/configs"
	"github.com/yeisme/soundboard/pkg/internal/model"
)

// Query 搜索条件. Category 为空表示全部分类.
type Query struct {
	Text     string `form:"q"        json:"q"`
	Category string `form:"category" json:"category"`
}

// Searcher 按配置的语言排序结果.
type Searcher struct {
	tag language.Tag
}

// NewSearcher 创建搜索器，无法解析的语言回退到 und.
func NewSearcher(cfg configs.LibraryConfig) *Searcher {
	tag, err := language.Parse(cfg.Locale)
	if err != nil {
		tag = language.Und
	}

	return &Searcher{tag: tag}
}

// Filter 返回同时满足文本与分类条件的音效，按标题排序，排序稳定.
// 文本匹配不区分大小写，范围为标题、标签与隐藏标签.
func (s *Searcher) Filter(sounds []model.Sound, q Query) []model.Sound {
	needle := strings.ToLower(q.Text)

	out := make([]model.Sound, 0, len(sounds))
	for _, snd := range sounds {
		if q.Category != "" && snd.Category != q.Category {
			continue
		}

		if needle != "" && !matches(snd, needle) {
			continue
		}

		out = append(out, snd)
	}

	// collator 不是并发安全的，每次调用新建
	col := collate.New(s.tag)
	slices.SortStableFunc(out, func(a, b model.Sound) int {
		return col.CompareString(a.Title, b.Title)
	})

	return out
}

func matches(snd model.Sound, needle string) bool {
	if strings.Contains(strings.ToLower(snd.Title), needle) {
		return true
	}

	for _, tag := range snd.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}

	for _, tag := range snd.HiddenTags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}

	return false
}
