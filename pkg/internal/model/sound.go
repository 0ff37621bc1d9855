package model

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Sound 曲库中的一条音效. 加载后不可变.
type Sound struct {
	// ID 稳定标识：清单显式给出的 id，否则由 category + filename 派生
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Filename   string   `json:"filename"`
	Tags       []string `json:"tags"`
	HiddenTags []string `json:"hidden_tags"`
	Category   string   `json:"category"`
	// Dir 加载该音效的分类目录，由加载器填写
	Dir string `json:"dir,omitempty"`
}

// DeriveSoundID 用 category 与 filename 派生稳定 ID. 标题只用于展示，不参与身份.
func DeriveSoundID(category, filename string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(category+"\x00"+filename))
}

// Normalize 填充加载器负责的字段：目录、缺省 ID 与空切片.
func (s *Sound) Normalize(dir string) {
	if s.Dir == "" {
		s.Dir = dir
	}

	if s.Category == "" {
		s.Category = dir
	}

	if s.ID == "" {
		s.ID = DeriveSoundID(s.Category, s.Filename)
	}

	if s.Tags == nil {
		s.Tags = []string{}
	}

	if s.HiddenTags == nil {
		s.HiddenTags = []string{}
	}
}

// Valid 清单里缺少标题或文件名的条目无法播放.
func (s *Sound) Valid() bool {
	return s.Title != "" && s.Filename != ""
}
