// Package share 生成音效的分享链接与分享文案.
package share

import (
	"net/url"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/yeisme/soundboard/pkg/configs"
	"github.com/yeisme/soundboard/pkg/internal/model"
)

// Link 分享内容.
type Link struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Text        string `json:"text"`
	WhatsAppURL string `json:"whatsapp_url"`
}

// Builder 按配置拼装分享链接.
type Builder struct {
	share   configs.ShareConfig
	catalog configs.CatalogConfig
}

// NewBuilder 创建分享链接构造器.
func NewBuilder(share configs.ShareConfig, catalog configs.CatalogConfig) *Builder {
	return &Builder{share: share, catalog: catalog}
}

// AudioURL 音效文件的公开地址 <base_url>/sounds/<path>.
func (b *Builder) AudioURL(s model.Sound) string {
	base := strings.TrimRight(b.share.BaseURL, "/")

	return base + "/sounds/" + escapePath(b.catalog.AudioPath(s.Dir, s.Filename))
}

// Build 生成分享内容.
func (b *Builder) Build(s model.Sound) Link {
	u := b.AudioURL(s)
	text := b.share.MessageText + s.Title + " " + u

	return Link{
		Title:       s.Title,
		URL:         u,
		Text:        text,
		WhatsAppURL: b.share.WhatsAppURL + "?text=" + url.QueryEscape(text),
	}
}

// Copy 把分享文案写入系统剪贴板.
func Copy(l Link) error {
	return clipboard.WriteAll(l.Text)
}

// ClipboardAvailable 当前环境是否有可用的剪贴板工具.
func ClipboardAvailable() bool {
	return !clipboard.Unsupported
}

func escapePath(p string) string {
	parts := strings.Split(p, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}

	return strings.Join(parts, "/")
}
