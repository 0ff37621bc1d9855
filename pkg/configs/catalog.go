package configs

import (
	"path"
	"time"

	"github.com/spf13/viper"
)

// CatalogSource 曲库清单来源.
type CatalogSource string

const (
	CatalogSourceHTTP CatalogSource = "http" // 静态内容服务器，例如 https://host/sounds/
	CatalogSourceDir  CatalogSource = "dir"  // 本地目录
	CatalogSourceS3   CatalogSource = "s3"   // MinIO/S3 存储桶

	// AudioLayoutFlat 音频路径为 sounds/<filename>.
	AudioLayoutFlat = "flat"
	// AudioLayoutCategory 音频路径为 sounds/<dir>/<filename>.
	AudioLayoutCategory = "category"
)

// DefaultCatalogDirectories 内置的分类目录列表，顺序即加载顺序.
var DefaultCatalogDirectories = []string{
	"brano", "peres", "berko", "jamil", "dorit", "shon",
	"sheftel", "gamliel", "netali", "otot", "jerry",
}

// CatalogConfig 曲库加载配置.
type CatalogConfig struct {
	Source          CatalogSource `mapstructure:"source"           rule:"oneof=http dir s3"`
	BaseURL         string        `mapstructure:"base_url"         rule:"omitempty,url"`
	Dir             string        `mapstructure:"dir"`
	StaticDir       string        `mapstructure:"static_dir"`
	Directories     []string      `mapstructure:"directories"      rule:"min=1,dive,required"`
	CategoryFile    string        `mapstructure:"category_file"    rule:"required"`
	SoundsFile      string        `mapstructure:"sounds_file"      rule:"required"`
	PromotionsFile  string        `mapstructure:"promotions_file"`
	AudioLayout     string        `mapstructure:"audio_layout"     rule:"oneof=flat category"`
	Concurrency     int           `mapstructure:"concurrency"      rule:"min=1,max=64"`
	Timeout         time.Duration `mapstructure:"timeout"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	UserAgent       string        `mapstructure:"user_agent"`
}

// ManifestPath 返回某分类目录下清单文件的相对路径.
func (c *CatalogConfig) ManifestPath(dir, file string) string {
	return path.Join(dir, file)
}

// AudioPath 返回音频文件相对于内容根的路径（不含 sounds/ 前缀）.
func (c *CatalogConfig) AudioPath(dir, filename string) string {
	if c.AudioLayout == AudioLayoutCategory && dir != "" {
		return path.Join(dir, filename)
	}

	return filename
}

func (c *CatalogConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("catalog.source", CatalogSourceDir)
	v.SetDefault("catalog.base_url", "http://localhost:8080/sounds/")
	v.SetDefault("catalog.dir", "public/sounds")
	v.SetDefault("catalog.static_dir", "public/sounds")
	v.SetDefault("catalog.directories", DefaultCatalogDirectories)
	v.SetDefault("catalog.category_file", "category.json")
	v.SetDefault("catalog.sounds_file", "sounds.json")
	v.SetDefault("catalog.promotions_file", "catalog.json")
	v.SetDefault("catalog.audio_layout", AudioLayoutFlat)
	v.SetDefault("catalog.concurrency", 8)
	v.SetDefault("catalog.timeout", "10s")
	v.SetDefault("catalog.refresh_interval", "0s")
	v.SetDefault("catalog.user_agent", "soundboard/"+AppVersion)
}
