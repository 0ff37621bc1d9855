package configs

import "github.com/spf13/viper"

// CreatorConfig 创作者页面信息.
type CreatorConfig struct {
	Name  string        `mapstructure:"name"`
	Links []CreatorLink `mapstructure:"links" rule:"dive"`
}

// CreatorLink 外链.
type CreatorLink struct {
	Title string `mapstructure:"title" rule:"required"`
	URL   string `mapstructure:"url"   rule:"required,url"`
}

func (c *CreatorConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("creator.name", "taichovitz")
	v.SetDefault("creator.links", []map[string]string{
		{"title": "Instagram", "url": "https://www.instagram.com/taichovitz/?hl=he"},
	})
}
