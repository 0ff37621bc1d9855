package configs

import "github.com/spf13/viper"

// LibraryConfig 音效库搜索配置.
type LibraryConfig struct {
	Locale              string `mapstructure:"locale"                rule:"required,bcp47_language_tag"`
	UnknownCategoryName string `mapstructure:"unknown_category_name" rule:"required"`
	DefaultColor        string `mapstructure:"default_color"         rule:"required"`
}

func (c *LibraryConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("library.locale", "he")
	v.SetDefault("library.unknown_category_name", DefaultUnknownCategoryName)
	v.SetDefault("library.default_color", DefaultCubeColor)
}
