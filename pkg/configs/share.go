package configs

import "github.com/spf13/viper"

// ShareConfig 分享链接配置.
type ShareConfig struct {
	BaseURL     string `mapstructure:"base_url"     rule:"required,url"`
	MessageText string `mapstructure:"message_text"`
	WhatsAppURL string `mapstructure:"whatsapp_url" rule:"required,url"`
}

func (c *ShareConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("share.base_url", "http://localhost:8080")
	v.SetDefault("share.message_text", "🔊 תשמע את הצליל הזה: ")
	v.SetDefault("share.whatsapp_url", "https://wa.me/")
}
