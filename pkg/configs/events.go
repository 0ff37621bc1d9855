package configs

import "github.com/spf13/viper"

// EventsConfig 控制事件发布的开关（全局与分主题）。
type EventsConfig struct {
	Enabled  bool   `mapstructure:"enabled"` // 总开关
	Producer string `mapstructure:"producer"`
	Board    bool   `mapstructure:"board"`   // sb.board.changed
	Volume   bool   `mapstructure:"volume"`  // sb.volume.changed
	Catalog  bool   `mapstructure:"catalog"` // sb.catalog.reloaded
}

func (c *EventsConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("events.enabled", true)
	v.SetDefault("events.producer", "soundboard")
	v.SetDefault("events.board", true)
	v.SetDefault("events.volume", true)
	v.SetDefault("events.catalog", true)
}
