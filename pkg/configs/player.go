package configs

import "github.com/spf13/viper"

// PlayerConfig 外部播放器配置. 音量以 0-100 传给 VolumeFlag.
type PlayerConfig struct {
	Command    string   `mapstructure:"command"     rule:"required"`
	Args       []string `mapstructure:"args"`
	VolumeFlag string   `mapstructure:"volume_flag"`
}

func (c *PlayerConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("player.command", "ffplay")
	v.SetDefault("player.args", []string{"-nodisp", "-autoexit", "-loglevel", "quiet"})
	v.SetDefault("player.volume_flag", "-volume")
}
