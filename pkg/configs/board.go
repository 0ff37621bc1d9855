package configs

import "github.com/spf13/viper"

const (
	DefaultBoardSlots          = 6
	DefaultBoardInitialFilled  = 4
	DefaultGlobalVolume        = 70
	DefaultCubeColor           = "bg-red-300"
	DefaultUnknownCategoryName = "לא ידוע"
)

// BoardConfig 音板配置.
type BoardConfig struct {
	Slots         int  `mapstructure:"slots"          rule:"min=1,max=64"`
	InitialFilled int  `mapstructure:"initial_filled" rule:"min=0,ltfield=Slots"`
	DefaultVolume int  `mapstructure:"default_volume" rule:"volume"`
	StrictUnique  bool `mapstructure:"strict_unique"`
	// SeedOnStart serve 启动时对未初始化的音板做首次随机填充
	SeedOnStart bool `mapstructure:"seed_on_start"`
	// Keys 持久化键名，沿用前端 localStorage 的命名
	Keys BoardKeys `mapstructure:"keys"`
}

// BoardKeys 持久化键名.
type BoardKeys struct {
	Board       string `mapstructure:"board"       rule:"required"`
	Initialized string `mapstructure:"initialized" rule:"required"`
	Volume      string `mapstructure:"volume"      rule:"required"`
}

func (c *BoardConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("board.slots", DefaultBoardSlots)
	v.SetDefault("board.initial_filled", DefaultBoardInitialFilled)
	v.SetDefault("board.default_volume", DefaultGlobalVolume)
	v.SetDefault("board.strict_unique", true)
	v.SetDefault("board.seed_on_start", true)
	v.SetDefault("board.keys.board", "soundboard")
	v.SetDefault("board.keys.initialized", "soundboard_initialized")
	v.SetDefault("board.keys.volume", "globalVolume")
}
