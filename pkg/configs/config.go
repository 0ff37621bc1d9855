// Package configs 管理应用程序配置，包括曲库来源、音板、本地存储和可观测性的配置信息.
// configs 包支持多种配置格式（YAML、JSON、TOML、dotenv）并启用热重载.
//
// Example:
//
//	err := configs.InitConfig("./")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	config := configs.GetConfig()
//	fmt.Println(config.Board.Slots)
//
// Example accessing catalog config:
//
//	catalogConfig := configs.GetConfig().Catalog
//	for _, dir := range catalogConfig.Directories {
//		fmt.Println(catalogConfig.ManifestPath(dir, catalogConfig.SoundsFile))
//	}
package configs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/yeisme/soundboard/pkg/rule"
)

// AppVersion 应用版本，构建时可通过 -ldflags 覆盖.
var AppVersion = "0.1.0"

// EnvPrefix 环境变量前缀，例如 SOUNDBOARD_BOARD_SLOTS.
const EnvPrefix = "SOUNDBOARD"

type (
	// AppConfig 全局应用程序配置.
	AppConfig struct {
		Server         ServerConfig         `mapstructure:"server"`          // 服务器配置，端口、调试模式等
		Log            LogConfig            `mapstructure:"log"`             // 日志相关配置
		KV             KVConfig             `mapstructure:"kv"`              // 本地持久化键值存储
		DB             DBConfig             `mapstructure:"db"`              // 数据库配置（kv.type=db 时使用）
		S3             S3Config             `mapstructure:"s3"`              // 对象存储配置（catalog.source=s3 时使用）
		MQ             MQConfig             `mapstructure:"mq"`              // 事件总线传输
		Events         EventsConfig         `mapstructure:"events"`          // 事件开关
		Catalog        CatalogConfig        `mapstructure:"catalog"`         // 曲库加载
		Board          BoardConfig          `mapstructure:"board"`           // 音板
		Library        LibraryConfig        `mapstructure:"library"`         // 音效库搜索
		Player         PlayerConfig         `mapstructure:"player"`          // 播放器
		Share          ShareConfig          `mapstructure:"share"`           // 分享链接
		Creator        CreatorConfig        `mapstructure:"creator"`         // 创作者信息
		Metrics        MetricsConfig        `mapstructure:"metrics"`         // Prometheus 指标
		Tracing        TracingConfig        `mapstructure:"tracing"`         // OpenTelemetry 追踪
		RateLimit      RateLimitConfig      `mapstructure:"rate_limit"`      // API 限流
		CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"` // 熔断
	}
)

var (
	// globalConfig 全局配置实例.
	globalConfig AppConfig
	// appViper 全局 Viper 实例.
	appViper *viper.Viper
	// mu 保护热重载时的并发读写.
	mu sync.RWMutex
)

// InitConfig 加载应用程序配置，支持多种格式(yaml、json、toml、dotenv)并启用热重载.
// 找不到配置文件时使用默认值.
func InitConfig(path string) error {
	v := viper.New()
	// 设置默认值
	setAllDefaults(v)

	if path == "" {
		path = "."
	}

	explicit := false

	// 检查path是否是文件
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		v.SetConfigFile(path)

		explicit = true
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(path)
		v.AddConfigPath(filepath.Join(path, "configs"))

		for _, ext := range []string{"yaml", "yml", "json", "toml", "env", "dotenv"} {
			cfg := filepath.Join(path, "config."+ext)
			if _, err := os.Stat(cfg); err == nil {
				v.SetConfigFile(cfg)

				explicit = true

				break
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	mu.Lock()
	globalConfig = cfg
	appViper = v
	mu.Unlock()

	reloadConfigs(v, cfg.Server.ReloadConfig && v.ConfigFileUsed() != "")

	return nil
}

// Validate 校验配置中的 rule 标签，跨字段约束（如 initial_filled < slots）也写在标签里.
func (c *AppConfig) Validate() error {
	if err := rule.ValidateStruct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	return nil
}

// setAllDefaults 设置所有配置的默认值.
func setAllDefaults(v *viper.Viper) {
	var c AppConfig

	c.Server.setDefaults(v)
	c.Log.setDefaults(v)
	c.KV.setDefaults(v)
	c.DB.setDefaults(v)
	c.S3.setDefaults(v)
	c.MQ.setDefaults(v)
	c.Events.setDefaults(v)
	c.Catalog.setDefaults(v)
	c.Board.setDefaults(v)
	c.Library.setDefaults(v)
	c.Player.setDefaults(v)
	c.Share.setDefaults(v)
	c.Creator.setDefaults(v)
	c.Metrics.setDefaults(v)
	c.Tracing.setDefaults(v)
	c.RateLimit.setDefaults(v)
	c.CircuitBreaker.setDefaults(v)
}

// Defaults 返回只包含默认值的配置，测试与未调用 InitConfig 的场景使用.
func Defaults() AppConfig {
	v := viper.New()
	setAllDefaults(v)

	var cfg AppConfig
	_ = v.Unmarshal(&cfg)

	return cfg
}

func reloadConfigs(v *viper.Viper, isHotReload bool) {
	if !isHotReload {
		return
	}
	// 启用配置热重载
	v.OnConfigChange(func(e fsnotify.Event) {
		fmt.Fprintln(os.Stderr, "Config file changed:", e.Name)

		var cfg AppConfig
		if err := v.Unmarshal(&cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error reloading config: %v\n", err)

			return
		}

		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Ignoring reloaded config: %v\n", err)

			return
		}

		mu.Lock()
		globalConfig = cfg
		mu.Unlock()
	})
	v.WatchConfig()
}

// GetConfig 返回全局配置实例的快照.
func GetConfig() *AppConfig {
	mu.RLock()
	defer mu.RUnlock()

	cfg := globalConfig

	return &cfg
}

// SetConfig 替换全局配置，主要供测试使用.
func SetConfig(cfg AppConfig) {
	mu.Lock()
	globalConfig = cfg
	mu.Unlock()
}

func GetViper() *viper.Viper {
	mu.RLock()
	defer mu.RUnlock()

	return appViper
}
