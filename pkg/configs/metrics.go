// Package configs 管理应用程序配置，包括Metrics的配置信息.
//
// Example:
//
//	config := configs.GetConfig()
//	metricsConfig := config.Metrics
//	if metricsConfig.Enabled {
//		// 初始化Metrics
//	}
package configs

import (
	"github.com/spf13/viper"
)

// MetricsConfig Metrics相关配置.
type MetricsConfig struct {
	Enabled        bool              `mapstructure:"enabled"`         // 是否启用Metrics
	Path           string            `mapstructure:"path"`            // 暴露路径
	RuntimeMetrics bool              `mapstructure:"runtime_metrics"` // 是否收集运行时指标
	DBMetrics      bool              `mapstructure:"db_metrics"`      // 是否启用 gorm prometheus 插件
	Labels         map[string]string `mapstructure:"labels"`          // 默认标签
}

// setDefaults 设置Metrics配置的默认值.
func (c *MetricsConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("metrics.runtime_metrics", true)
	v.SetDefault("metrics.db_metrics", false)
	v.SetDefault("metrics.labels", map[string]string{
		"service": "soundboard",
	})
}
