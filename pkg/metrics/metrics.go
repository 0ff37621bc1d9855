// Package metrics 提供监控指标功能.
// 基于 Prometheus，收集 API、曲库加载、音板与播放相关指标.
//
// Example:
//
//	if err := metrics.InitMetrics(cfg.Metrics); err != nil {
//		return err
//	}
//
//	metrics.CatalogFetches.WithLabelValues("brano", metrics.KindSounds, metrics.ResultOK).Inc()
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yeisme/soundboard/pkg/configs"
)

const namespace = "soundboard"

// 标签取值.
const (
	ResultOK    = "ok"
	ResultError = "error"

	KindCategory   = "category"
	KindSounds     = "sounds"
	KindPromotions = "promotions"
)

// 全局指标变量.
var (
	// RequestCounter HTTP请求计数器.
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// RequestDuration HTTP请求持续时间.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// CatalogFetches 清单抓取次数，按分类目录、清单类型与结果.
	CatalogFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_fetches_total",
			Help:      "Catalog manifest fetches by directory, kind and result",
		},
		[]string{"dir", "kind", "result"},
	)

	// CatalogSize 最近一次加载的曲库规模.
	CatalogSize = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_items",
			Help:      "Number of items in the last loaded catalog",
		},
		[]string{"kind"},
	)

	// BoardOccupiedSlots 音板已占用槽位数.
	BoardOccupiedSlots = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "board_occupied_slots",
			Help:      "Number of occupied soundboard slots",
		},
	)

	// BoardMutations 音板变更次数.
	BoardMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "board_mutations_total",
			Help:      "Soundboard mutations by operation and result",
		},
		[]string{"op", "result"},
	)

	// Playbacks 播放次数，按播放面与结果.
	Playbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "playbacks_total",
			Help:      "Playback attempts by surface and result",
		},
		[]string{"surface", "result"},
	)

	// StoreErrors 持久化存储读写失败次数.
	StoreErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_errors_total",
			Help:      "Persistent store failures by operation",
		},
		[]string{"op"},
	)

	// registry Prometheus注册表.
	registry = prometheus.NewRegistry()
	initOnce sync.Once
)

// InitMetrics 注册全部指标（幂等）. 未启用时指标仍可写入，只是不会被暴露.
func InitMetrics(config configs.MetricsConfig) error {
	if !config.Enabled {
		return nil
	}

	var err error

	initOnce.Do(func() {
		// 运行时指标由默认注册表提供，关闭时从中移除
		if !config.RuntimeMetrics {
			prometheus.Unregister(collectors.NewGoCollector())
			prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		}

		for _, c := range []prometheus.Collector{
			RequestCounter, RequestDuration,
			CatalogFetches, CatalogSize,
			BoardOccupiedSlots, BoardMutations,
			Playbacks, StoreErrors,
		} {
			if e := registry.Register(c); e != nil {
				err = e

				return
			}
		}
	})

	return err
}

// Handler 返回 /metrics 处理器，同时导出默认注册表（gorm、watermill 插件注册在那里）.
func Handler() http.Handler {
	return promhttp.HandlerFor(
		prometheus.Gatherers{registry, prometheus.DefaultGatherer},
		promhttp.HandlerOpts{},
	)
}

// GetRegistry 获取Prometheus注册表.
func GetRegistry() *prometheus.Registry {
	return registry
}

// ObserveResult 把 error 映射为 result 标签.
func ObserveResult(err error) string {
	if err != nil {
		return ResultError
	}

	return ResultOK
}
