// Package router 管理路由配置，将路径绑定到 pkg/internal/handle 提供的处理器.
package router

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/soundboard/pkg/configs"
	"github.com/yeisme/soundboard/pkg/metrics"
	nlog "github.com/yeisme/soundboard/pkg/log"
)

// APIPrefix JSON API 的路由前缀.
const APIPrefix = "/api/v1"

// RegisterAPIRoutes 注册 /api/v1 下的全部路由.
func RegisterAPIRoutes(g *gin.RouterGroup) {
	RegisterHealthCheckRoute(g)
	RegisterCatalogRoutes(g)
	RegisterBoardRoutes(g)
	RegisterPlayerRoutes(g)
	RegisterEventRoutes(g)
	RegisterSchedulerRoutes(g)
}

// RegisterStaticRoute 把 catalog.static_dir 作为 /sounds 静态内容根. 目录不存在时跳过.
func RegisterStaticRoute(r *gin.Engine, cfg configs.CatalogConfig) {
	if cfg.StaticDir == "" {
		return
	}

	if info, err := os.Stat(cfg.StaticDir); err != nil || !info.IsDir() {
		nlog.Logger().Warn().Str("dir", cfg.StaticDir).Msg("static sounds directory not found, /sounds disabled")
		return
	}

	r.StaticFS("/sounds", gin.Dir(cfg.StaticDir, false))
}

// RegisterMetricsRoute 挂载 Prometheus 抓取端点.
func RegisterMetricsRoute(r *gin.Engine, cfg configs.MetricsConfig) {
	if !cfg.Enabled {
		return
	}

	path := cfg.Path
	if path == "" {
		path = "/metrics"
	}

	r.GET(path, gin.WrapH(metrics.Handler()))
}

// RegisterPeerRoute 挂载 groupcache 对等节点处理器，h 为 nil 时跳过.
func RegisterPeerRoute(r *gin.Engine, h http.Handler) {
	if h == nil {
		return
	}

	r.Any("/_groupcache/*any", gin.WrapH(h))
}
