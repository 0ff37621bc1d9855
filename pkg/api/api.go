// Package api 组装 HTTP 接口：JSON API、静态音频与运维端点.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/soundboard/pkg/configs"
	"github.com/yeisme/soundboard/pkg/internal/router"
)

// Options 注册选项.
type Options struct {
	// PeerHandler groupcache 对等节点处理器，可为 nil
	PeerHandler http.Handler
}

// RegisterGroup 注册全部路由到传入的 gin 引擎.
func RegisterGroup(e *gin.Engine, cfg *configs.AppConfig, opts Options) *gin.Engine {
	router.RegisterAPIRoutes(e.Group(router.APIPrefix))
	router.RegisterStaticRoute(e, cfg.Catalog)
	router.RegisterMetricsRoute(e, cfg.Metrics)
	router.RegisterPeerRoute(e, opts.PeerHandler)

	return e
}
