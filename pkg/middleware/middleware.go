// Package middleware 提供 gin 中间件.
package middleware

import (
	"github.com/gin-gonic/gin"

	ctxPkg "github.com/yeisme/soundboard/pkg/context"
	"github.com/yeisme/soundboard/pkg/internal/service"
	"github.com/yeisme/soundboard/pkg/scheduler"
)

// ServicesMiddleware 将业务服务注入到请求上下文.
func ServicesMiddleware(svc *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(ctxPkg.WithServices(c.Request.Context(), svc))
		c.Next()
	}
}

// SchedulerMiddleware 将调度器注入到请求上下文.
func SchedulerMiddleware(sched *scheduler.Scheduler) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(ctxPkg.WithScheduler(c.Request.Context(), sched))
		c.Next()
	}
}
