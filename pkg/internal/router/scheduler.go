package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/soundboard/pkg/internal/handle"
)

// RegisterSchedulerRoutes 注册调度器相关路由.
func RegisterSchedulerRoutes(g *gin.RouterGroup) {
	g.GET("/scheduler/jobs", handle.SchedulerJobs)

	g.POST("/scheduler/jobs/:name/run", handle.SchedulerRunJob)
}
