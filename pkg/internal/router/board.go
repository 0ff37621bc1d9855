package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/soundboard/pkg/internal/handle"
)

// RegisterBoardRoutes 注册音板与音量路由.
func RegisterBoardRoutes(g *gin.RouterGroup) {
	boardRoutes := g.Group("/board")
	{
		boardRoutes.GET("", handle.GetBoard)
		boardRoutes.POST("/seed", handle.SeedBoard)
		boardRoutes.POST("/sounds", handle.AddSound)
		boardRoutes.PUT("/slots/:index", handle.PlaceSound)
		boardRoutes.DELETE("/slots/:index", handle.RemoveSlot)
	}

	g.GET("/volume", handle.GetVolume)
	g.PUT("/volume", handle.SetVolume)
}

// RegisterPlayerRoutes 注册服务端播放路由：音效库列表切换播放，格子从头播放.
func RegisterPlayerRoutes(g *gin.RouterGroup) {
	playerRoutes := g.Group("/player")
	{
		playerRoutes.GET("", handle.GetPlayback)
		playerRoutes.DELETE("", handle.StopPlayback)
		playerRoutes.POST("/library/:id", handle.PlayLibrarySound)
		playerRoutes.POST("/slots/:index", handle.PlaySlotSound)
	}
}

// RegisterEventRoutes 注册事件流路由.
func RegisterEventRoutes(g *gin.RouterGroup) {
	g.GET("/events", handle.StreamEvents)
}
