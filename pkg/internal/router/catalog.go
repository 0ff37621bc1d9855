package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/soundboard/pkg/internal/handle"
)

// RegisterCatalogRoutes 注册曲库、音效库与分享路由.
func RegisterCatalogRoutes(g *gin.RouterGroup) {
	catalogRoutes := g.Group("/catalog")
	{
		catalogRoutes.GET("/categories", handle.ListCategories)
		catalogRoutes.GET("/sounds", handle.ListSounds)
		catalogRoutes.GET("/promotions", handle.ListPromotions)
		catalogRoutes.POST("/reload", handle.ReloadCatalog)
	}

	g.GET("/library", handle.SearchLibrary)
	g.GET("/share/:id", handle.ShareSound)
}
