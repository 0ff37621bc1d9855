package handle

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/soundboard/pkg/catalog"
	"github.com/yeisme/soundboard/pkg/internal/types"
)

// notModified 写入 ETag，客户端缓存仍有效时返回 true 并以 304 结束请求.
func notModified(c *gin.Context, cat *catalog.Catalog) bool {
	etag := `"` + cat.Version + `"`
	c.Header("ETag", etag)

	for _, tag := range strings.Split(c.GetHeader("If-None-Match"), ",") {
		tag = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(tag), "W/"))
		if tag == etag || tag == "*" {
			c.Status(http.StatusNotModified)
			return true
		}
	}

	return false
}

// ListCategories 返回可见分类.
//
//	@Summary	分类列表
//	@Tags		曲库
//	@Produce	json
//	@Success	200	{object}	types.CategoriesResponse
//	@Success	304
//	@Router		/api/v1/catalog/categories [get]
func ListCategories(c *gin.Context) {
	svc, ok := services(c)
	if !ok {
		return
	}

	cat := svc.Catalog.Current(c.Request.Context())
	if notModified(c, cat) {
		return
	}

	c.JSON(http.StatusOK, types.CategoriesResponse{Version: cat.Version, Categories: cat.Categories})
}

// ListSounds 返回音效，可按分类过滤.
//
//	@Summary	音效列表
//	@Tags		曲库
//	@Produce	json
//	@Param		category	query		string	false	"分类 ID"
//	@Success	200			{object}	types.SoundsResponse
//	@Router		/api/v1/catalog/sounds [get]
func ListSounds(c *gin.Context) {
	svc, ok := services(c)
	if !ok {
		return
	}

	var q types.SoundsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()

	cat := svc.Catalog.Current(ctx)
	if notModified(c, cat) {
		return
	}

	sounds := svc.SoundsInCategory(ctx, q.Category)
	c.JSON(http.StatusOK, types.SoundsResponse{Version: cat.Version, Sounds: sounds, Total: len(sounds)})
}

// ListPromotions 返回推广卡片.
func ListPromotions(c *gin.Context) {
	svc, ok := services(c)
	if !ok {
		return
	}

	cat := svc.Catalog.Current(c.Request.Context())
	c.JSON(http.StatusOK, types.PromotionsResponse{Promotions: cat.Promotions})
}

// ReloadCatalog 重新拉取全部清单.
//
//	@Summary	重新加载曲库
//	@Tags		曲库
//	@Produce	json
//	@Success	200	{object}	types.ReloadResponse
//	@Router		/api/v1/catalog/reload [post]
func ReloadCatalog(c *gin.Context) {
	svc, ok := services(c)
	if !ok {
		return
	}

	cat := svc.Catalog.Reload(c.Request.Context())
	c.Header("ETag", `"`+cat.Version+`"`)
	c.JSON(http.StatusOK, types.ReloadResponse{
		Version:    cat.Version,
		LoadedAt:   cat.LoadedAt,
		Categories: len(cat.Categories),
		Sounds:     len(cat.Sounds),
		Promotions: len(cat.Promotions),
	})
}
