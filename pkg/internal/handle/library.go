package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/soundboard/pkg/library"
)

// SearchLibrary 搜索音效库.
//
//	@Summary	音效库搜索
//	@Tags		音效库
//	@Produce	json
//	@Param		q			query		string	false	"标题或标签"
//	@Param		category	query		string	false	"分类 ID"
//	@Success	200			{object}	types.LibraryResponse
//	@Router		/api/v1/library [get]
func SearchLibrary(c *gin.Context) {
	svc, ok := services(c)
	if !ok {
		return
	}

	var q library.Query
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, svc.Library(c.Request.Context(), q))
}
