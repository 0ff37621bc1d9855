package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ShareSound 返回音效的分享内容.
//
//	@Summary	分享音效
//	@Tags		分享
//	@Produce	json
//	@Param		id	path		string	true	"音效 ID"
//	@Success	200	{object}	share.Link
//	@Failure	404	{object}	map[string]string
//	@Router		/api/v1/share/{id} [get]
func ShareSound(c *gin.Context) {
	svc, ok := services(c)
	if !ok {
		return
	}

	link, err := svc.ShareLink(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, link)
}
