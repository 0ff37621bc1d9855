package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/soundboard/pkg/internal/types"
)

// GetBoard 返回音板状态.
//
//	@Summary	音板状态
//	@Tags		音板
//	@Produce	json
//	@Success	200	{object}	types.BoardResponse
//	@Router		/api/v1/board [get]
func GetBoard(c *gin.Context) {
	svc, ok := services(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, svc.BoardView(c.Request.Context()))
}

// SeedBoard 首次使用时随机填充音板，之后调用不改变音板.
//
//	@Summary	初始化音板
//	@Tags		音板
//	@Produce	json
//	@Success	200	{object}	types.SeedResponse
//	@Router		/api/v1/board/seed [post]
func SeedBoard(c *gin.Context) {
	svc, ok := services(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()

	seeded, err := svc.SeedBoard(ctx)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, types.SeedResponse{Seeded: seeded, Board: svc.BoardView(ctx)})
}

// PlaceSound 把音效放到指定槽位，覆盖原有内容.
//
//	@Summary	放置音效
//	@Tags		音板
//	@Accept		json
//	@Produce	json
//	@Param		index	path		int						true	"槽位"
//	@Param		body	body		types.PlaceSoundRequest	true	"音效"
//	@Success	200		{object}	types.BoardResponse
//	@Failure	400		{object}	map[string]string
//	@Failure	404		{object}	map[string]string
//	@Failure	409		{object}	map[string]string
//	@Router		/api/v1/board/slots/{index} [put]
func PlaceSound(c *gin.Context) {
	svc, ok := services(c)
	if !ok {
		return
	}

	idx, ok := slotIndex(c)
	if !ok {
		return
	}

	var req types.PlaceSoundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	if err := svc.PlaceSound(ctx, idx, req.SoundID); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, svc.BoardView(ctx))
}

// RemoveSlot 清空槽位.
func RemoveSlot(c *gin.Context) {
	svc, ok := services(c)
	if !ok {
		return
	}

	idx, ok := slotIndex(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := svc.RemoveSlot(ctx, idx); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, svc.BoardView(ctx))
}

// AddSound 把音效放入第一个空槽位.
//
//	@Summary	添加音效
//	@Tags		音板
//	@Accept		json
//	@Produce	json
//	@Param		body	body		types.PlaceSoundRequest	true	"音效"
//	@Success	201		{object}	types.AddSoundResponse
//	@Failure	409		{object}	map[string]string
//	@Router		/api/v1/board/sounds [post]
func AddSound(c *gin.Context) {
	svc, ok := services(c)
	if !ok {
		return
	}

	var req types.PlaceSoundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	idx, err := svc.AddSound(c.Request.Context(), req.SoundID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, types.AddSoundResponse{Index: idx})
}

// GetVolume 返回全局音量.
func GetVolume(c *gin.Context) {
	svc, ok := services(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, types.VolumeResponse{Volume: svc.Board.Volume(c.Request.Context())})
}

// SetVolume 设置全局音量，超出范围的值被截断到 0-100.
func SetVolume(c *gin.Context) {
	svc, ok := services(c)
	if !ok {
		return
	}

	var req types.VolumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	v, err := svc.Board.SetVolume(c.Request.Context(), *req.Volume)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, types.VolumeResponse{Volume: v})
}
