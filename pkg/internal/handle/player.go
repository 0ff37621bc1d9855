package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/soundboard/pkg/internal/types"
	"github.com/yeisme/soundboard/pkg/player"
)

// playbackStatus 启动失败时以 502 返回状态.
func playbackStatus(c *gin.Context, st player.Status) {
	code := http.StatusOK
	if st.State == player.Errored {
		code = http.StatusBadGateway
	}

	c.JSON(code, st)
}

// GetPlayback 返回全部播放面的状态.
//
//	@Summary	播放状态
//	@Tags		播放
//	@Produce	json
//	@Success	200	{object}	types.PlaybackResponse
//	@Router		/api/v1/player [get]
func GetPlayback(c *gin.Context) {
	svc, ok := services(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, types.PlaybackResponse{Surfaces: svc.Deck.Statuses()})
}

// PlayLibrarySound 在音效库列表中播放，再次请求同一音效即停止.
//
//	@Summary	音效库播放/停止
//	@Tags		播放
//	@Produce	json
//	@Param		id	path		string	true	"音效 ID"
//	@Success	200	{object}	player.Status
//	@Failure	404	{object}	map[string]string
//	@Failure	502	{object}	player.Status
//	@Router		/api/v1/player/library/{id} [post]
func PlayLibrarySound(c *gin.Context) {
	svc, ok := services(c)
	if !ok {
		return
	}

	st, err := svc.PlayLibrary(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	playbackStatus(c, st)
}

// PlaySlotSound 从头播放格子里的音效.
//
//	@Summary	播放格子
//	@Tags		播放
//	@Produce	json
//	@Param		index	path		int	true	"槽位"
//	@Success	200		{object}	player.Status
//	@Failure	409		{object}	map[string]string
//	@Router		/api/v1/player/slots/{index} [post]
func PlaySlotSound(c *gin.Context) {
	svc, ok := services(c)
	if !ok {
		return
	}

	idx, ok := slotIndex(c)
	if !ok {
		return
	}

	st, err := svc.PlaySlot(c.Request.Context(), idx)
	if err != nil {
		fail(c, err)
		return
	}

	playbackStatus(c, st)
}

// StopPlayback 停止全部播放.
func StopPlayback(c *gin.Context) {
	svc, ok := services(c)
	if !ok {
		return
	}

	svc.Deck.StopAll()

	c.JSON(http.StatusOK, types.PlaybackResponse{Surfaces: svc.Deck.Statuses()})
}
