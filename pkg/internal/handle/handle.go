// Package handle 提供 HTTP 请求处理器的实现. 处理器从请求上下文取得业务服务.
package handle

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/soundboard/pkg/board"
	ctxPkg "github.com/yeisme/soundboard/pkg/context"
	"github.com/yeisme/soundboard/pkg/internal/service"
	nlog "github.com/yeisme/soundboard/pkg/log"
)

// services 取出注入的业务服务，缺失时直接以 503 结束请求.
func services(c *gin.Context) (*service.Services, bool) {
	svc := ctxPkg.GetServices(c.Request.Context())
	if svc == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "services not initialized"})
		return nil, false
	}

	return svc, true
}

// statusOf 把业务错误映射为 HTTP 状态码.
func statusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrSoundNotFound):
		return http.StatusNotFound
	case errors.Is(err, board.ErrSlotOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, board.ErrBoardFull), errors.Is(err, board.ErrAlreadyPlaced), errors.Is(err, service.ErrSlotEmpty):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail 写出错误响应，5xx 额外记录日志.
func fail(c *gin.Context, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		l := nlog.Component("http")
		l.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	}

	c.JSON(status, gin.H{"error": err.Error()})
}

// slotIndex 解析路径参数 :index.
func slotIndex(c *gin.Context) (int, bool) {
	idx, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid slot index"})
		return 0, false
	}

	return idx, true
}
