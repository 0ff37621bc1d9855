package handle

import (
	"errors"
	"io"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"

	"github.com/yeisme/soundboard/pkg/events"
	"github.com/yeisme/soundboard/pkg/internal/storage/mq"
)

// heartbeatInterval SSE 心跳间隔，防止代理断开空闲连接.
var heartbeatInterval = 15 * time.Second

// StreamEvents 以 server-sent events 推送变更事件. 可用 ?topic= 多次指定主题，缺省推送全部.
//
//	@Summary	变更事件流
//	@Tags		事件
//	@Produce	text/event-stream
//	@Param		topic	query	[]string	false	"主题"
//	@Router		/api/v1/events [get]
func StreamEvents(c *gin.Context) {
	svc, ok := services(c)
	if !ok {
		return
	}

	topics := c.QueryArray("topic")
	for _, t := range topics {
		if !slices.Contains(events.Topics, t) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown topic: " + t})
			return
		}
	}

	ctx := c.Request.Context()

	ch, err := svc.Bus.Subscribe(ctx, topics...)
	if err != nil {
		if errors.Is(err, mq.ErrNotInitialized) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "event bus disabled"})
			return
		}

		fail(c, err)

		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	// 订阅已建立，先发出响应头，客户端据此知道可以开始接收
	c.Status(http.StatusOK)
	c.Writer.Flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case ev, open := <-ch:
			if !open {
				return false
			}

			c.Render(-1, sse.Event{Id: ev.ID, Event: ev.Topic, Data: string(ev.Data)})

			return true
		case <-heartbeat.C:
			_, err := io.WriteString(w, ": ping\n\n")
			return err == nil
		case <-ctx.Done():
			return false
		}
	})
}
