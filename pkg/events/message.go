// Package events 定义音板状态变化事件，并通过事件总线发布/订阅.
//
// 消息信封 JSON 结构:
//
//	{
//	  "header": {
//	    "topic": "sb.board.changed",
//	    "trace_id": "optional-trace-id",
//	    "producer": "soundboard",
//	    "occurred_at": "2026-01-02T03:04:05.123456Z",
//	    "version": "v1"
//	  },
//	  "payload": { ... 取决于具体主题 ... }
//	}
//
// 主题命名：sb.<域>.<动作>，例如 sb.board.changed、sb.volume.changed.
package events

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/bytedance/sonic"
	"github.com/oklog/ulid"
)

const (
	PayloadVersionV1 = "v1"

	TopicBoardChanged    = "sb.board.changed"    // 音板槽位变化
	TopicVolumeChanged   = "sb.volume.changed"   // 全局音量变化
	TopicCatalogReloaded = "sb.catalog.reloaded" // 曲库重新加载完成
)

// Topics 全部主题.
var Topics = []string{TopicBoardChanged, TopicVolumeChanged, TopicCatalogReloaded}

var (
	// ulid.Monotonic 不是并发安全的
	ulidMu      sync.Mutex
	ulidEntropy = ulid.Monotonic(rand.Reader, 0)
)

func newID(t time.Time) string {
	ulidMu.Lock()
	defer ulidMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(t), ulidEntropy).String()
}

// EventHeader 事件头.
type EventHeader struct {
	Topic      string    `json:"topic"`
	TraceID    string    `json:"trace_id,omitempty"`
	Producer   string    `json:"producer,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
	Version    string    `json:"version"`
}

// Message 事件信封.
type Message[T any] struct {
	Header  EventHeader `json:"header"`
	Payload T           `json:"payload"`
}

// NewEventHeader 便捷创建事件头.
func NewEventHeader(topic string, opts ...func(*EventHeader)) EventHeader {
	hdr := EventHeader{
		Topic:      topic,
		OccurredAt: time.Now().UTC(),
		Version:    PayloadVersionV1,
	}
	for _, opt := range opts {
		opt(&hdr)
	}

	return hdr
}

// WithTraceID 设置 TraceID.
func WithTraceID(id string) func(*EventHeader) { return func(h *EventHeader) { h.TraceID = id } }

// WithProducer 设置 Producer.
func WithProducer(p string) func(*EventHeader) { return func(h *EventHeader) { h.Producer = p } }

// Decode 从 JSON 字节解码为消息.
func Decode[T any](b []byte) (Message[T], error) {
	var m Message[T]

	err := sonic.Unmarshal(b, &m)

	return m, err
}

// NewWatermillMessage 构造 watermill 消息，ID 为 ULID，头部同时写入元数据.
func NewWatermillMessage[T any](topic string, payload T, opts ...func(*EventHeader)) (*message.Message, error) {
	header := NewEventHeader(topic, opts...)

	data, err := sonic.Marshal(Message[T]{Header: header, Payload: payload})
	if err != nil {
		return nil, err
	}

	msg := message.NewMessage(newID(header.OccurredAt), data)
	msg.Metadata.Set("topic", topic)
	msg.Metadata.Set("occurred_at", header.OccurredAt.Format(time.RFC3339Nano))
	msg.Metadata.Set("version", header.Version)

	if header.TraceID != "" {
		msg.Metadata.Set("trace_id", header.TraceID)
	}

	if header.Producer != "" {
		msg.Metadata.Set("producer", header.Producer)
	}

	return msg, nil
}

// ParseWatermillMessage 解出泛型负载.
func ParseWatermillMessage[T any](msg *message.Message) (Message[T], error) {
	return Decode[T](msg.Payload)
}
