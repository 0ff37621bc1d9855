package mq

import (
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/bytedance/sonic"
)

// wireMessage Redis 通道上的消息格式.
type wireMessage struct {
	Metadata map[string]string `json:"metadata"`
	Payload  []byte            `json:"payload"`
}

func encodeRedisMessage(msg *message.Message) []byte {
	md := make(map[string]string, len(msg.Metadata)+1)
	for k, v := range msg.Metadata {
		md[k] = v
	}

	md[uuidMetadataKey] = msg.UUID

	// map 与字节切片的编码不会失败
	data, _ := sonic.Marshal(wireMessage{Metadata: md, Payload: msg.Payload})

	return data
}

func decodeRedisMessage(data []byte) (*message.Message, error) {
	var w wireMessage
	if err := sonic.Unmarshal(data, &w); err != nil {
		return nil, err
	}

	msg := message.NewMessage(w.Metadata[uuidMetadataKey], w.Payload)
	delete(w.Metadata, uuidMetadataKey)

	for k, v := range w.Metadata {
		msg.Metadata.Set(k, v)
	}

	return msg, nil
}
