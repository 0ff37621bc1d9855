package mq

import (
	"testing"

	"github.com/ThreeDotsLabs/watermill/message"
)

// TestRedisCodecKeepsUUID 测试 Redis 编码保留消息 ID 与元数据.
func TestRedisCodecKeepsUUID(t *testing.T) {
	in := newTestMessage()

	out, err := decodeRedisMessage(encodeRedisMessage(in))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if out.UUID != in.UUID {
		t.Errorf("uuid = %q, want %q", out.UUID, in.UUID)
	}

	if out.Metadata.Get("producer") != "soundboard" {
		t.Errorf("metadata = %v", out.Metadata)
	}

	if _, ok := out.Metadata[uuidMetadataKey]; ok {
		t.Error("transport key should not leak into metadata")
	}

	if string(out.Payload) != string(in.Payload) {
		t.Errorf("payload = %s", out.Payload)
	}
}

func newTestMessage() *message.Message {
	msg := message.NewMessage("01HZX", []byte(`{"slots":[]}`))
	msg.Metadata.Set("producer", "soundboard")

	return msg
}
