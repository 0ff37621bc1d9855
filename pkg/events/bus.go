package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"github.com/yeisme/soundboard/pkg/configs"
	"github.com/yeisme/soundboard/pkg/internal/model"
	"github.com/yeisme/soundboard/pkg/internal/storage/mq"
	nlog "github.com/yeisme/soundboard/pkg/log"
	"github.com/yeisme/soundboard/pkg/metrics"
	"github.com/yeisme/soundboard/pkg/store"
)

// Event 订阅方收到的原始事件，Data 为完整信封 JSON.
type Event struct {
	ID    string
	Topic string
	Data  []byte
}

// Bus 事件总线.
type Bus struct {
	client *mq.Client
	cfg    configs.EventsConfig
	log    zerolog.Logger
}

// NewBus 创建事件总线. client 为 nil 时所有发布都是空操作.
func NewBus(client *mq.Client, cfg configs.EventsConfig) *Bus {
	return &Bus{client: client, cfg: cfg, log: nlog.Component("events")}
}

func (b *Bus) enabled(topic string) bool {
	if b == nil || b.client == nil {
		return false
	}

	return TopicEnabled(b.cfg, topic)
}

// TopicEnabled 按总开关与分主题开关判断是否发布，未知主题随总开关.
func TopicEnabled(cfg configs.EventsConfig, topic string) bool {
	if !cfg.Enabled {
		return false
	}

	switch topic {
	case TopicBoardChanged:
		return cfg.Board
	case TopicVolumeChanged:
		return cfg.Volume
	case TopicCatalogReloaded:
		return cfg.Catalog
	default:
		return true
	}
}

func publish[T any](ctx context.Context, b *Bus, topic string, payload T) error {
	if !b.enabled(topic) {
		return nil
	}

	opts := []func(*EventHeader){WithProducer(b.cfg.Producer)}
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		opts = append(opts, WithTraceID(sc.TraceID().String()))
	}

	msg, err := NewWatermillMessage(topic, payload, opts...)
	if err != nil {
		return fmt.Errorf("encode %s: %w", topic, err)
	}

	if err := b.client.Publish(ctx, topic, msg); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}

	return nil
}

// PublishBoardChanged 发布 sb.board.changed.
func (b *Bus) PublishBoardChanged(ctx context.Context, slots []*model.Sound) error {
	return publish(ctx, b, TopicBoardChanged, NewBoardChangedPayload(slots))
}

// PublishVolumeChanged 发布 sb.volume.changed.
func (b *Bus) PublishVolumeChanged(ctx context.Context, volume int) error {
	return publish(ctx, b, TopicVolumeChanged, VolumeChangedPayload{Volume: volume})
}

// PublishCatalogReloaded 发布 sb.catalog.reloaded.
func (b *Bus) PublishCatalogReloaded(ctx context.Context, payload CatalogReloadedPayload) error {
	return publish(ctx, b, TopicCatalogReloaded, payload)
}

// BindStore 在持久化键写入成功后发布对应事件，相当于前端的响应式绑定.
func (b *Bus) BindStore(s *store.Store, keys configs.BoardKeys) {
	s.OnChange(func(ctx context.Context, key string, value []byte) {
		var err error

		switch key {
		case keys.Board:
			var slots []*model.Sound
			if value != nil {
				if err = sonic.Unmarshal(value, &slots); err != nil {
					break
				}
			}

			err = b.PublishBoardChanged(ctx, slots)
		case keys.Volume:
			var volume int
			if value != nil {
				if err = sonic.Unmarshal(value, &volume); err != nil {
					break
				}
			}

			err = b.PublishVolumeChanged(ctx, volume)
		default:
			return
		}

		if err != nil {
			b.log.Warn().Err(err).Str("key", key).Msg("failed to publish change event")
		}
	})
}

// Subscribe 订阅多个主题并合并为一个通道. ctx 结束时通道关闭. 消息在转发后立即确认.
// 任一主题订阅失败时，已建立的订阅一并取消.
func (b *Bus) Subscribe(ctx context.Context, topics ...string) (<-chan Event, error) {
	if b == nil || b.client == nil {
		return nil, mq.ErrNotInitialized
	}

	if len(topics) == 0 {
		topics = Topics
	}

	subCtx, cancel := context.WithCancel(ctx)
	out := make(chan Event)

	var wg sync.WaitGroup

	for _, topic := range topics {
		ch, err := b.client.Subscribe(subCtx, topic)
		if err != nil {
			cancel()

			return nil, fmt.Errorf("subscribe %s: %w", topic, err)
		}

		wg.Add(1)

		go func() {
			defer wg.Done()

			for msg := range ch {
				select {
				case out <- Event{ID: msg.UUID, Topic: topic, Data: msg.Payload}:
					msg.Ack()
				case <-subCtx.Done():
					msg.Nack()

					return
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		cancel()
		close(out)
	}()

	return out, nil
}

// TrackOccupiedSlots 根据 sb.board.changed 更新占用槽位指标，阻塞直到 ctx 结束.
// 通过 NATS 共享总线时可以反映其它进程的修改.
func (b *Bus) TrackOccupiedSlots(ctx context.Context) error {
	ch, err := b.Subscribe(ctx, TopicBoardChanged)
	if err != nil {
		return err
	}

	for ev := range ch {
		env, err := Decode[BoardChangedPayload](ev.Data)
		if err != nil {
			b.log.Warn().Err(err).Str("id", ev.ID).Msg("undecodable board event")

			continue
		}

		metrics.BoardOccupiedSlots.Set(float64(env.Payload.Occupied))
	}

	return nil
}
