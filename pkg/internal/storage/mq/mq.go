// Package mq 基于 Watermill 封装事件总线的传输层.
// 通过工厂模式抽象不同实现，Publisher 与 Subscriber 成对创建.
//
// 支持的类型：
//   - gochannel（进程内，默认）
//   - NATS（可选 JetStream）
//   - Redis Pub/Sub
//
// 使用示例：
//
//	client, err := mq.New(ctx, &cfg.MQ, mq.Options{Metrics: true})
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	ch, _ := client.Subscribe(ctx, "sb.board.changed")
//	_ = client.Publish(ctx, "sb.board.changed", msg)
package mq

import (
	"context"
	"errors"
	"fmt"
	"sort"

	watermill "github.com/ThreeDotsLabs/watermill"
	wmetrics "github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/yeisme/soundboard/pkg/configs"
	nlog "github.com/yeisme/soundboard/pkg/log"
	"github.com/yeisme/soundboard/pkg/metrics"
)

// ErrNotInitialized 客户端未初始化.
var ErrNotInitialized = errors.New("mq client not initialized")

// Factory 定义创建 Publisher + Subscriber 的工厂函数.
type Factory func(ctx context.Context, cfg *configs.MQConfig, logger watermill.LoggerAdapter) (message.Publisher, message.Subscriber, error)

var (
	factories = map[configs.MQType]Factory{}
)

// RegisterFactory 注册指定 MQType 的工厂.
func RegisterFactory(t configs.MQType, f Factory) {
	factories[t] = f
}

// GetRegisteredMQTypes 返回已注册的类型（已排序）.
func GetRegisteredMQTypes() []configs.MQType {
	types := make([]configs.MQType, 0, len(factories))
	for t := range factories {
		types = append(types, t)
	}

	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	return types
}

// Options 创建选项.
type Options struct {
	Metrics bool // 用 watermill prometheus 指标装饰 Publisher/Subscriber
}

// Client 封装 watermill Publisher 与 Subscriber.
type Client struct {
	Type       configs.MQType
	publisher  message.Publisher
	subscriber message.Subscriber
}

// Publisher 返回底层 Publisher.
func (c *Client) Publisher() message.Publisher {
	return c.publisher
}

// Publish 便捷发布.
func (c *Client) Publish(_ context.Context, topic string, msgs ...*message.Message) error {
	if c == nil || c.publisher == nil {
		return ErrNotInitialized
	}

	return c.publisher.Publish(topic, msgs...)
}

// Subscribe 订阅主题，ctx 结束时输出通道关闭.
func (c *Client) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	if c == nil || c.subscriber == nil {
		return nil, ErrNotInitialized
	}

	return c.subscriber.Subscribe(ctx, topic)
}

// Close 关闭资源.
func (c *Client) Close() error {
	var errs []error

	if c.publisher != nil {
		errs = append(errs, c.publisher.Close())
	}

	// gochannel 的 Publisher 与 Subscriber 是同一个对象，Close 可重复调用
	if c.subscriber != nil {
		errs = append(errs, c.subscriber.Close())
	}

	return errors.Join(errs...)
}

// New 按配置创建事件总线传输.
func New(ctx context.Context, cfg *configs.MQConfig, opts Options) (*Client, error) {
	factory, ok := factories[cfg.Type]
	if !ok {
		return nil, fmt.Errorf("unsupported mq type: %s", cfg.Type)
	}

	logger := NewLoggerAdapter(nlog.Component("mq"))

	pub, sub, err := factory(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("init mq (%s): %w", cfg.Type, err)
	}

	if opts.Metrics {
		builder := wmetrics.NewPrometheusMetricsBuilder(metrics.GetRegistry(), "soundboard", "events")

		if pub, err = builder.DecoratePublisher(pub); err != nil {
			return nil, fmt.Errorf("decorate publisher with metrics: %w", err)
		}

		if sub, err = builder.DecorateSubscriber(sub); err != nil {
			return nil, fmt.Errorf("decorate subscriber with metrics: %w", err)
		}
	}

	nlog.Logger().Debug().Str("type", string(cfg.Type)).Msg("mq client initialized")

	return &Client{Type: cfg.Type, publisher: pub, subscriber: sub}, nil
}
