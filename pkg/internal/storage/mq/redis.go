package mq

import (
	"context"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/redis/go-redis/v9"

	"github.com/yeisme/soundboard/pkg/configs"
)

const (
	// DefaultChannelBufferSize 默认通道缓冲区大小.
	DefaultChannelBufferSize = 100
	// uuidMetadataKey 消息 ID 随负载一起传输时使用的元数据键.
	uuidMetadataKey = "_watermill_message_uuid"
)

// RedisPublisher Redis Pub/Sub Publisher. 只投递给在线订阅者.
type RedisPublisher struct {
	client *redis.Client
}

// RedisSubscriber Redis Pub/Sub Subscriber. 每次 Subscribe 建立独立的 PubSub 连接.
type RedisSubscriber struct {
	client *redis.Client
	logger watermill.LoggerAdapter

	mu      sync.Mutex
	subs    []*redis.PubSub
	closed  bool
	closeCh chan struct{}
	wg      sync.WaitGroup
}

// init 注册 Redis 工厂.
func init() {
	RegisterFactory(configs.MQTypeRedis, redisFactory)
}

// redisFactory 创建 Redis Publisher & Subscriber，两者共用一个客户端.
func redisFactory(ctx context.Context, cfg *configs.MQConfig, logger watermill.LoggerAdapter) (message.Publisher, message.Subscriber, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()

		return nil, nil, err
	}

	pub := &RedisPublisher{client: rdb}
	sub := &RedisSubscriber{
		client:  rdb,
		logger:  logger,
		closeCh: make(chan struct{}),
	}

	return pub, sub, nil
}

// Publish 实现 Publisher 接口. 消息 ID 写入元数据一同传输.
func (p *RedisPublisher) Publish(topic string, msgs ...*message.Message) error {
	for _, msg := range msgs {
		if err := p.client.Publish(context.Background(), topic, encodeRedisMessage(msg)).Err(); err != nil {
			return err
		}
	}

	return nil
}

// Close 实现 Publisher 接口. 客户端由 Subscriber 关闭.
func (p *RedisPublisher) Close() error {
	return nil
}

// Subscribe 实现 Subscriber 接口.
func (s *RedisSubscriber) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrNotInitialized
	}

	ps := s.client.Subscribe(ctx, topic)
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()

		return nil, err
	}

	s.subs = append(s.subs, ps)

	out := make(chan *message.Message, DefaultChannelBufferSize)

	s.wg.Add(1)

	go func() {
		defer s.wg.Done()
		defer close(out)

		in := ps.Channel()

		for {
			select {
			case <-s.closeCh:
				return
			case <-ctx.Done():
				return
			case m, ok := <-in:
				if !ok {
					return
				}

				msg, err := decodeRedisMessage([]byte(m.Payload))
				if err != nil {
					s.logger.Error("drop undecodable redis message", err, watermill.LogFields{"topic": topic})

					continue
				}

				msg.SetContext(ctx)

				select {
				case out <- msg:
				case <-s.closeCh:
					return
				case <-ctx.Done():
					return
				}

				// 逐条投递，等消费方确认后再取下一条
				select {
				case <-msg.Acked():
				case <-msg.Nacked():
				case <-s.closeCh:
					return
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

// Close 实现 Subscriber 接口.
func (s *RedisSubscriber) Close() error {
	s.mu.Lock()

	if s.closed {
		s.mu.Unlock()

		return nil
	}

	s.closed = true
	close(s.closeCh)

	subs := s.subs
	s.subs = nil
	s.mu.Unlock()

	for _, ps := range subs {
		if err := ps.Close(); err != nil {
			s.logger.Error("close redis pubsub", err, nil)
		}
	}

	s.wg.Wait()

	return s.client.Close()
}
