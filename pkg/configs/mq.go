package configs

import (
	"github.com/spf13/viper"
)

// MQType 事件总线传输类型.
type MQType string

const (
	MQTypeGoChannel MQType = "gochannel" // 进程内
	MQTypeNATS      MQType = "nats"
	MQTypeRedis     MQType = "redis"

	DefaultMQBufferSize   = 64                      // gochannel 输出缓冲
	DefaultMQURL          = "nats://localhost:4222" // 默认 NATS 地址
	DefaultMQClientID     = "soundboard"            // 默认客户端ID
	DefaultMaxReconnects  = 5                       // 默认最大重连次数.
	DefaultReconnectWait  = 5                       // 默认重连等待时间（秒）.
	DefaultPingInterval   = 20                      // 默认ping间隔 (秒)
	DefaultReconnectBufSz = 32768                   // 默认重连缓冲区大小 (32KB)
)

// MQConfig 事件总线配置.
type MQConfig struct {
	Type       MQType        `mapstructure:"type"        rule:"oneof=gochannel nats redis"`
	BufferSize int64         `mapstructure:"buffer_size" rule:"min=0"`
	NATS       MQNATSConfig  `mapstructure:"nats"`
	Redis      MQRedisConfig `mapstructure:"redis"`
}

// MQNATSConfig NATS 传输配置.
type MQNATSConfig struct {
	URL              string   `mapstructure:"url"               rule:"required"`
	ClusterURLs      []string `mapstructure:"cluster_urls"`
	ClientID         string   `mapstructure:"client_id"`
	User             string   `mapstructure:"user"`
	Password         string   `mapstructure:"password"`
	JWT              string   `mapstructure:"jwt"`
	NKey             string   `mapstructure:"nkey"`
	MaxReconnects    int      `mapstructure:"max_reconnects"    rule:"min=0,max=100"`
	ReconnectWait    int      `mapstructure:"reconnect_wait"    rule:"min=1,max=300"`
	PingInterval     int      `mapstructure:"ping_interval"     rule:"min=1,max=300"`
	ReconnectBufSize int      `mapstructure:"reconnect_buf_size" rule:"min=1024,max=1048576"`
	JetStream        bool     `mapstructure:"jetstream"`
	AutoProvision    bool     `mapstructure:"auto_provision"`
	TrackMsgID       bool     `mapstructure:"track_msg_id"`
	AckAsync         bool     `mapstructure:"ack_async"`
	DurablePrefix    string   `mapstructure:"durable_prefix"`
}

// MQRedisConfig Redis Pub/Sub 传输配置.
type MQRedisConfig struct {
	Addr     string `mapstructure:"addr"     rule:"hostname_port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"       rule:"min=0,max=15"`
}

// GetMQType 返回当前配置的消息队列类型.
func (c *MQConfig) GetMQType() MQType {
	return c.Type
}

// setDefaults 设置MQ配置的默认值.
func (c *MQConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("mq.type", MQTypeGoChannel)
	v.SetDefault("mq.buffer_size", DefaultMQBufferSize)

	// NATS 默认值
	v.SetDefault("mq.nats.url", DefaultMQURL)
	v.SetDefault("mq.nats.cluster_urls", []string{})
	v.SetDefault("mq.nats.client_id", DefaultMQClientID)
	v.SetDefault("mq.nats.max_reconnects", DefaultMaxReconnects)
	v.SetDefault("mq.nats.reconnect_wait", DefaultReconnectWait)
	v.SetDefault("mq.nats.ping_interval", DefaultPingInterval)
	v.SetDefault("mq.nats.reconnect_buf_size", DefaultReconnectBufSz)
	v.SetDefault("mq.nats.jetstream", false)
	v.SetDefault("mq.nats.auto_provision", true)
	v.SetDefault("mq.nats.track_msg_id", true)
	v.SetDefault("mq.nats.ack_async", false)
	v.SetDefault("mq.nats.durable_prefix", "soundboard")

	// Redis 默认值
	v.SetDefault("mq.redis.addr", "localhost:6379")
	v.SetDefault("mq.redis.password", "")
	v.SetDefault("mq.redis.db", 0)
}
