// Package storage 聚合持久化与消息资源：KV（音板状态所在）与事件总线传输.
//
// Example:
//
//	mgr, err := storage.Init(ctx, cfg, storage.Options{Events: true})
//	if err != nil {
//		return err
//	}
//	defer mgr.Close()
//
//	kvClient := mgr.GetKVClient()
package storage

import (
	"context"
	"errors"

	"github.com/yeisme/soundboard/pkg/configs"
	kvc "github.com/yeisme/soundboard/pkg/internal/storage/kv"
	mqc "github.com/yeisme/soundboard/pkg/internal/storage/mq"
	nlog "github.com/yeisme/soundboard/pkg/log"
)

// Options 初始化选项.
type Options struct {
	// Events 是否创建事件总线传输. 一次性的 CLI 命令不需要
	Events bool
}

// Manager 聚合所有存储资源.
type Manager struct {
	KV *kvc.Client
	MQ *mqc.Client
}

// Init 按配置初始化存储资源. KV 失败是致命错误，事件总线失败只记录告警.
func Init(ctx context.Context, cfg *configs.AppConfig, opts Options) (*Manager, error) {
	m := &Manager{}

	kvClient, err := kvc.NewKVClient(ctx, cfg)
	if err != nil {
		return nil, err
	}

	m.KV = kvClient

	if opts.Events && cfg.Events.Enabled {
		mqClient, err := mqc.New(ctx, &cfg.MQ, mqc.Options{Metrics: cfg.Metrics.Enabled})
		if err != nil {
			nlog.Logger().Warn().Err(err).Str("type", string(cfg.MQ.Type)).Msg("event bus unavailable, change events disabled")
		} else {
			m.MQ = mqClient
		}
	}

	nlog.Logger().Debug().Str("kv", string(m.KV.Type)).Bool("events", m.MQ != nil).Msg("storage manager initialized")

	return m, nil
}

// GetKVClient 获取 KV 客户端.
func (m *Manager) GetKVClient() *kvc.Client {
	return m.KV
}

// GetMQClient 获取事件总线客户端，未启用时为 nil.
func (m *Manager) GetMQClient() *mqc.Client {
	return m.MQ
}

// Close 释放全部资源.
func (m *Manager) Close() error {
	var errs []error

	if m.MQ != nil {
		errs = append(errs, m.MQ.Close())
	}

	if m.KV != nil {
		errs = append(errs, m.KV.Close())
	}

	return errors.Join(errs...)
}
