// Package context 拓展上下文功能，将服务、日志等集成到上下文中，方便在应用程序各处传递和使用.
package context

import (
	"context"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"github.com/yeisme/soundboard/pkg/internal/service"
	kvc "github.com/yeisme/soundboard/pkg/internal/storage/kv"
	mqc "github.com/yeisme/soundboard/pkg/internal/storage/mq"
	"github.com/yeisme/soundboard/pkg/scheduler"
)

type ContextKey string

const (
	ServicesKey  ContextKey = "services"
	SchedulerKey ContextKey = "scheduler"
)

// WithServices 将 Services 存储到 context 中.
func WithServices(ctx context.Context, svc *service.Services) context.Context {
	return context.WithValue(ctx, ServicesKey, svc)
}

// GetServices 从 context 中获取 Services.
func GetServices(ctx context.Context) *service.Services {
	if svc, ok := ctx.Value(ServicesKey).(*service.Services); ok {
		return svc
	}

	return nil
}

// WithScheduler 将调度器存储到 context 中.
func WithScheduler(ctx context.Context, sched *scheduler.Scheduler) context.Context {
	return context.WithValue(ctx, SchedulerKey, sched)
}

// GetScheduler 从 context 中获取调度器.
func GetScheduler(ctx context.Context) *scheduler.Scheduler {
	if sched, ok := ctx.Value(SchedulerKey).(*scheduler.Scheduler); ok {
		return sched
	}

	return nil
}

// GetKVClient 从 context 中获取 KV 客户端.
func GetKVClient(ctx context.Context) *kvc.Client {
	if svc := GetServices(ctx); svc != nil && svc.Storage != nil {
		return svc.Storage.GetKVClient()
	}

	return nil
}

// GetMQClient 从 context 中获取事件总线客户端.
func GetMQClient(ctx context.Context) *mqc.Client {
	if svc := GetServices(ctx); svc != nil && svc.Storage != nil {
		return svc.Storage.GetMQClient()
	}

	return nil
}

// WithTraceContext 创建带有追踪上下文的logger.
func WithTraceContext(ctx context.Context, logger zerolog.Logger) zerolog.Logger {
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		return logger.With().
			Str("trace_id", span.SpanContext().TraceID().String()).
			Str("span_id", span.SpanContext().SpanID().String()).
			Logger()
	}

	return logger
}
