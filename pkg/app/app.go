// Package app 组装 HTTP 宿主：存储、业务服务、调度器、中间件与路由.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yeisme/soundboard/pkg/api"
	"github.com/yeisme/soundboard/pkg/configs"
	"github.com/yeisme/soundboard/pkg/internal/jobs"
	"github.com/yeisme/soundboard/pkg/internal/service"
	"github.com/yeisme/soundboard/pkg/internal/storage"
	"github.com/yeisme/soundboard/pkg/log"
	"github.com/yeisme/soundboard/pkg/metrics"
	"github.com/yeisme/soundboard/pkg/middleware"
	"github.com/yeisme/soundboard/pkg/scheduler"
	"github.com/yeisme/soundboard/pkg/tracing"
)

// shutdownTimeout 优雅退出时等待在途请求的上限.
const shutdownTimeout = 10 * time.Second

type App struct {
	Engine   *gin.Engine
	Services *service.Services

	config    *configs.AppConfig
	storage   *storage.Manager
	scheduler *scheduler.Scheduler
	logger    zerolog.Logger

	// background 后台订阅者的生命周期
	background context.CancelFunc
}

// NewApp 按配置初始化全部组件. 调用方需在结束时调用 Close.
func NewApp(ctx context.Context, cfg *configs.AppConfig) (*App, error) {
	l := log.Logger()

	// 初始化追踪
	if err := tracing.InitTracer(ctx, cfg.Tracing); err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	// 初始化监控
	if err := metrics.InitMetrics(cfg.Metrics); err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	manager, err := storage.Init(ctx, cfg, storage.Options{Events: true})
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	svc, err := service.New(ctx, cfg, manager)
	if err != nil {
		_ = manager.Close()

		return nil, fmt.Errorf("init services: %w", err)
	}

	sched, err := scheduler.NewScheduler()
	if err != nil {
		_ = manager.Close()

		return nil, fmt.Errorf("init scheduler: %w", err)
	}

	if err := jobs.RegisterJobs(ctx, sched, cfg.Catalog, svc.Catalog, manager.KV.KVStore); err != nil {
		_ = sched.Shutdown()
		_ = manager.Close()

		return nil, fmt.Errorf("register jobs: %w", err)
	}

	gin.DefaultWriter = log.NewGinWriter(l, zerolog.InfoLevel)
	gin.DefaultErrorWriter = log.NewGinWriter(l, zerolog.ErrorLevel)

	engine := gin.New()

	handlers := []gin.HandlerFunc{
		gin.Recovery(),
		middleware.GinLoggerMiddleware(),
		middleware.CORSMiddleware(cfg.Server),
		middleware.TracingMiddleware(),
		middleware.PrometheusMiddleware(),
		middleware.RateLimitMiddleware(cfg.RateLimit),
		middleware.CircuitBreakerMiddleware(cfg.CircuitBreaker),
		middleware.ServicesMiddleware(svc),
		middleware.SchedulerMiddleware(sched),
	}
	if cfg.Server.Gzip {
		handlers = append(handlers, middleware.GzipMiddleware())
	}

	engine.Use(handlers...)

	api.RegisterGroup(engine, cfg, api.Options{PeerHandler: peerHandler(manager)})

	return &App{
		Engine:    engine,
		Services:  svc,
		config:    cfg,
		storage:   manager,
		scheduler: sched,
		logger:    log.Component("app"),
	}, nil
}

// peerHandler groupcache 后端配置了对等节点时返回其处理器.
func peerHandler(m *storage.Manager) http.Handler {
	if m.KV == nil {
		return nil
	}

	if p, ok := m.KV.KVStore.(interface{ Handler() http.Handler }); ok {
		return p.Handler()
	}

	return nil
}

// Run 预加载曲库、启动调度器与后台订阅者，然后提供 HTTP 服务直到 ctx 结束.
func (a *App) Run(ctx context.Context) error {
	cat := a.Services.Catalog.Reload(ctx)
	if a.config.Board.SeedOnStart {
		if _, err := a.Services.SeedBoard(ctx); err != nil {
			a.logger.Warn().Err(err).Msg("failed to seed board")
		}
	}

	bgCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	a.background = cancel

	go func() {
		if err := a.Services.Bus.TrackOccupiedSlots(bgCtx); err != nil {
			a.logger.Debug().Err(err).Msg("occupied slots tracker not running")
		}
	}()

	a.scheduler.Start()

	addr := net.JoinHostPort(a.config.Server.Host, strconv.Itoa(a.config.Server.Port))
	srv := &http.Server{
		Addr:    addr,
		Handler: a.Engine,
		// 请求上下文派生自 bgCtx，关闭时事件流随之结束
		BaseContext: func(net.Listener) context.Context { return bgCtx },
		// 事件流是长连接，不设置 WriteTimeout
		ReadHeaderTimeout: a.config.Server.GetTimeoutDuration(),
		ReadTimeout:       a.config.Server.GetTimeoutDuration(),
		IdleTimeout:       2 * a.config.Server.GetTimeoutDuration(),
	}

	srv.RegisterOnShutdown(cancel)

	errCh := make(chan error, 1)

	go func() {
		a.logger.Info().Str("addr", addr).Str("catalog", cat.Version).Int("sounds", len(cat.Sounds)).Msg("soundboard listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return err
	case <-ctx.Done():
	}

	shutdownCtx, stop := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer stop()

	a.logger.Info().Msg("shutting down")

	return srv.Shutdown(shutdownCtx)
}

// Close 释放调度器、存储与追踪资源.
func (a *App) Close(ctx context.Context) error {
	if a.background != nil {
		a.background()
	}

	// 外部播放进程不随服务退出，需要显式停止
	if a.Services != nil && a.Services.Deck != nil {
		a.Services.Deck.StopAll()
	}

	return errors.Join(
		a.scheduler.Shutdown(),
		a.storage.Close(),
		tracing.ShutdownTracer(ctx),
	)
}
