// Package jobs 负责注册与实现业务定时任务（基于 scheduler）.
package jobs

import (
	"context"
	"errors"

	"github.com/yeisme/soundboard/pkg/catalog"
	"github.com/yeisme/soundboard/pkg/configs"
	"github.com/yeisme/soundboard/pkg/internal/storage/kv"
	"github.com/yeisme/soundboard/pkg/log"
	"github.com/yeisme/soundboard/pkg/scheduler"
)

// RegisterJobs 配置业务定时任务：
//   - catalog.refresh_interval > 0 时按间隔重新加载曲库
//   - 每小时清理一次 KV 中的过期键（后端支持时）
func RegisterJobs(ctx context.Context, sched *scheduler.Scheduler, cfg configs.CatalogConfig, svc *catalog.Service, store kv.KVStore) error {
	if sched == nil {
		return errors.New("scheduler is nil")
	}

	if svc != nil && cfg.RefreshInterval > 0 {
		err := sched.AddInterval(ctx, JobCatalogRefresh, cfg.RefreshInterval, func(ctx context.Context) error {
			return refreshCatalog(ctx, svc)
		})
		if err != nil {
			return err
		}
	}

	if sweeper, ok := store.(kv.Sweeper); ok {
		err := sched.AddCron(ctx, JobKVSweep, CronKVSweep, func(ctx context.Context) error {
			return sweepKV(ctx, sweeper)
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// refreshCatalog 重新加载曲库，失败的分类已在加载器内记录.
func refreshCatalog(ctx context.Context, svc *catalog.Service) error {
	c := svc.Reload(ctx)

	log.Logger().Debug().Str("job", JobCatalogRefresh).Str("version", c.Version).Msg("catalog refreshed")

	return nil
}

// sweepKV 删除过期键.
func sweepKV(ctx context.Context, s kv.Sweeper) error {
	n, err := s.Sweep(ctx)
	if err != nil {
		return err
	}

	if n > 0 {
		log.Logger().Info().Str("job", JobKVSweep).Int64("deleted", n).Msg("swept expired keys")
	}

	return nil
}
