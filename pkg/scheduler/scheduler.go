// Package scheduler 提供定时任务调度功能，使用 gocron/v2 库.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/yeisme/soundboard/pkg/log"
)

// ErrJobNotFound 没有该名称的任务.
var ErrJobNotFound = errors.New("job not found")

// JobStatus 表示任务的状态类型.
type JobStatus string

const (
	StatusScheduled JobStatus = "scheduled" // 任务已调度
	StatusRunning   JobStatus = "running"   // 任务正在运行
	StatusError     JobStatus = "error"     // 任务出错
)

// JobInfo 表示定时任务的信息，用于 CLI 与监控展示.
type JobInfo struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Schedule    string    `json:"schedule"`
	NextRun     time.Time `json:"next_run"`
	LastRun     time.Time `json:"last_run"`
	LastSuccess time.Time `json:"last_success,omitempty"`
	Status      JobStatus `json:"status"`
	Error       string    `json:"error,omitempty"`
}

// Scheduler 是定时任务调度器的实现.
type Scheduler struct {
	scheduler gocron.Scheduler
	jobs      map[string]gocron.Job
	jobInfos  map[string]*JobInfo
	mu        sync.RWMutex
	logger    zerolog.Logger
}

// NewScheduler 创建一个新的 Scheduler 实例.
func NewScheduler(opts ...gocron.SchedulerOption) (*Scheduler, error) {
	s, err := gocron.NewScheduler(opts...)
	if err != nil {
		return nil, err
	}

	return &Scheduler{
		scheduler: s,
		jobs:      make(map[string]gocron.Job),
		jobInfos:  make(map[string]*JobInfo),
		logger:    log.Component("scheduler"),
	}, nil
}

// AddCron 添加一个基于 cron 表达式的定时任务.
func (s *Scheduler) AddCron(ctx context.Context, name, cronExpr string, job func(ctx context.Context) error) error {
	return s.add(ctx, name, cronExpr, gocron.CronJob(cronExpr, false), job)
}

// AddInterval 添加固定间隔的任务. 同一任务不会重叠执行.
func (s *Scheduler) AddInterval(ctx context.Context, name string, every time.Duration, job func(ctx context.Context) error) error {
	if every <= 0 {
		return fmt.Errorf("job %s: interval must be positive", name)
	}

	return s.add(ctx, name, "@every "+every.String(), gocron.DurationJob(every), job)
}

func (s *Scheduler) add(ctx context.Context, name, schedule string, def gocron.JobDefinition, job func(ctx context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job with name %s already exists", name)
	}

	// 包装函数记录执行状态并兜底 panic
	wrapped := func(ctx context.Context) {
		s.setStatus(name, StatusRunning, "")

		defer func() {
			if r := recover(); r != nil {
				s.setStatus(name, StatusError, fmt.Sprintf("panic in job: %v", r))
				s.logger.Error().Str("job", name).Interface("panic", r).Msg("job panicked")
			}
		}()

		if err := job(ctx); err != nil {
			s.setStatus(name, StatusError, err.Error())
			s.logger.Warn().Err(err).Str("job", name).Msg("job failed")

			return
		}

		s.mu.Lock()
		if info, ok := s.jobInfos[name]; ok {
			info.Status = StatusScheduled
			info.Error = ""
			info.LastSuccess = time.Now()
		}
		s.mu.Unlock()
	}

	j, err := s.scheduler.NewJob(
		def,
		gocron.NewTask(wrapped, ctx),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithEventListeners(
			gocron.AfterJobRuns(func(_ uuid.UUID, jobName string) {
				s.mu.Lock()
				defer s.mu.Unlock()

				if info, ok := s.jobInfos[jobName]; ok {
					info.LastRun = time.Now()
				}
			}),
		),
	)
	if err != nil {
		return err
	}

	s.jobs[name] = j
	s.jobInfos[name] = &JobInfo{
		ID:       j.ID().String(),
		Name:     name,
		Schedule: schedule,
		Status:   StatusScheduled,
	}

	s.logger.Info().Str("job", name).Str("schedule", schedule).Msg("added job")

	return nil
}

// RemoveJobByName 通过名称移除任务.
func (s *Scheduler) RemoveJobByName(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, exists := s.jobs[name]
	if !exists {
		return fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}

	if err := s.scheduler.RemoveJob(job.ID()); err != nil {
		return err
	}

	delete(s.jobs, name)
	delete(s.jobInfos, name)

	return nil
}

// RunNow 立即执行一次指定任务.
func (s *Scheduler) RunNow(name string) error {
	s.mu.RLock()
	job, exists := s.jobs[name]
	s.mu.RUnlock()

	if !exists {
		return fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}

	return job.RunNow()
}

// Start 启动调度器.
func (s *Scheduler) Start() {
	s.logger.Debug().Int("jobs", len(s.jobs)).Msg("starting scheduler")
	s.scheduler.Start()
}

// Shutdown 停止调度器并等待运行中的任务结束.
func (s *Scheduler) Shutdown() error {
	return s.scheduler.Shutdown()
}

// GetJobInfos 返回所有任务的信息，按名称排序.
func (s *Scheduler) GetJobInfos() []JobInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]JobInfo, 0, len(s.jobInfos))

	for name, info := range s.jobInfos {
		cp := *info
		if next, err := s.jobs[name].NextRun(); err == nil {
			cp.NextRun = next
		}

		infos = append(infos, cp)
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })

	return infos
}

func (s *Scheduler) setStatus(name string, status JobStatus, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if info, ok := s.jobInfos[name]; ok {
		info.Status = status
		info.Error = errMsg
	}
}
