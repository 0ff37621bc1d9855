package player

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"strconv"
	"sync"

	"github.com/yeisme/soundboard/pkg/configs"
)

// ExecBackend 通过外部命令播放，例如 ffplay.
type ExecBackend struct {
	cfg configs.PlayerConfig
}

// NewExecBackend 创建外部命令播放后端.
func NewExecBackend(cfg configs.PlayerConfig) *ExecBackend {
	return &ExecBackend{cfg: cfg}
}

// Args 组装命令行参数：固定参数、音量、音频位置.
func (b *ExecBackend) Args(req Request) []string {
	args := append([]string(nil), b.cfg.Args...)
	if b.cfg.VolumeFlag != "" {
		args = append(args, b.cfg.VolumeFlag, strconv.Itoa(max(0, min(100, req.Volume))))
	}

	return append(args, req.Location)
}

// Start 启动播放进程. 进程不随 ctx 结束，由 Stop 控制.
func (b *ExecBackend) Start(_ context.Context, req Request) (Handle, error) {
	cmd := exec.Command(b.cfg.Command, b.Args(req)...)
	if err := cmd.Start(); err != nil {
		return nil, err
	}

	return &execHandle{cmd: cmd}, nil
}

type execHandle struct {
	cmd  *exec.Cmd
	once sync.Once
	err  error
}

func (h *execHandle) Wait() error {
	h.once.Do(func() { h.err = h.cmd.Wait() })

	return h.err
}

func (h *execHandle) Stop() error {
	err := h.cmd.Process.Kill()
	if errors.Is(err, os.ErrProcessDone) {
		return ErrAlreadyStopped
	}

	return err
}
