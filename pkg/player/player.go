// Package player 管理音效播放. 每个播放面（音效库列表、每个音板格子）同时只持有一个播放句柄.
//
// 状态流转:
//
//	Idle -> Loading -> Playing -> Ended | Stopped | Errored
//
// Idle 只是新建播放面的初始状态. 终态会一直保留到下一次 Play，Status 据此报告上一次播放的结果；
// 所有终态对 Active 都为 false，等同于空闲.
// 新的播放会先停止并解绑上一个句柄，被取代的句柄结束时不再改变状态.
package player

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	nlog "github.com/yeisme/soundboard/pkg/log"
	"github.com/yeisme/soundboard/pkg/metrics"
)

// ErrAlreadyStopped 句柄已经结束.
var ErrAlreadyStopped = errors.New("player: already stopped")

// State 播放状态.
type State int

const (
	Idle State = iota
	Loading
	Playing
	Ended
	Stopped
	Errored
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Playing:
		return "playing"
	case Ended:
		return "ended"
	case Stopped:
		return "stopped"
	case Errored:
		return "errored"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// MarshalText 以名称序列化.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText 按名称解析.
func (s *State) UnmarshalText(text []byte) error {
	for st := Idle; st <= Errored; st++ {
		if st.String() == string(text) {
			*s = st
			return nil
		}
	}

	return fmt.Errorf("player: unknown state %q", text)
}

// Active 是否处于加载或播放中.
func (s State) Active() bool {
	return s == Loading || s == Playing
}

// Mode 同一音效再次播放时的行为.
type Mode int

const (
	// Restart 从头重新播放，音板格子使用.
	Restart Mode = iota
	// Toggle 再次播放等于停止，音效库列表使用.
	Toggle
)

// Request 一次播放请求.
type Request struct {
	SoundID  string
	Location string // 本地路径或 URL
	Volume   int    // 0-100
}

// Handle 正在播放的音频.
type Handle interface {
	// Wait 阻塞直到播放结束.
	Wait() error
	// Stop 停止播放，可重复调用.
	Stop() error
}

// Backend 启动播放.
type Backend interface {
	Start(ctx context.Context, req Request) (Handle, error)
}

// Status 播放面的当前状态.
type Status struct {
	Surface string `json:"surface"`
	SoundID string `json:"sound_id,omitempty"`
	State   State  `json:"state"`
	Err     error  `json:"-"`
	Error   string `json:"error,omitempty"`
}

// Surface 一个播放面.
type Surface struct {
	name    string
	mode    Mode
	backend Backend
	log     zerolog.Logger

	mu      sync.Mutex
	gen     uint64
	soundID string
	state   State
	err     error
	handle  Handle
	done    chan struct{}
}

// NewSurface 创建播放面.
func NewSurface(name string, mode Mode, backend Backend) *Surface {
	done := make(chan struct{})
	close(done)

	return &Surface{
		name:    name,
		mode:    mode,
		backend: backend,
		log:     nlog.Component("player").With().Str("surface", name).Logger(),
		done:    done,
	}
}

// Status 当前状态快照.
func (s *Surface) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{Surface: s.name, SoundID: s.soundID, State: s.state, Err: s.err}
	if s.err != nil {
		st.Error = s.err.Error()
	}

	return st
}

// Play 播放音效. Toggle 模式下对正在播放的同一音效调用会停止它.
func (s *Surface) Play(ctx context.Context, req Request) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode == Toggle && s.state.Active() && s.soundID == req.SoundID {
		s.stopLocked()

		return s.state, nil
	}

	s.stopLocked()

	s.gen++
	gen := s.gen
	s.soundID = req.SoundID
	s.state = Loading
	s.err = nil
	s.done = make(chan struct{})

	h, err := s.backend.Start(ctx, req)
	if err != nil {
		s.finishLocked(Errored, err)
		metrics.Playbacks.WithLabelValues(s.name, metrics.ResultError).Inc()
		s.log.Warn().Err(err).Str("sound_id", req.SoundID).Msg("playback failed to start")

		return s.state, err
	}

	s.handle = h
	s.state = Playing
	metrics.Playbacks.WithLabelValues(s.name, metrics.ResultOK).Inc()

	go s.watch(gen, h)

	return s.state, nil
}

// Stop 停止当前播放.
func (s *Surface) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()
}

// Wait 阻塞直到当前播放结束或 ctx 取消，返回最终状态.
func (s *Surface) Wait(ctx context.Context) (State, error) {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()

	select {
	case <-done:
	case <-ctx.Done():
		return s.Status().State, ctx.Err()
	}

	st := s.Status()

	return st.State, st.Err
}

func (s *Surface) watch(gen uint64, h Handle) {
	err := h.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()

	// 已被新的播放或停止取代
	if gen != s.gen || !s.state.Active() {
		return
	}

	if err != nil {
		s.log.Warn().Err(err).Str("sound_id", s.soundID).Msg("playback error")
		s.finishLocked(Errored, err)

		return
	}

	s.finishLocked(Ended, nil)
}

func (s *Surface) stopLocked() {
	if !s.state.Active() {
		return
	}

	// 使旧句柄的完成回调失效
	s.gen++

	if s.handle != nil {
		if err := s.handle.Stop(); err != nil && !errors.Is(err, ErrAlreadyStopped) {
			s.log.Debug().Err(err).Msg("stop handle")
		}
	}

	s.finishLocked(Stopped, nil)
}

func (s *Surface) finishLocked(state State, err error) {
	s.state = state
	s.err = err
	s.handle = nil

	select {
	case <-s.done:
	default:
		close(s.done)
	}
}
