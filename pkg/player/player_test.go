package player_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/yeisme/soundboard/pkg/configs"
	"github.com/yeisme/soundboard/pkg/player"
)

// fakeHandle 手动控制结束时机的句柄.
type fakeHandle struct {
	finish  chan error
	stopped bool
	mu      sync.Mutex
}

func (h *fakeHandle) Wait() error {
	return <-h.finish
}

func (h *fakeHandle) Stop() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.stopped {
		return player.ErrAlreadyStopped
	}

	h.stopped = true

	go func() { h.finish <- errors.New("killed") }()

	return nil
}

func (h *fakeHandle) isStopped() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.stopped
}

type fakeBackend struct {
	mu       sync.Mutex
	handles  []*fakeHandle
	requests []player.Request
	fail     error
}

func (b *fakeBackend) Start(_ context.Context, req player.Request) (player.Handle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.requests = append(b.requests, req)
	if b.fail != nil {
		return nil, b.fail
	}

	h := &fakeHandle{finish: make(chan error, 1)}
	b.handles = append(b.handles, h)

	return h, nil
}

func (b *fakeBackend) handle(i int) *fakeHandle {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.handles[i]
}

func waitState(t *testing.T, s *player.Surface) player.State {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	st, _ := s.Wait(ctx)
	if ctx.Err() != nil {
		t.Fatal("timed out waiting for playback to finish")
	}

	return st
}

// TestPlayThenEnd 测试正常播放结束进入 Ended.
func TestPlayThenEnd(t *testing.T) {
	b := &fakeBackend{}
	s := player.NewSurface("cube-0", player.Restart, b)

	if s.Status().State != player.Idle {
		t.Fatalf("new surface should be idle")
	}

	st, err := s.Play(context.Background(), player.Request{SoundID: "a", Location: "a.mp3", Volume: 70})
	if err != nil || st != player.Playing {
		t.Fatalf("play: state=%v err=%v", st, err)
	}

	b.handle(0).finish <- nil

	if got := waitState(t, s); got != player.Ended {
		t.Errorf("expected Ended, got %v", got)
	}
}

// TestRestartStopsPrevious 测试 Restart 模式下再次播放会停掉旧句柄.
func TestRestartStopsPrevious(t *testing.T) {
	b := &fakeBackend{}
	s := player.NewSurface("cube-0", player.Restart, b)
	ctx := context.Background()

	_, _ = s.Play(ctx, player.Request{SoundID: "a"})
	st, _ := s.Play(ctx, player.Request{SoundID: "a"})

	if st != player.Playing {
		t.Fatalf("restart should be playing, got %v", st)
	}

	if !b.handle(0).isStopped() {
		t.Error("previous handle should be stopped")
	}

	// 旧句柄的结束不能影响新的播放
	time.Sleep(20 * time.Millisecond)

	if got := s.Status().State; got != player.Playing {
		t.Errorf("superseded completion changed state to %v", got)
	}

	b.handle(1).finish <- nil

	if got := waitState(t, s); got != player.Ended {
		t.Errorf("expected Ended, got %v", got)
	}
}

// TestToggleStops 测试 Toggle 模式下同一音效再次播放即停止.
func TestToggleStops(t *testing.T) {
	b := &fakeBackend{}
	s := player.NewSurface("library", player.Toggle, b)
	ctx := context.Background()

	_, _ = s.Play(ctx, player.Request{SoundID: "a"})

	st, err := s.Play(ctx, player.Request{SoundID: "a"})
	if err != nil || st != player.Stopped {
		t.Fatalf("toggle: state=%v err=%v", st, err)
	}

	if len(b.requests) != 1 {
		t.Errorf("toggle should not start a new playback, got %d starts", len(b.requests))
	}

	// 不同音效则切换
	st, _ = s.Play(ctx, player.Request{SoundID: "a"})
	if st != player.Playing {
		t.Fatalf("play after stop: %v", st)
	}

	st, _ = s.Play(ctx, player.Request{SoundID: "b"})
	if st != player.Playing || s.Status().SoundID != "b" {
		t.Errorf("switching sounds should play b, got %+v", s.Status())
	}
}

// TestStartFailure 测试启动失败进入 Errored.
func TestStartFailure(t *testing.T) {
	b := &fakeBackend{fail: errors.New("no such file")}
	s := player.NewSurface("cube-1", player.Restart, b)

	st, err := s.Play(context.Background(), player.Request{SoundID: "a"})
	if err == nil || st != player.Errored {
		t.Fatalf("expected Errored with error, got %v %v", st, err)
	}

	if s.Status().State.Active() {
		t.Error("errored surface should not be active")
	}
}

// TestPlaybackError 测试播放过程中出错进入 Errored.
func TestPlaybackError(t *testing.T) {
	b := &fakeBackend{}
	s := player.NewSurface("cube-2", player.Restart, b)

	_, _ = s.Play(context.Background(), player.Request{SoundID: "a"})
	b.handle(0).finish <- errors.New("decode error")

	if got := waitState(t, s); got != player.Errored {
		t.Errorf("expected Errored, got %v", got)
	}
}

// TestExecBackendArgs 测试外部播放器参数拼装.
func TestExecBackendArgs(t *testing.T) {
	b := player.NewExecBackend(configs.PlayerConfig{
		Command:    "ffplay",
		Args:       []string{"-nodisp", "-autoexit"},
		VolumeFlag: "-volume",
	})

	got := b.Args(player.Request{Location: "sounds/a.mp3", Volume: 130})
	want := []string{"-nodisp", "-autoexit", "-volume", "100", "sounds/a.mp3"}

	if len(got) != len(want) {
		t.Fatalf("args = %v, want %v", got, want)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("args = %v, want %v", got, want)
		}
	}
}

// TestStateText 测试状态名.
func TestStateText(t *testing.T) {
	text, _ := player.Playing.MarshalText()
	if string(text) != "playing" {
		t.Errorf("got %q", text)
	}

	var st player.State
	if err := st.UnmarshalText([]byte("stopped")); err != nil || st != player.Stopped {
		t.Errorf("unmarshal stopped: %v %v", st, err)
	}

	if err := st.UnmarshalText([]byte("paused")); err == nil {
		t.Error("unknown state should fail")
	}
}

// TestDeckModes 测试音效库播放面切换停止，格子播放面重新播放且互不影响.
func TestDeckModes(t *testing.T) {
	b := &fakeBackend{}
	d := player.NewDeck(2, b)
	ctx := context.Background()

	lib := d.Library()
	_, _ = lib.Play(ctx, player.Request{SoundID: "a"})

	if st, _ := lib.Play(ctx, player.Request{SoundID: "a"}); st != player.Stopped {
		t.Errorf("library surface should toggle off, got %v", st)
	}

	slot, ok := d.Slot(1)
	if !ok {
		t.Fatal("slot 1 should exist")
	}

	_, _ = slot.Play(ctx, player.Request{SoundID: "a"})

	if st, _ := slot.Play(ctx, player.Request{SoundID: "a"}); st != player.Playing {
		t.Errorf("slot surface should restart, got %v", st)
	}

	if _, ok := d.Slot(2); ok {
		t.Error("slot 2 should be out of range")
	}

	statuses := d.Statuses()
	if len(statuses) != 3 || statuses[0].Surface != player.LibrarySurface || statuses[2].Surface != "slot-1" {
		t.Fatalf("unexpected statuses %+v", statuses)
	}

	d.StopAll()

	if got := slot.Status().State; got != player.Stopped {
		t.Errorf("stop all should stop slot 1, got %v", got)
	}
}

// TestTerminalStateSticky 测试终态保留到下一次播放.
func TestTerminalStateSticky(t *testing.T) {
	b := &fakeBackend{}
	s := player.NewSurface("slot-0", player.Restart, b)
	ctx := context.Background()

	_, _ = s.Play(ctx, player.Request{SoundID: "a"})
	b.handle(0).finish <- errors.New("decoder error")

	if got := waitState(t, s); got != player.Errored {
		t.Fatalf("expected Errored, got %v", got)
	}

	st := s.Status()
	if st.State != player.Errored || st.Error != "decoder error" || st.State.Active() {
		t.Errorf("errored state should be kept and inactive, got %+v", st)
	}

	if got, _ := s.Play(ctx, player.Request{SoundID: "b"}); got != player.Playing {
		t.Errorf("next play should leave the terminal state, got %v", got)
	}
}
