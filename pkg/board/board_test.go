package board_test

import (
	"context"
	"errors"
	"testing"

	"github.com/yeisme/soundboard/pkg/board"
	"github.com/yeisme/soundboard/pkg/configs"
	"github.com/yeisme/soundboard/pkg/internal/model"
	"github.com/yeisme/soundboard/pkg/internal/storage/kv"
	"github.com/yeisme/soundboard/pkg/store"
)

// noShuffle 保持原顺序，让播种结果可预测.
func noShuffle(int, func(i, j int)) {}

func testConfig() configs.BoardConfig {
	return configs.BoardConfig{
		Slots:         6,
		InitialFilled: 4,
		DefaultVolume: 70,
		StrictUnique:  true,
		Keys: configs.BoardKeys{
			Board:       "soundboard",
			Initialized: "soundboard_initialized",
			Volume:      "globalVolume",
		},
	}
}

func sounds(ids ...string) []model.Sound {
	out := make([]model.Sound, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.Sound{ID: id, Title: id, Filename: id + ".mp3", Category: "brano"})
	}

	return out
}

func newManager(t *testing.T, cfg configs.BoardConfig) (*board.Manager, *store.Store) {
	t.Helper()

	mem, err := kv.NewMemoryKV(context.Background(), nil)
	if err != nil {
		t.Fatalf("memory kv: %v", err)
	}

	s := store.New(mem)

	return board.NewManager(s, cfg, board.WithShuffle(noShuffle)), s
}

func ids(slots []*model.Sound) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		if s != nil {
			out[i] = s.ID
		}
	}

	return out
}

// TestFreshBoardIsEmpty 测试全新音板全部为空且长度固定.
func TestFreshBoardIsEmpty(t *testing.T) {
	m, _ := newManager(t, testConfig())
	ctx := context.Background()

	slots := m.Slots(ctx)
	if len(slots) != 6 {
		t.Fatalf("expected 6 slots, got %d", len(slots))
	}

	for i, s := range slots {
		if s != nil {
			t.Errorf("slot %d should be empty", i)
		}
	}

	if !m.HasEmpty(ctx) {
		t.Error("fresh board should have empty slots")
	}
}

// TestSeedFillsFirstSlots 测试首次播种填充前 K 个槽位并设置初始化标记.
func TestSeedFillsFirstSlots(t *testing.T) {
	m, _ := newManager(t, testConfig())
	ctx := context.Background()

	seeded, err := m.Seed(ctx, sounds("a", "b", "c", "d", "e", "f", "g"))
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	if !seeded {
		t.Fatal("first seed should run")
	}

	got := ids(m.Slots(ctx))
	want := []string{"a", "b", "c", "d", "", ""}

	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("slots = %v, want %v", got, want)
		}
	}

	if !m.Initialized(ctx) {
		t.Error("initialized flag should be set")
	}
}

// TestSeedFewerSoundsThanSlots 测试音效不足 K 个时只填已有的.
func TestSeedFewerSoundsThanSlots(t *testing.T) {
	m, _ := newManager(t, testConfig())
	ctx := context.Background()

	if _, err := m.Seed(ctx, sounds("a", "b")); err != nil {
		t.Fatalf("seed: %v", err)
	}

	got := ids(m.Slots(ctx))
	if got[0] != "a" || got[1] != "b" || got[2] != "" {
		t.Errorf("unexpected slots %v", got)
	}
}

// TestSeedOnlyOnce 测试清空后不会被再次播种.
func TestSeedOnlyOnce(t *testing.T) {
	m, _ := newManager(t, testConfig())
	ctx := context.Background()

	if _, err := m.Seed(ctx, sounds("a", "b", "c", "d")); err != nil {
		t.Fatalf("seed: %v", err)
	}

	for i := range 6 {
		if err := m.Remove(ctx, i); err != nil {
			t.Fatalf("remove %d: %v", i, err)
		}
	}

	seeded, err := m.Seed(ctx, sounds("x", "y"))
	if err != nil {
		t.Fatalf("second seed: %v", err)
	}

	if seeded {
		t.Error("second seed should be a no-op")
	}

	for i, id := range ids(m.Slots(ctx)) {
		if id != "" {
			t.Errorf("slot %d should stay empty, got %s", i, id)
		}
	}
}

// flakyKVStore 读取存在性时返回后端故障.
type flakyKVStore struct {
	kv.KVStore
}

func (f *flakyKVStore) Exists(context.Context, string) (bool, error) {
	return false, errors.New("connection reset")
}

// TestSeedCorruptFlag 测试初始化标记内容损坏时仍视为已播种，清空的音板保持为空.
func TestSeedCorruptFlag(t *testing.T) {
	mem, _ := kv.NewMemoryKV(context.Background(), nil)
	m := board.NewManager(store.New(mem), testConfig(), board.WithShuffle(noShuffle))
	ctx := context.Background()

	if _, err := m.Seed(ctx, sounds("a", "b", "c", "d")); err != nil {
		t.Fatalf("seed: %v", err)
	}

	for i := range 6 {
		if err := m.Remove(ctx, i); err != nil {
			t.Fatalf("remove %d: %v", i, err)
		}
	}

	if err := mem.Set(ctx, "soundboard_initialized", []byte("yes"), 0); err != nil {
		t.Fatalf("write raw flag: %v", err)
	}

	seeded, err := m.Seed(ctx, sounds("x", "y", "z", "w"))
	if err != nil {
		t.Fatalf("seed again: %v", err)
	}

	if seeded {
		t.Error("a present flag must block seeding regardless of its content")
	}

	for i, id := range ids(m.Slots(ctx)) {
		if id != "" {
			t.Errorf("slot %d should stay empty, got %s", i, id)
		}
	}
}

// TestSeedFlagUnreadable 测试无法确认标记时返回错误且不改动音板.
func TestSeedFlagUnreadable(t *testing.T) {
	mem, _ := kv.NewMemoryKV(context.Background(), nil)
	ctx := context.Background()

	kept := sounds("k")
	if err := mem.Set(ctx, "soundboard", []byte(`[{"id":"k","title":"k","filename":"k.mp3","category":"brano"},null,null,null,null,null]`), 0); err != nil {
		t.Fatalf("write board: %v", err)
	}

	m := board.NewManager(store.New(&flakyKVStore{KVStore: mem}), testConfig(), board.WithShuffle(noShuffle))

	seeded, err := m.Seed(ctx, sounds("x", "y", "z", "w"))
	if err == nil {
		t.Fatal("expected an error when the flag cannot be read")
	}

	if seeded {
		t.Error("seed must not run when the flag state is unknown")
	}

	got := ids(m.Slots(ctx))
	if got[0] != kept[0].ID || got[1] != "" {
		t.Errorf("board should be untouched, got %v", got)
	}
}

// TestReadDoesNotCreateFlag 测试读取状态不会写入初始化标记.
func TestReadDoesNotCreateFlag(t *testing.T) {
	mem, _ := kv.NewMemoryKV(context.Background(), nil)
	m := board.NewManager(store.New(mem), testConfig())
	ctx := context.Background()

	if m.Initialized(ctx) {
		t.Fatal("fresh board should not be initialized")
	}

	_ = m.Slots(ctx)

	if ok, _ := mem.Exists(ctx, "soundboard_initialized"); ok {
		t.Error("reading the board must not create the initialized flag")
	}
}

// TestSeedWithShuffle 测试默认洗牌只从给定集合中取音效.
func TestSeedWithShuffle(t *testing.T) {
	mem, _ := kv.NewMemoryKV(context.Background(), nil)
	m := board.NewManager(store.New(mem), testConfig())
	ctx := context.Background()

	pool := sounds("a", "b", "c", "d", "e", "f", "g", "h")
	if _, err := m.Seed(ctx, pool); err != nil {
		t.Fatalf("seed: %v", err)
	}

	seen := map[string]bool{}
	for i, s := range m.Slots(ctx) {
		if i < 4 && s == nil {
			t.Fatalf("slot %d should be filled", i)
		}

		if i >= 4 && s != nil {
			t.Fatalf("slot %d should be empty", i)
		}

		if s != nil {
			if seen[s.ID] {
				t.Errorf("sound %s seeded twice", s.ID)
			}

			seen[s.ID] = true
		}
	}
}

// TestAddUsesFirstEmpty 测试添加使用第一个空槽位.
func TestAddUsesFirstEmpty(t *testing.T) {
	m, _ := newManager(t, testConfig())
	ctx := context.Background()

	if err := m.Place(ctx, 0, sounds("a")[0]); err != nil {
		t.Fatalf("place: %v", err)
	}

	if err := m.Place(ctx, 2, sounds("c")[0]); err != nil {
		t.Fatalf("place: %v", err)
	}

	idx, err := m.Add(ctx, sounds("b")[0])
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	if idx != 1 {
		t.Errorf("expected slot 1, got %d", idx)
	}
}

// TestAddFullBoard 测试音板已满时添加失败且不修改.
func TestAddFullBoard(t *testing.T) {
	cfg := testConfig()
	cfg.Slots = 2
	cfg.InitialFilled = 1
	m, _ := newManager(t, cfg)
	ctx := context.Background()

	for _, s := range sounds("a", "b") {
		if _, err := m.Add(ctx, s); err != nil {
			t.Fatalf("add %s: %v", s.ID, err)
		}
	}

	if m.HasEmpty(ctx) {
		t.Error("board should be full")
	}

	if _, err := m.Add(ctx, sounds("c")[0]); !errors.Is(err, board.ErrBoardFull) {
		t.Fatalf("expected ErrBoardFull, got %v", err)
	}

	if m.Contains(ctx, "c") {
		t.Error("rejected sound should not be on the board")
	}
}

// TestUniqueness 测试严格模式下同一音效不能出现两次.
func TestUniqueness(t *testing.T) {
	m, _ := newManager(t, testConfig())
	ctx := context.Background()
	a := sounds("a")[0]

	if _, err := m.Add(ctx, a); err != nil {
		t.Fatalf("add: %v", err)
	}

	if _, err := m.Add(ctx, a); !errors.Is(err, board.ErrAlreadyPlaced) {
		t.Errorf("expected ErrAlreadyPlaced on add, got %v", err)
	}

	if err := m.Place(ctx, 3, a); !errors.Is(err, board.ErrAlreadyPlaced) {
		t.Errorf("expected ErrAlreadyPlaced on place, got %v", err)
	}

	// 放回原位允许
	if err := m.Place(ctx, 0, a); err != nil {
		t.Errorf("placing into its own slot should succeed: %v", err)
	}
}

// TestNonStrictAllowsDuplicates 测试关闭严格模式后允许重复.
func TestNonStrictAllowsDuplicates(t *testing.T) {
	cfg := testConfig()
	cfg.StrictUnique = false
	m, _ := newManager(t, cfg)
	ctx := context.Background()
	a := sounds("a")[0]

	if err := m.Place(ctx, 0, a); err != nil {
		t.Fatalf("place: %v", err)
	}

	if err := m.Place(ctx, 5, a); err != nil {
		t.Fatalf("duplicate place: %v", err)
	}

	got := ids(m.Slots(ctx))
	if got[0] != "a" || got[5] != "a" {
		t.Errorf("unexpected slots %v", got)
	}
}

// TestPlaceReplaces 测试放入已占用槽位会覆盖.
func TestPlaceReplaces(t *testing.T) {
	m, _ := newManager(t, testConfig())
	ctx := context.Background()

	_ = m.Place(ctx, 1, sounds("a")[0])

	if err := m.Place(ctx, 1, sounds("b")[0]); err != nil {
		t.Fatalf("place: %v", err)
	}

	if m.Contains(ctx, "a") || !m.Contains(ctx, "b") {
		t.Errorf("slot 1 should hold b, got %v", ids(m.Slots(ctx)))
	}
}

// TestOutOfRange 测试越界下标.
func TestOutOfRange(t *testing.T) {
	m, _ := newManager(t, testConfig())
	ctx := context.Background()

	for _, idx := range []int{-1, 6, 100} {
		if err := m.Place(ctx, idx, sounds("a")[0]); !errors.Is(err, board.ErrSlotOutOfRange) {
			t.Errorf("place %d: expected ErrSlotOutOfRange, got %v", idx, err)
		}

		if err := m.Remove(ctx, idx); !errors.Is(err, board.ErrSlotOutOfRange) {
			t.Errorf("remove %d: expected ErrSlotOutOfRange, got %v", idx, err)
		}
	}
}

// TestRemoveEmptyIsNoop 测试移除空槽位无副作用.
func TestRemoveEmptyIsNoop(t *testing.T) {
	m, s := newManager(t, testConfig())
	ctx := context.Background()

	changes := 0
	s.OnChange(func(context.Context, string, []byte) { changes++ })

	_ = m.Slots(ctx) // 首次读取会写回默认值
	changes = 0

	if err := m.Remove(ctx, 2); err != nil {
		t.Fatalf("remove: %v", err)
	}

	if changes != 0 {
		t.Errorf("removing an empty slot should not persist, got %d writes", changes)
	}
}

// TestBoardSurvivesRestart 测试重新创建管理器后状态保留.
func TestBoardSurvivesRestart(t *testing.T) {
	mem, _ := kv.NewMemoryKV(context.Background(), nil)
	s := store.New(mem)
	ctx := context.Background()

	first := board.NewManager(s, testConfig(), board.WithShuffle(noShuffle))
	if err := first.Place(ctx, 4, sounds("e")[0]); err != nil {
		t.Fatalf("place: %v", err)
	}

	second := board.NewManager(s, testConfig(), board.WithShuffle(noShuffle))

	got := second.Slots(ctx)
	if got[4] == nil || got[4].ID != "e" {
		t.Errorf("slot 4 should survive restart, got %v", ids(got))
	}
}

// TestStoredBoardResized 测试存储的音板长度与配置不同时被修正.
func TestStoredBoardResized(t *testing.T) {
	mem, _ := kv.NewMemoryKV(context.Background(), nil)
	s := store.New(mem)
	ctx := context.Background()

	a := sounds("a")[0]
	if err := store.Set(ctx, s, "soundboard", []*model.Sound{&a, nil}); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	m := board.NewManager(s, testConfig())

	got := m.Slots(ctx)
	if len(got) != 6 || got[0] == nil || got[0].ID != "a" {
		t.Errorf("expected padded board with a in slot 0, got %v", ids(got))
	}
}

// TestVolume 测试音量默认值、持久化与截断.
func TestVolume(t *testing.T) {
	m, _ := newManager(t, testConfig())
	ctx := context.Background()

	if got := m.Volume(ctx); got != 70 {
		t.Errorf("default volume = %d, want 70", got)
	}

	tests := []struct {
		in, want int
	}{
		{55, 55},
		{-10, 0},
		{150, 100},
	}

	for _, tt := range tests {
		got, err := m.SetVolume(ctx, tt.in)
		if err != nil {
			t.Fatalf("set volume %d: %v", tt.in, err)
		}

		if got != tt.want || m.Volume(ctx) != tt.want {
			t.Errorf("SetVolume(%d) = %d, stored %d, want %d", tt.in, got, m.Volume(ctx), tt.want)
		}
	}
}
