// Package board 管理固定数量槽位的音板，每次变更后立即持久化.
//
// 槽位状态只有空与占用两种. 整个音板另有一次性的"未初始化 -> 已播种"转换，
// 由单独持久化的初始化标记控制，确保用户清空音板后不会被重新填满.
package board

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/rs/zerolog"

	"github.com/yeisme/soundboard/pkg/configs"
	"github.com/yeisme/soundboard/pkg/internal/model"
	nlog "github.com/yeisme/soundboard/pkg/log"
	"github.com/yeisme/soundboard/pkg/metrics"
	"github.com/yeisme/soundboard/pkg/store"
)

var (
	// ErrBoardFull 没有空槽位.
	ErrBoardFull = errors.New("board: no empty slots")
	// ErrSlotOutOfRange 槽位下标越界.
	ErrSlotOutOfRange = errors.New("board: slot index out of range")
	// ErrAlreadyPlaced 音效已在其它槽位（strict_unique 开启时）.
	ErrAlreadyPlaced = errors.New("board: sound already on the board")
)

// Manager 音板管理器，单写者，内部加锁.
type Manager struct {
	cfg         configs.BoardConfig
	slots       *store.Binding[[]*model.Sound]
	initialized *store.Binding[bool]
	volume      *store.Binding[int]
	shuffle     func(n int, swap func(i, j int))
	log         zerolog.Logger

	mu sync.Mutex
}

// Option 配置 Manager.
type Option func(*Manager)

// WithShuffle 替换洗牌函数，测试用.
func WithShuffle(fn func(n int, swap func(i, j int))) Option {
	return func(m *Manager) { m.shuffle = fn }
}

// NewManager 创建音板管理器.
func NewManager(s *store.Store, cfg configs.BoardConfig, opts ...Option) *Manager {
	m := &Manager{
		cfg: cfg,
		slots: store.Bind(s, cfg.Keys.Board, func() []*model.Sound {
			return make([]*model.Sound, cfg.Slots)
		}),
		// 标记以键是否存在为准，读取时不写回默认值
		initialized: store.Bind(s, cfg.Keys.Initialized, func() bool { return false }, store.WithoutCommit()),
		volume:      store.Bind(s, cfg.Keys.Volume, func() int { return cfg.DefaultVolume }),
		shuffle:     rand.Shuffle,
		log:         nlog.Component("board"),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Size 槽位数量.
func (m *Manager) Size() int {
	return m.cfg.Slots
}

// load 读取并修正长度，长度不符时补空或截断.
func (m *Manager) load(ctx context.Context) []*model.Sound {
	slots := m.slots.Get(ctx)

	switch {
	case len(slots) == m.cfg.Slots:
		return slots
	case len(slots) > m.cfg.Slots:
		m.log.Warn().Int("stored", len(slots)).Int("slots", m.cfg.Slots).Msg("stored board longer than configured, truncating")

		return slots[:m.cfg.Slots]
	default:
		fixed := make([]*model.Sound, m.cfg.Slots)
		copy(fixed, slots)

		return fixed
	}
}

func (m *Manager) save(ctx context.Context, op string, slots []*model.Sound) error {
	err := m.slots.Set(ctx, slots)
	metrics.BoardMutations.WithLabelValues(op, metrics.ObserveResult(err)).Inc()

	if err != nil {
		return fmt.Errorf("persist board: %w", err)
	}

	metrics.BoardOccupiedSlots.Set(float64(occupied(slots)))

	return nil
}

// Slots 返回当前槽位快照，空槽位为 nil.
func (m *Manager) Slots(ctx context.Context) []*model.Sound {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.load(ctx)
}

// Seed 仅在初始化标记键不存在时执行：洗牌后把前 K 个音效放进 0..K-1，其余为空.
// 标记内容无法解码也视为已初始化. 无法确认标记是否存在时返回错误，不动音板.
// 返回是否真的执行了播种.
func (m *Manager) Seed(ctx context.Context, sounds []model.Sound) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	done, err := m.initialized.Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("check initialized flag: %w", err)
	}

	if done {
		return false, nil
	}

	pool := append([]model.Sound(nil), sounds...)
	m.shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	slots := make([]*model.Sound, m.cfg.Slots)
	for i := 0; i < m.cfg.InitialFilled && i < len(pool) && i < len(slots); i++ {
		s := pool[i]
		slots[i] = &s
	}

	if err := m.save(ctx, "seed", slots); err != nil {
		return false, err
	}

	if err := m.initialized.Set(ctx, true); err != nil {
		return false, fmt.Errorf("persist initialized flag: %w", err)
	}

	m.log.Info().Int("filled", occupied(slots)).Msg("board seeded")

	return true, nil
}

// Initialized 是否已经播种过. 读取失败时记录日志并返回 false.
func (m *Manager) Initialized(ctx context.Context) bool {
	done, err := m.initialized.Exists(ctx)
	if err != nil {
		m.log.Warn().Err(err).Msg("failed to read initialized flag")
	}

	return done
}

// Place 把音效放入指定槽位，覆盖原有内容.
func (m *Manager) Place(ctx context.Context, index int, sound model.Sound) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	slots := m.load(ctx)
	if index < 0 || index >= len(slots) {
		return fmt.Errorf("%w: %d", ErrSlotOutOfRange, index)
	}

	if m.cfg.StrictUnique {
		if at := indexOf(slots, sound.ID); at >= 0 && at != index {
			return fmt.Errorf("%w: slot %d", ErrAlreadyPlaced, at)
		}
	}

	slots[index] = &sound

	return m.save(ctx, "place", slots)
}

// Add 把音效放入第一个空槽位，返回所用下标. 音板已满时不做任何修改.
func (m *Manager) Add(ctx context.Context, sound model.Sound) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	slots := m.load(ctx)

	if m.cfg.StrictUnique {
		if at := indexOf(slots, sound.ID); at >= 0 {
			return at, fmt.Errorf("%w: slot %d", ErrAlreadyPlaced, at)
		}
	}

	index := firstEmpty(slots)
	if index < 0 {
		metrics.BoardMutations.WithLabelValues("add", "full").Inc()

		return -1, ErrBoardFull
	}

	slots[index] = &sound

	return index, m.save(ctx, "add", slots)
}

// Remove 清空槽位，空槽位上调用是无操作.
func (m *Manager) Remove(ctx context.Context, index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	slots := m.load(ctx)
	if index < 0 || index >= len(slots) {
		return fmt.Errorf("%w: %d", ErrSlotOutOfRange, index)
	}

	if slots[index] == nil {
		return nil
	}

	slots[index] = nil

	return m.save(ctx, "remove", slots)
}

// Contains 音效是否在音板上.
func (m *Manager) Contains(ctx context.Context, id string) bool {
	return indexOf(m.Slots(ctx), id) >= 0
}

// HasEmpty 是否还有空槽位.
func (m *Manager) HasEmpty(ctx context.Context) bool {
	return firstEmpty(m.Slots(ctx)) >= 0
}

// Volume 全局音量 0-100.
func (m *Manager) Volume(ctx context.Context) int {
	return clampVolume(m.volume.Get(ctx))
}

// SetVolume 设置全局音量，超出范围的值被截断.
func (m *Manager) SetVolume(ctx context.Context, v int) (int, error) {
	v = clampVolume(v)
	if err := m.volume.Set(ctx, v); err != nil {
		return 0, fmt.Errorf("persist volume: %w", err)
	}

	return v, nil
}

func clampVolume(v int) int {
	return max(0, min(100, v))
}

func indexOf(slots []*model.Sound, id string) int {
	for i, s := range slots {
		if s != nil && s.ID == id {
			return i
		}
	}

	return -1
}

func firstEmpty(slots []*model.Sound) int {
	for i, s := range slots {
		if s == nil {
			return i
		}
	}

	return -1
}

func occupied(slots []*model.Sound) int {
	n := 0

	for _, s := range slots {
		if s != nil {
			n++
		}
	}

	return n
}
