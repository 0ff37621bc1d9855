package player

import "fmt"

// LibrarySurface 音效库列表的播放面名称.
const LibrarySurface = "library"

// Deck 一个页面上的全部播放面：音效库列表一个（Toggle），每个音板格子一个（Restart）.
// 各播放面互不影响，格子之间可以同时发声.
type Deck struct {
	library *Surface
	slots   []*Surface
}

// NewDeck 按槽位数创建播放面，共用同一个后端.
func NewDeck(slots int, backend Backend) *Deck {
	d := &Deck{
		library: NewSurface(LibrarySurface, Toggle, backend),
		slots:   make([]*Surface, slots),
	}

	for i := range d.slots {
		d.slots[i] = NewSurface(SlotSurface(i), Restart, backend)
	}

	return d
}

// SlotSurface 第 i 个格子的播放面名称.
func SlotSurface(i int) string {
	return fmt.Sprintf("slot-%d", i)
}

// Library 音效库列表的播放面.
func (d *Deck) Library() *Surface {
	return d.library
}

// Slot 第 i 个格子的播放面，越界时 ok 为 false.
func (d *Deck) Slot(i int) (*Surface, bool) {
	if i < 0 || i >= len(d.slots) {
		return nil, false
	}

	return d.slots[i], true
}

// Statuses 全部播放面的状态，音效库在前.
func (d *Deck) Statuses() []Status {
	out := make([]Status, 0, len(d.slots)+1)
	out = append(out, d.library.Status())

	for _, s := range d.slots {
		out = append(out, s.Status())
	}

	return out
}

// StopAll 停止全部播放.
func (d *Deck) StopAll() {
	d.library.Stop()

	for _, s := range d.slots {
		s.Stop()
	}
}
