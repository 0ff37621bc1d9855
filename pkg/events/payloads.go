package events

import "github.com/yeisme/soundboard/pkg/internal/model"

// BoardChangedPayload sb.board.changed 负载，携带完整槽位快照.
type BoardChangedPayload struct {
	Slots    []*model.Sound `json:"slots"`
	Occupied int            `json:"occupied"`
}

// VolumeChangedPayload sb.volume.changed 负载.
type VolumeChangedPayload struct {
	Volume int `json:"volume"`
}

// CatalogReloadedPayload sb.catalog.reloaded 负载.
type CatalogReloadedPayload struct {
	Version    string `json:"version"`
	Categories int    `json:"categories"`
	Sounds     int    `json:"sounds"`
	Promotions int    `json:"promotions"`
}

// NewBoardChangedPayload 从槽位构造负载.
func NewBoardChangedPayload(slots []*model.Sound) BoardChangedPayload {
	n := 0

	for _, s := range slots {
		if s != nil {
			n++
		}
	}

	return BoardChangedPayload{Slots: slots, Occupied: n}
}
