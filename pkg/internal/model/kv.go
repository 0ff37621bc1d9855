package model

import "time"

// KVEntry 持久化键值空间的一行，kv.type=db 时使用.
// 列名避开 key/value 这类在 MySQL 中需要转义的保留字.
type KVEntry struct {
	Key       string     `gorm:"column:k;primaryKey;size:191"`
	Value     []byte     `gorm:"column:v"`
	ExpiresAt *time.Time `gorm:"column:expires_at;index"`
	UpdatedAt time.Time  `gorm:"column:updated_at"`
}

// Expired 判断条目在 now 时是否已过期.
func (e *KVEntry) Expired(now time.Time) bool {
	return e.ExpiresAt != nil && !now.Before(*e.ExpiresAt)
}
