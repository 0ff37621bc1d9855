package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yeisme/soundboard/pkg/configs"
	"github.com/yeisme/soundboard/pkg/internal/model"
	dbc "github.com/yeisme/soundboard/pkg/internal/storage/db"
)

// DBKV 把键值空间落在一张 SQL 表里，默认是本地 sqlite 文件，对应浏览器的 localStorage.
type DBKV struct {
	client *dbc.Client
	table  string
	now    func() time.Time
}

// NewDBKV 打开数据库并确保表结构存在.
func NewDBKV(ctx context.Context, config any) (KVStore, error) {
	dbConfig, ok := config.(*configs.DBConfig)
	if !ok {
		return nil, fmt.Errorf("invalid DB config")
	}

	app := configs.GetConfig()

	client, err := dbc.New(ctx, dbConfig, dbc.Options{
		Metrics: app.Metrics.Enabled && app.Metrics.DBMetrics,
		Debug:   app.Server.Debug,
	})
	if err != nil {
		return nil, err
	}

	table := dbConfig.Table
	if table == "" {
		table = "kv_entries"
	}

	if err := client.WithContext(ctx).Table(table).AutoMigrate(&model.KVEntry{}); err != nil {
		_ = client.Close()

		return nil, fmt.Errorf("migrate kv table: %w", err)
	}

	return &DBKV{client: client, table: table, now: time.Now}, nil
}

func (d *DBKV) tx(ctx context.Context) *gorm.DB {
	return d.client.WithContext(ctx).Table(d.table)
}

// Get 获取键的值.
func (d *DBKV) Get(ctx context.Context, key string) ([]byte, error) {
	var entry model.KVEntry

	err := d.tx(ctx).Where("k = ?", key).Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound(key)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get key: %w", err)
	}

	if entry.Expired(d.now()) {
		_ = d.Delete(ctx, key)

		return nil, notFound(key)
	}

	return entry.Value, nil
}

// Set 以 upsert 写入，写入即落盘.
func (d *DBKV) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	now := d.now()
	entry := model.KVEntry{Key: key, Value: value, UpdatedAt: now}

	if ttl > 0 {
		exp := now.Add(ttl)
		entry.ExpiresAt = &exp
	}

	err := d.tx(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "k"}},
		DoUpdates: clause.AssignmentColumns([]string{"v", "expires_at", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to set key: %w", err)
	}

	return nil
}

// Delete 删除键.
func (d *DBKV) Delete(ctx context.Context, key string) error {
	if err := d.tx(ctx).Where("k = ?", key).Delete(&model.KVEntry{}).Error; err != nil {
		return fmt.Errorf("failed to delete key: %w", err)
	}

	return nil
}

// Exists 检查键是否存在.
func (d *DBKV) Exists(ctx context.Context, key string) (bool, error) {
	_, err := d.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}

	return err == nil, err
}

// Keys 获取匹配模式的键. 键空间很小，直接在内存里按 glob 过滤.
func (d *DBKV) Keys(ctx context.Context, pattern string) ([]string, error) {
	var keys []string

	now := d.now()

	err := d.tx(ctx).
		Where("expires_at IS NULL OR expires_at > ?", now).
		Order("k").
		Pluck("k", &keys).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}

	result := make([]string, 0, len(keys))

	for _, k := range keys {
		if matchKey(pattern, k) {
			result = append(result, k)
		}
	}

	return result, nil
}

// Sweep 删除已过期的行.
func (d *DBKV) Sweep(ctx context.Context) (int64, error) {
	res := d.tx(ctx).Where("expires_at IS NOT NULL AND expires_at <= ?", d.now()).Delete(&model.KVEntry{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to sweep expired keys: %w", res.Error)
	}

	return res.RowsAffected, nil
}

// Close 关闭数据库连接.
func (d *DBKV) Close() error {
	return d.client.Close()
}

func init() {
	RegisterKVFactory(KVTypeDB, NewDBKV)
}
