//go:build !no_sqlite && cgo

package db

import (
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeisme/soundboard/pkg/configs"
)

// mattn 驱动的 pragma 写法，调度任务与 HTTP 请求会并发写入键值表.
const cgoSQLitePragmas = "_busy_timeout=5000&_journal_mode=WAL"

func openCgoSQLite(dsn string) gorm.Dialector {
	return sqlite.Open(withQuery(dsn, cgoSQLitePragmas))
}

// withQuery 把额外参数追加到 DSN 的查询串上.
func withQuery(dsn, extra string) string {
	if strings.Contains(dsn, "?") {
		return dsn + "&" + extra
	}

	return dsn + "?" + extra
}

func init() {
	RegisterDialectorFactory(configs.SQLite, openCgoSQLite)
}
