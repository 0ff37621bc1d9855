//go:build !no_sqlite && !cgo

package db

import (
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/yeisme/soundboard/pkg/configs"
)

// modernc 驱动使用 _pragma=name(value) 形式.
const pureSQLitePragmas = "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

// openPureSQLite 无 cgo 时的默认实现，单文件分发的 CLI 走这里.
func openPureSQLite(dsn string) gorm.Dialector {
	return sqlite.Open(withQuery(dsn, pureSQLitePragmas))
}

func withQuery(dsn, extra string) string {
	if strings.Contains(dsn, "?") {
		return dsn + "&" + extra
	}

	return dsn + "?" + extra
}

func init() {
	RegisterDialectorFactory(configs.SQLite, openPureSQLite)
}
