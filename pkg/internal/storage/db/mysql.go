//go:build !no_mysql

package db

import (
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/yeisme/soundboard/pkg/configs"
)

// kvKeySize 键列长度，需落在 InnoDB 索引前缀限制内.
const kvKeySize = 191

func openMySQL(dsn string) gorm.Dialector {
	return mysql.New(mysql.Config{
		DSN:                       dsn,
		DefaultStringSize:         kvKeySize,
		SkipInitializeWithVersion: false,
	})
}

func init() {
	for _, t := range []configs.DBType{configs.MySQL, configs.MariaDB} {
		RegisterDialectorFactory(t, openMySQL)
	}
}
