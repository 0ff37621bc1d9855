package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yeisme/soundboard/pkg/configs"
	"github.com/yeisme/soundboard/pkg/internal/storage/db"
)

var (
	dbCmd = &cobra.Command{
		Use:   "db",
		Short: "Database related commands (used when kv.type=db)",
	}

	dbListCmd = &cobra.Command{
		Use:   "ls",
		Short: "list all registered database types",
		Run: func(cmd *cobra.Command, args []string) {
			active := configs.GetConfig().DB.Type

			fmt.Fprintln(cmd.OutOrStdout(), "Registered database types:")
			for _, dbType := range db.GetRegisteredDBTypes() {
				fmt.Fprintln(cmd.OutOrStdout(), "   "+marker(dbType == active)+" "+string(dbType))
			}
		},
	}

	// 打印键值表实际使用的连接串，密码打码.
	dbDSNCmd = &cobra.Command{
		Use:   "dsn",
		Short: "print the effective DSN of the kv table (password masked)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configs.GetConfig().DB

			dsn := cfg.GetDSN()
			if dsn == "" {
				return fmt.Errorf("unsupported database type: %s", cfg.Type)
			}

			if cfg.Password != "" {
				dsn = strings.ReplaceAll(dsn, cfg.Password, "****")
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s table=%s\n%s\n", cfg.GetDBType(), cfg.Table, dsn)

			return nil
		},
	}
)

// registerDBCommands 注册数据库相关命令.
func registerDBCommands() {
	rootCmd.AddCommand(dbCmd)

	dbCmd.AddCommand(dbListCmd, dbDSNCmd)
}
