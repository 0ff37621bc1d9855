package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yeisme/soundboard/pkg/configs"
	kv "github.com/yeisme/soundboard/pkg/internal/storage/kv"
)

var (
	kvCmd = &cobra.Command{
		Use:     "kv",
		Short:   "Key-Value store related commands",
		Aliases: []string{"keyvalue"},
	}

	kvListCmd = &cobra.Command{
		Use:     "list",
		Short:   "list all registered kv types, the active one is marked with *",
		Aliases: []string{"ls", "l"},
		Run: func(cmd *cobra.Command, args []string) {
			active := kv.KVType(configs.GetConfig().KV.Type)

			fmt.Fprintln(cmd.OutOrStdout(), "Registered kv types:")
			for _, t := range kv.GetRegisteredKVTypes() {
				fmt.Fprintln(cmd.OutOrStdout(), "   "+marker(t == active)+" "+string(t))
			}
		},
	}
)

// marker 标记当前启用的类型.
func marker(active bool) string {
	if active {
		return "*"
	}

	return "-"
}

// registerKVCommands 注册 KV 相关命令.
func registerKVCommands() {
	rootCmd.AddCommand(kvCmd)
	kvCmd.AddCommand(kvListCmd)
}
