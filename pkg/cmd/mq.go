package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yeisme/soundboard/pkg/configs"
	"github.com/yeisme/soundboard/pkg/events"
	mq "github.com/yeisme/soundboard/pkg/internal/storage/mq"
)

var (
	mqCmd = &cobra.Command{
		Use:     "mq",
		Short:   "Event bus transport related commands",
		Aliases: []string{"messagequeue", "events"},
	}

	mqListCmd = &cobra.Command{
		Use:     "list",
		Short:   "list all registered mq types, the active one is marked with *",
		Aliases: []string{"ls", "l"},
		Run: func(cmd *cobra.Command, args []string) {
			active := configs.GetConfig().MQ.GetMQType()

			fmt.Fprintln(cmd.OutOrStdout(), "Registered mq types:")
			for _, t := range mq.GetRegisteredMQTypes() {
				fmt.Fprintln(cmd.OutOrStdout(), "   "+marker(t == active)+" "+string(t))
			}
		},
	}

	// 列出事件主题，* 表示按当前配置会发布.
	mqTopicsCmd = &cobra.Command{
		Use:   "topics",
		Short: "list event topics, the published ones are marked with *",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := configs.GetConfig().Events

			fmt.Fprintln(cmd.OutOrStdout(), "Event topics (producer "+cfg.Producer+"):")
			for _, topic := range events.Topics {
				fmt.Fprintln(cmd.OutOrStdout(), "   "+marker(events.TopicEnabled(cfg, topic))+" "+topic)
			}
		},
	}
)

// registerMQCommands 注册 MQ 相关命令.
func registerMQCommands() {
	rootCmd.AddCommand(mqCmd)
	mqCmd.AddCommand(mqListCmd, mqTopicsCmd)
}
