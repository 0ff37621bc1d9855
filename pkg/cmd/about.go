package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yeisme/soundboard/pkg/configs"
)

var aboutCmd = &cobra.Command{
	Use:   "about",
	Short: "print version and creator links",
	RunE: func(cmd *cobra.Command, args []string) error {
		creator := configs.GetConfig().Creator

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"version": configs.AppVersion,
				"creator": creator,
			})
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "soundboard "+configs.AppVersion)

		if creator.Name != "" {
			fmt.Fprintln(out, "by "+creator.Name)
		}

		for _, l := range creator.Links {
			fmt.Fprintf(out, "  %s: %s\n", l.Title, l.URL)
		}

		return nil
	},
}

// registerAboutCommands 注册 about 命令.
func registerAboutCommands() {
	rootCmd.AddCommand(aboutCmd)
}
