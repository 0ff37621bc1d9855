package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/yeisme/soundboard/pkg/app"
	"github.com/yeisme/soundboard/pkg/configs"
	"github.com/yeisme/soundboard/pkg/log"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "run the HTTP API and serve the static sound files",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := app.NewApp(ctx, configs.GetConfig())
		if err != nil {
			return err
		}

		defer func() {
			closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()

			if err := a.Close(closeCtx); err != nil {
				log.Logger().Warn().Err(err).Msg("shutdown finished with errors")
			}
		}()

		return a.Run(ctx)
	},
}

// registerServeCommands 注册 serve 命令.
func registerServeCommands() {
	rootCmd.AddCommand(serveCmd)
}
