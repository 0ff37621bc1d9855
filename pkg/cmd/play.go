package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yeisme/soundboard/pkg/configs"
	"github.com/yeisme/soundboard/pkg/internal/service"
	"github.com/yeisme/soundboard/pkg/player"
)

var playCmd = &cobra.Command{
	Use:   "play <sound-id>",
	Short: "play a sound with the configured external player at the global volume",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend := player.NewExecBackend(configs.GetConfig().Player)
		surface := player.NewSurface("cli", player.Restart, backend)

		return withServices(cmd.Context(), func(ctx context.Context, svc *service.Services) error {
			req, err := svc.PlayRequest(ctx, args[0])
			if err != nil {
				return err
			}

			if _, err := surface.Play(ctx, req); err != nil {
				return fmt.Errorf("start player %q: %w", configs.GetConfig().Player.Command, err)
			}

			state, err := surface.Wait(ctx)
			if errors.Is(err, context.Canceled) {
				surface.Stop()

				state = surface.Status().State
				err = nil
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", req.SoundID, state)

			return err
		})
	},
}

// registerPlayCommands 注册播放命令.
func registerPlayCommands() {
	rootCmd.AddCommand(playCmd)
}
