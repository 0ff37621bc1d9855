package cmd

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yeisme/soundboard/pkg/internal/service"
	"github.com/yeisme/soundboard/pkg/internal/types"
)

var (
	boardCmd = &cobra.Command{
		Use:   "board",
		Short: "Show and edit the soundboard",
	}

	boardShowCmd = &cobra.Command{
		Use:     "show",
		Short:   "print the board slots",
		Aliases: []string{"ls"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd.Context(), func(ctx context.Context, svc *service.Services) error {
				return printBoard(cmd, svc.BoardView(ctx))
			})
		},
	}

	boardSeedCmd = &cobra.Command{
		Use:   "seed",
		Short: "fill the board with random sounds on first use",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd.Context(), func(ctx context.Context, svc *service.Services) error {
				seeded, err := svc.SeedBoard(ctx)
				if err != nil {
					return err
				}

				if !seeded {
					fmt.Fprintln(cmd.ErrOrStderr(), "board already initialized")
				}

				return printBoard(cmd, svc.BoardView(ctx))
			})
		},
	}

	boardPlaceCmd = &cobra.Command{
		Use:   "place <slot> <sound-id>",
		Short: "put a sound into a slot, replacing its content",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := parseSlot(args[0])
			if err != nil {
				return err
			}

			return withServices(cmd.Context(), func(ctx context.Context, svc *service.Services) error {
				if err := svc.PlaceSound(ctx, idx, args[1]); err != nil {
					return err
				}

				return printBoard(cmd, svc.BoardView(ctx))
			})
		},
	}

	boardAddCmd = &cobra.Command{
		Use:   "add <sound-id>",
		Short: "put a sound into the first empty slot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd.Context(), func(ctx context.Context, svc *service.Services) error {
				idx, err := svc.AddSound(ctx, args[0])
				if err != nil {
					return err
				}

				if jsonOutput {
					return printJSON(cmd.OutOrStdout(), types.AddSoundResponse{Index: idx})
				}

				fmt.Fprintf(cmd.OutOrStdout(), "added to slot %d\n", idx)

				return nil
			})
		},
	}

	boardRemoveCmd = &cobra.Command{
		Use:     "remove <slot>",
		Short:   "clear a slot",
		Aliases: []string{"rm"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := parseSlot(args[0])
			if err != nil {
				return err
			}

			return withServices(cmd.Context(), func(ctx context.Context, svc *service.Services) error {
				if err := svc.RemoveSlot(ctx, idx); err != nil {
					return err
				}

				return printBoard(cmd, svc.BoardView(ctx))
			})
		},
	}

	volumeCmd = &cobra.Command{
		Use:   "volume [0-100]",
		Short: "print or set the global volume",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				set bool
				v   int
			)

			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid volume %q: %w", args[0], err)
				}

				set, v = true, n
			}

			return withServices(cmd.Context(), func(ctx context.Context, svc *service.Services) error {
				if set {
					var err error
					if v, err = svc.Board.SetVolume(ctx, v); err != nil {
						return err
					}
				} else {
					v = svc.Board.Volume(ctx)
				}

				if jsonOutput {
					return printJSON(cmd.OutOrStdout(), types.VolumeResponse{Volume: v})
				}

				fmt.Fprintln(cmd.OutOrStdout(), v)

				return nil
			})
		},
	}
)

func parseSlot(s string) (int, error) {
	idx, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid slot %q: %w", s, err)
	}

	return idx, nil
}

func printBoard(cmd *cobra.Command, b types.BoardResponse) error {
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), b)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SLOT\tID\tTITLE\tCATEGORY")

	for _, s := range b.Slots {
		if s.Sound == nil {
			fmt.Fprintf(w, "%d\t-\t(empty)\t\n", s.Index)

			continue
		}

		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", s.Index, s.Sound.ID, s.Sound.Title, s.CategoryName)
	}

	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "volume %d\n", b.Volume)

	return nil
}

// registerBoardCommands 注册音板与音量命令.
func registerBoardCommands() {
	boardCmd.AddCommand(boardShowCmd, boardSeedCmd, boardPlaceCmd, boardAddCmd, boardRemoveCmd)
	rootCmd.AddCommand(boardCmd, volumeCmd)
}
