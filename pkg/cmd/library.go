package cmd

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yeisme/soundboard/pkg/internal/service"
	"github.com/yeisme/soundboard/pkg/library"
)

var (
	libraryCategory string

	libraryCmd = &cobra.Command{
		Use:   "library",
		Short: "Browse the sound library",
	}

	librarySearchCmd = &cobra.Command{
		Use:   "search [query]",
		Short: "search sounds by title or tag, sorted by title",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := library.Query{Text: strings.Join(args, " "), Category: libraryCategory}

			return withServices(cmd.Context(), func(ctx context.Context, svc *service.Services) error {
				res := svc.Library(ctx, q)
				if jsonOutput {
					return printJSON(cmd.OutOrStdout(), res)
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, " \tID\tTITLE\tCATEGORY")

				for _, it := range res.Items {
					mark := " "
					if it.OnBoard {
						mark = "●"
					}

					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", mark, it.Sound.ID, it.Sound.Title, it.CategoryName)
				}

				if err := w.Flush(); err != nil {
					return err
				}

				fmt.Fprintf(cmd.ErrOrStderr(), "%d sound(s)\n", res.Total)

				return nil
			})
		},
	}
)

// registerLibraryCommands 注册音效库命令.
func registerLibraryCommands() {
	librarySearchCmd.Flags().StringVar(&libraryCategory, "category", "", "only sounds of this category id")

	libraryCmd.AddCommand(librarySearchCmd)
	rootCmd.AddCommand(libraryCmd)
}
