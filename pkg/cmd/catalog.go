package cmd

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yeisme/soundboard/pkg/configs"
	"github.com/yeisme/soundboard/pkg/internal/service"
)

var (
	soundsCategory string

	catalogCmd = &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the sound catalog",
	}

	catalogDirsCmd = &cobra.Command{
		Use:   "dirs",
		Short: "list the configured category directories in load order",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := configs.GetConfig().Catalog
			for _, d := range cfg.Directories {
				fmt.Fprintln(cmd.OutOrStdout(), cfg.ManifestPath(d, cfg.SoundsFile))
			}
		},
	}

	catalogCategoriesCmd = &cobra.Command{
		Use:     "categories",
		Short:   "list visible categories",
		Aliases: []string{"cats"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd.Context(), func(ctx context.Context, svc *service.Services) error {
				cats := svc.Catalog.Current(ctx).Categories
				if jsonOutput {
					return printJSON(cmd.OutOrStdout(), cats)
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tNAME\tCOLOR\tDIR")

				for _, c := range cats {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Color, c.Dir)
				}

				return w.Flush()
			})
		},
	}

	catalogSoundsCmd = &cobra.Command{
		Use:   "sounds",
		Short: "list sounds, optionally for one category",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd.Context(), func(ctx context.Context, svc *service.Services) error {
				sounds := svc.SoundsInCategory(ctx, soundsCategory)
				if jsonOutput {
					return printJSON(cmd.OutOrStdout(), sounds)
				}

				cats := svc.Categories(ctx)
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tTITLE\tCATEGORY\tTAGS")

				for _, s := range sounds {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.ID, s.Title, cats.Name(s.Category), strings.Join(s.Tags, ","))
				}

				return w.Flush()
			})
		},
	}

	catalogPromosCmd = &cobra.Command{
		Use:     "promos",
		Short:   "list promotion cards",
		Aliases: []string{"promotions"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd.Context(), func(ctx context.Context, svc *service.Services) error {
				promos := svc.Catalog.Current(ctx).Promotions
				if jsonOutput {
					return printJSON(cmd.OutOrStdout(), promos)
				}

				if len(promos) == 0 {
					fmt.Fprintln(cmd.ErrOrStderr(), "no promotions")

					return nil
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "TITLE\tBUTTON\tLINK")

				for _, p := range promos {
					fmt.Fprintf(w, "%s\t%s\t%s\n", p.Title, p.ButtonTitle, p.Link)
				}

				return w.Flush()
			})
		},
	}
)

// registerCatalogCommands 注册曲库相关命令.
func registerCatalogCommands() {
	catalogSoundsCmd.Flags().StringVar(&soundsCategory, "category", "", "only sounds of this category id")

	catalogCmd.AddCommand(catalogDirsCmd, catalogCategoriesCmd, catalogSoundsCmd, catalogPromosCmd)
	rootCmd.AddCommand(catalogCmd)
}
