package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yeisme/soundboard/pkg/internal/service"
	"github.com/yeisme/soundboard/pkg/share"
)

var (
	shareCopy bool

	shareCmd = &cobra.Command{
		Use:   "share <sound-id>",
		Short: "print a share message for a sound, optionally copying it to the clipboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd.Context(), func(ctx context.Context, svc *service.Services) error {
				link, err := svc.ShareLink(ctx, args[0])
				if err != nil {
					return err
				}

				if jsonOutput {
					if err := printJSON(cmd.OutOrStdout(), link); err != nil {
						return err
					}
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), link.Text)
					fmt.Fprintln(cmd.OutOrStdout(), link.WhatsAppURL)
				}

				if !shareCopy {
					return nil
				}

				// 没有剪贴板时退回到 WhatsApp 链接，已在上面输出
				if !share.ClipboardAvailable() {
					fmt.Fprintln(cmd.ErrOrStderr(), "clipboard unavailable, use the WhatsApp link above")

					return nil
				}

				if err := share.Copy(link); err != nil {
					return fmt.Errorf("copy to clipboard: %w", err)
				}

				fmt.Fprintln(cmd.ErrOrStderr(), "copied to clipboard")

				return nil
			})
		},
	}
)

// registerShareCommands 注册分享命令.
func registerShareCommands() {
	shareCmd.Flags().BoolVar(&shareCopy, "copy", false, "copy the share text to the clipboard")

	rootCmd.AddCommand(shareCmd)
}
