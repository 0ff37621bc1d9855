// Package cmd contains the command line applications for the project.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/yeisme/soundboard/pkg/configs"
	"github.com/yeisme/soundboard/pkg/internal/service"
	"github.com/yeisme/soundboard/pkg/internal/storage"
	"github.com/yeisme/soundboard/pkg/log"
)

var (
	configPath string
	debug      bool
	jsonOutput bool

	rootCmd = &cobra.Command{
		Use:           "soundboard",
		Short:         "A personal soundboard backed by a static sound catalog",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := configs.InitConfig(configPath); err != nil {
				return err
			}

			if debug {
				cfg := configs.GetConfig()
				cfg.Server.Debug = true
				cfg.Log.Level = "debug"
				configs.SetConfig(*cfg)
			}

			log.Init()

			return nil
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file or directory (default: ./config.*)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print results as JSON")

	registerConfigsCommands()
	registerKVCommands()
	registerDBCommands()
	registerMQCommands()
	registerCatalogCommands()
	registerLibraryCommands()
	registerBoardCommands()
	registerPlayCommands()
	registerShareCommands()
	registerAboutCommands()
	registerServeCommands()
}

// Execute runs the root command. SIGINT/SIGTERM cancel the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}

// withServices 为一次性命令组装业务服务，fn 返回后释放资源.
// 进程内的 gochannel 总线对一次性命令没有订阅者，只有共享传输才创建.
func withServices(ctx context.Context, fn func(ctx context.Context, svc *service.Services) error) error {
	cfg := configs.GetConfig()

	mgr, err := storage.Init(ctx, cfg, storage.Options{Events: cfg.MQ.GetMQType() != configs.MQTypeGoChannel})
	if err != nil {
		return err
	}

	defer func() {
		if cerr := mgr.Close(); cerr != nil {
			log.Logger().Warn().Err(cerr).Msg("failed to close storage")
		}
	}()

	svc, err := service.New(ctx, cfg, mgr)
	if err != nil {
		return err
	}

	return fn(ctx, svc)
}

// printJSON 以缩进 JSON 输出.
func printJSON(w io.Writer, v any) error {
	b, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}

	_, err = fmt.Fprintln(w, string(b))

	return err
}
