package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Numbertalktw/sku-gen-sheet/internal/app"
	"github.com/Numbertalktw/sku-gen-sheet/internal/config"
	"github.com/Numbertalktw/sku-gen-sheet/internal/identifier"
	"github.com/Numbertalktw/sku-gen-sheet/internal/logging"
)

var (
	configPath string
	logLevel   string

	cfg        *config.AppConfig
	configInfo config.LoadConfigInfo
	logger     *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "skugen",
	Short: "Product SKU generator backed by a shared spreadsheet",
	Long: `skugen loads dropdown options (category, feature, color, size ...) from a
shared spreadsheet and assembles the selected values into a product SKU.

Run without a subcommand to start the local web form.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == initConfigCmd.Name() {
			return nil
		}

		var err error
		cfg, configInfo, err = config.LoadConfigWithInfo(configPath)
		if err != nil {
			return fmt.Errorf("加载配置失败: %w", err)
		}
		if logLevel != "" {
			cfg.Log.Level = logLevel
		}

		logger, err = logging.New(cfg.Log.Level, cfg.Log.Development)
		if err != nil {
			return err
		}
		if configInfo.Path != "" {
			logger.Debug("config loaded", zap.String("path", configInfo.Path))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "配置文件路径 (.toml / .yaml)，默认查找可执行文件同目录下的 config.toml")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "日志级别 (debug, info, warn, error)")

	addServeFlags(rootCmd)
	rootCmd.AddCommand(serveCmd, optionsCmd, assembleCmd, initConfigCmd)
}

func newApp() (*app.App, error) {
	return app.New(cfg, logger)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if errors.Is(err, identifier.ErrIncompleteSelection) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
