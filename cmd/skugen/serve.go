package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Numbertalktw/sku-gen-sheet/internal/server"
	"github.com/Numbertalktw/sku-gen-sheet/internal/util"
)

var (
	port      int
	devMode   bool
	noBrowser bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web form and open it in the browser",
	RunE:  runServe,
}

func init() {
	addServeFlags(serveCmd)
}

func addServeFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&port, "port", 0, "服务端口 (配置文件优先；仅当未显式配置 port 时生效)")
	cmd.Flags().BoolVar(&devMode, "dev", false, "开发模式")
	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "不自动打开浏览器")
}

func runServe(cmd *cobra.Command, args []string) error {
	// 命令行参数覆盖配置
	if port > 0 && !configInfo.PortSpecified {
		cfg.Server.Port = port
	}
	if devMode {
		cfg.Server.DevMode = true
	}
	if noBrowser {
		cfg.Server.OpenBrowser = false
	}

	a, err := newApp()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stopWatcher, err := a.StartWatcher(ctx)
	if err != nil {
		logger.Warn("workbook watcher unavailable", zap.Error(err))
		stopWatcher = func() {}
	}
	defer stopWatcher()

	srv := server.NewServer(a)
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", addr), zap.String("source", cfg.Source.Kind))
		errCh <- srv.Run(addr)
	}()

	// 预热缓存，首个页面请求无需等待远端
	go func() {
		if _, err := a.Cache.Get(ctx); err != nil {
			logger.Debug("option prefetch cancelled", zap.Error(err))
		}
	}()

	if cfg.Server.OpenBrowser && !cfg.Server.DevMode {
		if err := util.OpenBrowser(url); err != nil {
			logger.Warn("无法自动打开浏览器，请手动访问", zap.String("url", url), zap.Error(err))
		}
	} else {
		logger.Info("请访问", zap.String("url", url))
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
