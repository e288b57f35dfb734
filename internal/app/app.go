package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Numbertalktw/sku-gen-sheet/internal/config"
	"github.com/Numbertalktw/sku-gen-sheet/internal/identifier"
	"github.com/Numbertalktw/sku-gen-sheet/internal/metrics"
	"github.com/Numbertalktw/sku-gen-sheet/internal/model"
	"github.com/Numbertalktw/sku-gen-sheet/internal/options"
	"github.com/Numbertalktw/sku-gen-sheet/internal/sheet"
)

// App 组装好的运行时依赖
type App struct {
	Config  *config.AppConfig
	Specs   []model.CategorySpec
	Source  sheet.Source
	Loader  *options.Loader
	Cache   *options.Cache
	Policy  identifier.Policy
	Metrics *metrics.Metrics
	Logger  *zap.Logger
}

// New 按配置创建数据源、加载器与缓存
func New(cfg *config.AppConfig, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	src, err := NewSource(cfg)
	if err != nil {
		return nil, err
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	specs := cfg.CategorySpecs()
	loader := options.NewLoader(src, specs,
		options.WithLogger(logger.Named("options")),
		options.WithMetrics(m),
		options.WithSkipHeader(cfg.Source.SkipHeader),
		options.WithConcurrency(cfg.Source.Concurrency),
	)
	cache := options.NewCache(loader, options.CacheOptions{
		Enabled: cfg.Cache.Enabled,
		TTL:     cfg.CacheTTL(),
		Metrics: m,
	})

	return &App{
		Config:  cfg,
		Specs:   specs,
		Source:  src,
		Loader:  loader,
		Cache:   cache,
		Policy:  identifier.PolicyFor(specs, cfg.Identifier.Delimiter, cfg.Identifier.Uppercase),
		Metrics: m,
		Logger:  logger,
	}, nil
}

// NewSource 按 source.kind 创建数据源
func NewSource(cfg *config.AppConfig) (sheet.Source, error) {
	client := sheet.NewHTTPClient(cfg.SourceTimeout())
	switch cfg.Source.Kind {
	case config.SourceGviz:
		return sheet.NewGvizSource(client, cfg.Source.SpreadsheetURL)
	case config.SourceCSV:
		return sheet.NewCSVSource(client, cfg.Source.URLTemplate)
	case config.SourceWorkbook:
		return sheet.NewWorkbookSource(client, cfg.Source.WorkbookPath)
	default:
		return nil, fmt.Errorf("unknown source kind %q", cfg.Source.Kind)
	}
}

// StartWatcher 本地工作簿且开启 cache.watch 时监听文件变化
// 返回的 stop 函数可安全重复调用；未启用时返回空操作
func (a *App) StartWatcher(ctx context.Context) (stop func(), err error) {
	wb, ok := a.Source.(*sheet.WorkbookSource)
	if !ok || wb.IsRemote() || !a.Config.Cache.Watch || !a.Config.Cache.Enabled {
		return func() {}, nil
	}

	w, err := options.NewWatcher(wb.Location(), a.Cache, a.Logger.Named("watcher"))
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := w.Run(ctx); err != nil {
			a.Logger.Warn("workbook watcher stopped", zap.Error(err))
		}
	}()
	a.Logger.Info("watching workbook", zap.String("path", wb.Location()))

	return func() {
		cancel()
		<-done
	}, nil
}

// Assemble 解析选择并组装编号，同时记录指标
func (a *App) Assemble(snap *model.Snapshot, selection map[string]string) (string, []string, error) {
	values, err := identifier.Resolve(snap, a.Specs, selection)
	if err != nil {
		a.observeFailure(err)
		return "", nil, err
	}
	id, err := a.Policy.Assemble(values)
	if err != nil {
		a.observeFailure(err)
		return "", nil, err
	}
	a.Metrics.ObserveIdentifier(metrics.OutcomeAssembled)
	return id, values, nil
}

func (a *App) observeFailure(err error) {
	switch {
	case errors.Is(err, identifier.ErrIncompleteSelection):
		a.Metrics.ObserveIdentifier(metrics.OutcomeIncomplete)
	case errors.Is(err, identifier.ErrUnknownOption):
		a.Metrics.ObserveIdentifier(metrics.OutcomeUnknown)
	}
}
