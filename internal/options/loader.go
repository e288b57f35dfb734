package options

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Numbertalktw/sku-gen-sheet/internal/metrics"
	"github.com/Numbertalktw/sku-gen-sheet/internal/model"
	"github.com/Numbertalktw/sku-gen-sheet/internal/sheet"
)

const defaultConcurrency = 4

// Loader 按维度加载下拉选项
type Loader struct {
	source      sheet.Source
	specs       []model.CategorySpec
	skipHeader  bool
	concurrency int
	logger      *zap.Logger
	metrics     *metrics.Metrics
	now         func() time.Time
}

// LoaderOption 自定义 Loader
type LoaderOption func(*Loader)

// WithLogger 设置日志
func WithLogger(logger *zap.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithMetrics 设置指标
func WithMetrics(m *metrics.Metrics) LoaderOption {
	return func(l *Loader) {
		l.metrics = m
	}
}

// WithSkipHeader 丢弃每个工作表的首行
func WithSkipHeader(skip bool) LoaderOption {
	return func(l *Loader) {
		l.skipHeader = skip
	}
}

// WithConcurrency 同时拉取的工作表数量上限
func WithConcurrency(n int) LoaderOption {
	return func(l *Loader) {
		if n > 0 {
			l.concurrency = n
		}
	}
}

// NewLoader 创建加载器
func NewLoader(source sheet.Source, specs []model.CategorySpec, opts ...LoaderOption) *Loader {
	l := &Loader{
		source:      source,
		specs:       append([]model.CategorySpec(nil), specs...),
		concurrency: defaultConcurrency,
		logger:      zap.NewNop(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Specs 返回维度配置（副本）
func (l *Loader) Specs() []model.CategorySpec {
	return append([]model.CategorySpec(nil), l.specs...)
}

type categoryResult struct {
	set  model.OptionSet
	diag *model.Diagnostic
}

// Load 加载全部维度
// 单个维度失败不影响其他维度：失败维度为空集，并附带诊断信息
func (l *Loader) Load(ctx context.Context) *model.Snapshot {
	l.metrics.ObserveLoad()

	results := make([]categoryResult, len(l.specs))

	var g errgroup.Group
	g.SetLimit(l.concurrency)
	for i, spec := range l.specs {
		g.Go(func() error {
			results[i] = l.loadCategory(ctx, spec)
			return nil
		})
	}
	_ = g.Wait()

	snap := &model.Snapshot{
		ID:          uuid.New().String(),
		LoadedAt:    l.now(),
		Order:       model.CategoryKeys(l.specs),
		Sets:        make(map[string]model.OptionSet, len(l.specs)),
		Diagnostics: []model.Diagnostic{},
	}
	for i, spec := range l.specs {
		snap.Sets[spec.Key] = results[i].set
		if results[i].diag != nil {
			snap.Diagnostics = append(snap.Diagnostics, *results[i].diag)
		}
	}
	return snap
}

func (l *Loader) loadCategory(ctx context.Context, spec model.CategorySpec) categoryResult {
	set, err := l.fetchCategory(ctx, spec)
	if err != nil {
		l.logger.Warn("option load failed",
			zap.String("category", spec.Key),
			zap.String("sheet", spec.Sheet),
			zap.Error(err),
		)
		l.metrics.ObserveCategory(spec.Key, 0, true)
		return categoryResult{
			set: model.OptionSet{Key: spec.Key, Options: []model.Option{}},
			diag: &model.Diagnostic{
				Category: spec.Key,
				Sheet:    spec.Sheet,
				Message:  fmt.Sprintf("无法载入「%s」，请检查分享权限或栏位格式", spec.Sheet),
				Cause:    err.Error(),
			},
		}
	}

	l.logger.Info("option load succeeded",
		zap.String("category", spec.Key),
		zap.String("sheet", spec.Sheet),
		zap.Int("options", set.Len()),
	)
	l.metrics.ObserveCategory(spec.Key, set.Len(), false)
	return categoryResult{set: set}
}

func (l *Loader) fetchCategory(ctx context.Context, spec model.CategorySpec) (model.OptionSet, error) {
	rows, err := l.source.Fetch(ctx, spec.Sheet)
	if err != nil {
		return model.OptionSet{}, err
	}
	opts, err := sheet.ParseOptions(rows, spec, l.skipHeader)
	if err != nil {
		return model.OptionSet{}, err
	}
	return model.NewOptionSet(spec.Key, opts), nil
}
