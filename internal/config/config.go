package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/Numbertalktw/sku-gen-sheet/internal/model"
)

// ErrInvalidConfig 配置校验失败
var ErrInvalidConfig = errors.New("invalid config")

// 数据源类型
const (
	SourceGviz     = "gviz"     // Google Sheets gviz CSV 导出
	SourceCSV      = "csv"      // 任意 CSV 地址模板
	SourceWorkbook = "workbook" // xlsx 工作簿（本地或远程）
)

// 默认表格地址
const defaultSpreadsheetURL = "https://docs.google.com/spreadsheets/d/1AzJ6IJayXV7yooFJyWRhDvD0cDGWTexl_hjjtVF4JGs"

// AppConfig 应用配置
type AppConfig struct {
	Server     ServerConfig     `toml:"server" yaml:"server"`
	Source     SourceConfig     `toml:"source" yaml:"source"`
	Categories []CategoryConfig `toml:"categories" yaml:"categories"`
	Identifier IdentifierConfig `toml:"identifier" yaml:"identifier"`
	Cache      CacheConfig      `toml:"cache" yaml:"cache"`
	Log        LogConfig        `toml:"log" yaml:"log"`
	Metrics    MetricsConfig    `toml:"metrics" yaml:"metrics"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port        int  `toml:"port" yaml:"port"`
	DevMode     bool `toml:"dev_mode" yaml:"dev_mode"`
	OpenBrowser bool `toml:"open_browser" yaml:"open_browser"`
}

// SourceConfig 选项数据源
type SourceConfig struct {
	Kind           string `toml:"kind" yaml:"kind"`
	SpreadsheetURL string `toml:"spreadsheet_url" yaml:"spreadsheet_url"` // gviz：表格地址或 ID
	URLTemplate    string `toml:"url_template" yaml:"url_template"`       // csv：含 {sheet} 的地址模板
	WorkbookPath   string `toml:"workbook_path" yaml:"workbook_path"`     // workbook：本地路径或 http(s) 地址
	Timeout        string `toml:"timeout" yaml:"timeout"`
	Concurrency    int    `toml:"concurrency" yaml:"concurrency"`
	SkipHeader     bool   `toml:"skip_header" yaml:"skip_header"`
}

// CategoryConfig 单个下拉维度
type CategoryConfig struct {
	Key         string `toml:"key" yaml:"key"`
	Title       string `toml:"title" yaml:"title"`
	Sheet       string `toml:"sheet" yaml:"sheet"`
	ValueColumn *int   `toml:"value_column,omitempty" yaml:"value_column,omitempty"`
	Width       int    `toml:"width" yaml:"width"`
}

// IdentifierConfig 编号格式
type IdentifierConfig struct {
	Delimiter string `toml:"delimiter" yaml:"delimiter"`
	Uppercase bool   `toml:"uppercase" yaml:"uppercase"`
}

// CacheConfig 选项缓存
type CacheConfig struct {
	Enabled bool   `toml:"enabled" yaml:"enabled"`
	TTL     string `toml:"ttl" yaml:"ttl"`     // 空表示直到手动重新载入
	Watch   bool   `toml:"watch" yaml:"watch"` // 本地工作簿变化时自动失效
}

// LogConfig 日志配置
type LogConfig struct {
	Level       string `toml:"level" yaml:"level"`
	Development bool   `toml:"development" yaml:"development"`
}

// MetricsConfig 指标配置
type MetricsConfig struct {
	Enabled bool `toml:"enabled" yaml:"enabled"`
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	Path          string
	PortSpecified bool
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:        8501,
			DevMode:     false,
			OpenBrowser: true,
		},
		Source: SourceConfig{
			Kind:           SourceGviz,
			SpreadsheetURL: defaultSpreadsheetURL,
			Timeout:        "10s",
			Concurrency:    4,
		},
		Categories: []CategoryConfig{
			{Key: "category", Title: "Product Category", Sheet: "商品類別"},
			{Key: "feature", Title: "Feature", Sheet: "特徵"},
			{Key: "color", Title: "Color", Sheet: "顏色/材質"},
			{Key: "size", Title: "Size", Sheet: "尺寸"},
		},
		Identifier: IdentifierConfig{
			Delimiter: "-",
		},
		Cache: CacheConfig{
			Enabled: true,
		},
		Log: LogConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// candidatePaths 未显式指定时依次查找的配置文件
func candidatePaths() []string {
	exeDir, err := GetExeDir()
	if err != nil {
		// 无法获取可执行文件目录，使用当前目录
		exeDir = "."
	}
	return []string{
		filepath.Join(exeDir, "config.toml"),
		filepath.Join(exeDir, "config.yaml"),
		filepath.Join(exeDir, "config.yml"),
	}
}

// LoadConfigWithInfo 加载配置并返回元信息
// path 为空时查找可执行文件同目录下的 config.toml / config.yaml；都不存在时使用默认配置
func LoadConfigWithInfo(path string) (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{}
	config := DefaultConfig()

	var data []byte
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, info, fmt.Errorf("read config: %w", err)
		}
		data = b
	} else {
		for _, candidate := range candidatePaths() {
			b, err := os.ReadFile(candidate)
			if err != nil {
				if os.IsNotExist(err) {
					continue
				}
				return nil, info, fmt.Errorf("read config: %w", err)
			}
			path, data = candidate, b
			break
		}
	}

	if data != nil {
		info.Path = path
		if err := decode(path, data, config, &info); err != nil {
			return nil, info, err
		}
	}

	applyEnv(config)

	if err := config.Validate(); err != nil {
		return nil, info, err
	}
	return config, info, nil
}

// LoadConfig 加载配置
func LoadConfig(path string) (*AppConfig, error) {
	config, _, err := LoadConfigWithInfo(path)
	return config, err
}

func decode(path string, data []byte, config *AppConfig, info *LoadConfigInfo) error {
	unmarshal := toml.Unmarshal
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		unmarshal = yaml.Unmarshal
	}

	var raw map[string]any
	if err := unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	// 配置文件中的维度列表整体替换默认值
	if _, ok := raw["categories"]; ok {
		config.Categories = nil
	}
	if err := unmarshal(data, config); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	info.PortSpecified = isPortSpecified(raw)
	return nil
}

func isPortSpecified(raw map[string]any) bool {
	serverAny, ok := raw["server"]
	if !ok {
		return false
	}
	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}
	_, ok = serverMap["port"]
	return ok
}

// applyEnv 环境变量覆盖
func applyEnv(config *AppConfig) {
	if v := os.Getenv("SKUGEN_SPREADSHEET_URL"); v != "" {
		config.Source.Kind = SourceGviz
		config.Source.SpreadsheetURL = v
	}
	if v := os.Getenv("SKUGEN_WORKBOOK_PATH"); v != "" {
		config.Source.Kind = SourceWorkbook
		config.Source.WorkbookPath = v
	}
}

// SaveConfig 保存配置到 config.toml
func SaveConfig(config *AppConfig, path string) error {
	if path == "" {
		exeDir, err := GetExeDir()
		if err != nil {
			exeDir = "."
		}
		path = filepath.Join(exeDir, "config.toml")
	}

	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(config)
	default:
		data, err = toml.Marshal(config)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate 校验配置
func (c *AppConfig) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port %d out of range", ErrInvalidConfig, c.Server.Port)
	}

	switch c.Source.Kind {
	case SourceGviz:
		if strings.TrimSpace(c.Source.SpreadsheetURL) == "" {
			return fmt.Errorf("%w: source.spreadsheet_url is required for %s", ErrInvalidConfig, SourceGviz)
		}
	case SourceCSV:
		if !strings.Contains(c.Source.URLTemplate, "{sheet}") {
			return fmt.Errorf("%w: source.url_template must contain {sheet}", ErrInvalidConfig)
		}
	case SourceWorkbook:
		if strings.TrimSpace(c.Source.WorkbookPath) == "" {
			return fmt.Errorf("%w: source.workbook_path is required for %s", ErrInvalidConfig, SourceWorkbook)
		}
	default:
		return fmt.Errorf("%w: unknown source.kind %q", ErrInvalidConfig, c.Source.Kind)
	}
	if _, err := parseDuration(c.Source.Timeout); err != nil {
		return fmt.Errorf("%w: source.timeout: %v", ErrInvalidConfig, err)
	}
	if _, err := parseDuration(c.Cache.TTL); err != nil {
		return fmt.Errorf("%w: cache.ttl: %v", ErrInvalidConfig, err)
	}

	if len(c.Categories) == 0 {
		return fmt.Errorf("%w: at least one category is required", ErrInvalidConfig)
	}
	seen := make(map[string]struct{}, len(c.Categories))
	for i, cat := range c.Categories {
		key := strings.TrimSpace(cat.Key)
		if key == "" {
			return fmt.Errorf("%w: categories[%d].key is empty", ErrInvalidConfig, i)
		}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: duplicate category key %q", ErrInvalidConfig, key)
		}
		seen[key] = struct{}{}
		if strings.TrimSpace(cat.Sheet) == "" {
			return fmt.Errorf("%w: categories[%d].sheet is empty", ErrInvalidConfig, i)
		}
		if cat.Width < 0 {
			return fmt.Errorf("%w: categories[%d].width must be >= 0", ErrInvalidConfig, i)
		}
		if cat.ValueColumn != nil && *cat.ValueColumn < 0 {
			return fmt.Errorf("%w: categories[%d].value_column must be >= 0", ErrInvalidConfig, i)
		}
	}
	return nil
}

// CategorySpecs 转换为领域模型
func (c *AppConfig) CategorySpecs() []model.CategorySpec {
	specs := make([]model.CategorySpec, 0, len(c.Categories))
	for _, cat := range c.Categories {
		spec := model.CategorySpec{
			Key:   strings.TrimSpace(cat.Key),
			Title: cat.Title,
			Sheet: cat.Sheet,
			Width: cat.Width,
		}
		if cat.ValueColumn != nil {
			col := *cat.ValueColumn
			spec.ValueColumn = &col
		}
		specs = append(specs, spec)
	}
	return specs
}

// SourceTimeout HTTP 超时
func (c *AppConfig) SourceTimeout() time.Duration {
	d, _ := parseDuration(c.Source.Timeout)
	return d
}

// CacheTTL 缓存有效期，0 表示不过期
func (c *AppConfig) CacheTTL() time.Duration {
	d, _ := parseDuration(c.Cache.TTL)
	return d
}

func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %s", s)
	}
	return d, nil
}
