package sheet

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
)

// SheetPlaceholder URL 模板中的工作表占位符
const SheetPlaceholder = "{sheet}"

// CSVSource 通过 URL 模板拉取 CSV 文本
type CSVSource struct {
	client   *http.Client
	template string
}

// NewCSVSource 创建 CSV 数据源，template 中的 {sheet} 会被替换为转义后的工作表名
func NewCSVSource(client *http.Client, template string) (*CSVSource, error) {
	if !strings.Contains(template, SheetPlaceholder) {
		return nil, errors.New("url template must contain " + SheetPlaceholder)
	}
	if client == nil {
		client = NewHTTPClient(0)
	}
	return &CSVSource{client: client, template: template}, nil
}

// URL 返回某个工作表的完整地址
func (s *CSVSource) URL(sheetName string) string {
	return strings.ReplaceAll(s.template, SheetPlaceholder, url.QueryEscape(sheetName))
}

// Fetch 拉取并解析 CSV
func (s *CSVSource) Fetch(ctx context.Context, sheetName string) ([][]string, error) {
	body, err := get(ctx, s.client, s.URL(sheetName))
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = body.Close()
	}()
	return readCSV(body)
}
