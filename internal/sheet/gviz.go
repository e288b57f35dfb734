package sheet

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const gvizBaseURL = "https://docs.google.com/spreadsheets/d/%s/gviz/tq?tqx=out:csv&sheet=" + SheetPlaceholder

// ErrSpreadsheetID 无法从地址中解析出表格 ID
var ErrSpreadsheetID = errors.New("cannot extract spreadsheet id")

// SpreadsheetID 从 Google Sheets 地址中提取表格 ID，也接受直接传入 ID
// 例: https://docs.google.com/spreadsheets/d/<id>/edit#gid=0
func SpreadsheetID(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrSpreadsheetID
	}
	if !strings.Contains(raw, "/") {
		return raw, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSpreadsheetID, err)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i < len(parts)-1; i++ {
		if parts[i] == "d" && parts[i+1] != "" {
			return parts[i+1], nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrSpreadsheetID, raw)
}

// NewGvizSource 基于 Google Sheets gviz 导出接口创建数据源
// 表格需开启“知道链接的任何人均可查看”
func NewGvizSource(client *http.Client, spreadsheet string) (*CSVSource, error) {
	id, err := SpreadsheetID(spreadsheet)
	if err != nil {
		return nil, err
	}
	return NewCSVSource(client, fmt.Sprintf(gvizBaseURL, id))
}
