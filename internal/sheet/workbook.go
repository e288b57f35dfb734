package sheet

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/xuri/excelize/v2"
)

// WorkbookSource 从 xlsx 工作簿读取，支持本地路径或 http(s) 地址
type WorkbookSource struct {
	client   *http.Client
	location string
}

// NewWorkbookSource 创建工作簿数据源
func NewWorkbookSource(client *http.Client, location string) (*WorkbookSource, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, errors.New("workbook location is empty")
	}
	if client == nil {
		client = NewHTTPClient(0)
	}
	return &WorkbookSource{client: client, location: location}, nil
}

// Location 工作簿位置
func (s *WorkbookSource) Location() string {
	return s.location
}

// IsRemote 是否为远程工作簿
func (s *WorkbookSource) IsRemote() bool {
	return strings.HasPrefix(s.location, "http://") || strings.HasPrefix(s.location, "https://")
}

// Fetch 读取指定工作表的全部行
func (s *WorkbookSource) Fetch(ctx context.Context, sheetName string) ([][]string, error) {
	f, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	if idx, err := f.GetSheetIndex(sheetName); err != nil || idx < 0 {
		return nil, fmt.Errorf("sheet %q not found in workbook", sheetName)
	}
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheetName, err)
	}
	return rows, nil
}

func (s *WorkbookSource) open(ctx context.Context) (*excelize.File, error) {
	if !s.IsRemote() {
		f, err := excelize.OpenFile(s.location)
		if err != nil {
			return nil, fmt.Errorf("failed to open workbook: %w", err)
		}
		return f, nil
	}

	body, err := get(ctx, s.client, s.location)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = body.Close()
	}()
	f, err := excelize.OpenReader(body)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	return f, nil
}
