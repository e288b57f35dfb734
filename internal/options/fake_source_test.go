package options

import (
	"context"
	"fmt"
	"sync"

	"github.com/Numbertalktw/sku-gen-sheet/internal/model"
)

type fakeSource struct {
	mu     sync.Mutex
	tables map[string][][]string
	errs   map[string]error
	calls  int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		tables: map[string][][]string{},
		errs:   map[string]error{},
	}
}

func (f *fakeSource) set(sheet string, rows ...[]string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tables[sheet] = rows
}

func (f *fakeSource) fail(sheet string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[sheet] = err
}

func (f *fakeSource) Fetch(ctx context.Context, sheetName string) ([][]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err := f.errs[sheetName]; err != nil {
		return nil, err
	}
	rows, ok := f.tables[sheetName]
	if !ok {
		return nil, fmt.Errorf("sheet %q not found", sheetName)
	}
	return rows, nil
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func testSpecs() []model.CategorySpec {
	return []model.CategorySpec{
		{Key: "category", Sheet: "商品類別"},
		{Key: "feature", Sheet: "特徵"},
		{Key: "color", Sheet: "顏色/材質"},
		{Key: "size", Sheet: "尺寸"},
	}
}

func seededSource() *fakeSource {
	src := newFakeSource()
	src.set("商品類別", []string{"WidgetA"}, []string{"WidgetB"})
	src.set("特徵", []string{"Red"}, []string{" "}, []string{"Blue"})
	src.set("顏色/材質", []string{"M"})
	src.set("尺寸", []string{"Cotton"}, []string{""})
	return src
}
