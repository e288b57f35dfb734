package sheet

import (
	"fmt"
	"strings"

	"github.com/Numbertalktw/sku-gen-sheet/internal/model"
)

// ParseOptions 将原始行转换为选项记录
//
// 规则：
//   - skipHeader 为 true 时丢弃首行；
//   - 第 0 列为空或仅含空白的行被忽略；
//   - 标签与取值均去除首尾空白；
//   - 配置了取值列时，该列缺失或为空视为解析错误。
func ParseOptions(rows [][]string, spec model.CategorySpec, skipHeader bool) ([]model.Option, error) {
	if skipHeader && len(rows) > 0 {
		rows = rows[1:]
	}

	valueCol := 0
	if spec.HasValueColumn() {
		valueCol = *spec.ValueColumn
	}
	if valueCol < 0 {
		return nil, fmt.Errorf("invalid value column %d", valueCol)
	}

	options := make([]model.Option, 0, len(rows))
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		label := strings.TrimSpace(row[0])
		if label == "" {
			continue
		}

		value := label
		if valueCol > 0 {
			if valueCol >= len(row) || strings.TrimSpace(row[valueCol]) == "" {
				return nil, fmt.Errorf("row %d: missing value column %d", rowNumber(i, skipHeader), valueCol)
			}
			value = strings.TrimSpace(row[valueCol])
		}

		options = append(options, model.Option{Label: label, Value: value})
	}
	return options, nil
}

// rowNumber 返回工作表中的行号（从 1 开始）
func rowNumber(i int, skipHeader bool) int {
	if skipHeader {
		return i + 2
	}
	return i + 1
}
