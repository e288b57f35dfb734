package identifier

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Numbertalktw/sku-gen-sheet/internal/model"
)

// ErrUnknownOption 所选标签不在选项集中
var ErrUnknownOption = errors.New("unknown option")

// UnknownOptionError 记录无法解析的标签
type UnknownOptionError struct {
	Category string
	Label    string
}

func (e *UnknownOptionError) Error() string {
	return fmt.Sprintf("unknown option %q for %s", e.Label, e.Category)
}

// Is 使 errors.Is(err, ErrUnknownOption) 成立
func (e *UnknownOptionError) Is(target error) bool {
	return target == ErrUnknownOption
}

// Resolve 将各维度所选标签解析为取值，顺序与 specs 一致
// 缺失优先于未知：只要有未选字段就返回 *IncompleteError
func Resolve(snap *model.Snapshot, specs []model.CategorySpec, selection map[string]string) ([]string, error) {
	var missing []string
	for _, spec := range specs {
		if strings.TrimSpace(selection[spec.Key]) == "" {
			missing = append(missing, spec.Key)
		}
	}
	if len(missing) > 0 {
		return nil, &IncompleteError{Missing: missing}
	}

	values := make([]string, 0, len(specs))
	for _, spec := range specs {
		label := strings.TrimSpace(selection[spec.Key])
		value, ok := snap.Set(spec.Key).Lookup(label)
		if !ok {
			return nil, &UnknownOptionError{Category: spec.Key, Label: label}
		}
		values = append(values, value)
	}
	return values, nil
}

// PolicyFor 按维度配置生成组装策略
func PolicyFor(specs []model.CategorySpec, delimiter string, uppercase bool) Policy {
	fields := make([]Field, 0, len(specs))
	for _, spec := range specs {
		fields = append(fields, Field{Name: spec.Key, Width: spec.Width})
	}
	return Policy{Delimiter: delimiter, Fields: fields, Uppercase: uppercase}
}
