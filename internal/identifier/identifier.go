package identifier

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultDelimiter 默认分隔符
const DefaultDelimiter = "-"

var (
	// ErrIncompleteSelection 存在未选择的字段
	ErrIncompleteSelection = errors.New("incomplete selection")
	// ErrFieldCount 取值数量与策略字段数量不一致
	ErrFieldCount = errors.New("value count does not match policy fields")
)

// IncompleteError 列出缺失的字段
type IncompleteError struct {
	Missing []string
}

func (e *IncompleteError) Error() string {
	if len(e.Missing) == 0 {
		return ErrIncompleteSelection.Error()
	}
	return fmt.Sprintf("incomplete selection: missing %s", strings.Join(e.Missing, ", "))
}

// Is 使 errors.Is(err, ErrIncompleteSelection) 成立
func (e *IncompleteError) Is(target error) bool {
	return target == ErrIncompleteSelection
}

// Field 字段定义
type Field struct {
	Name  string
	Width int // 截断宽度（按字符计），0 表示保留全部
}

// Policy 编号组装策略
type Policy struct {
	Delimiter string
	Fields    []Field
	Uppercase bool
}

// PlainPolicy 直接拼接完整取值
func PlainPolicy(delimiter string, names ...string) Policy {
	fields := make([]Field, 0, len(names))
	for _, name := range names {
		fields = append(fields, Field{Name: name})
	}
	return Policy{Delimiter: delimiter, Fields: fields}
}

// Truncating 是否有字段需要截断
func (p Policy) Truncating() bool {
	for _, f := range p.Fields {
		if f.Width > 0 {
			return true
		}
	}
	return false
}

// Assemble 按顺序拼接各字段取值
// 任一取值为空时返回 *IncompleteError，不会产出部分编号
func (p Policy) Assemble(values []string) (string, error) {
	if len(p.Fields) > 0 && len(values) != len(p.Fields) {
		return "", fmt.Errorf("%w: want %d, got %d", ErrFieldCount, len(p.Fields), len(values))
	}

	var missing []string
	for i, v := range values {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, p.fieldName(i))
		}
	}
	if len(missing) > 0 || len(values) == 0 {
		return "", &IncompleteError{Missing: missing}
	}

	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = truncate(v, p.width(i))
	}

	out := strings.Join(parts, p.Delimiter)
	if p.Uppercase {
		out = strings.ToUpper(out)
	}
	return out, nil
}

func (p Policy) fieldName(i int) string {
	if i < len(p.Fields) && p.Fields[i].Name != "" {
		return p.Fields[i].Name
	}
	return fmt.Sprintf("#%d", i+1)
}

func (p Policy) width(i int) int {
	if i < len(p.Fields) {
		return p.Fields[i].Width
	}
	return 0
}

// truncate 保留前 n 个字符（rune）
func truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
