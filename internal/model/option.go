package model

// Option 单行选项（标签 + 取值）
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// OptionSet 某一维度的全部可选项，保持来源顺序，标签唯一
type OptionSet struct {
	Key     string   `json:"key"`
	Options []Option `json:"options"`
}

// NewOptionSet 构建选项集；重复标签只保留第一次出现
func NewOptionSet(key string, options []Option) OptionSet {
	seen := make(map[string]struct{}, len(options))
	out := make([]Option, 0, len(options))
	for _, opt := range options {
		if _, ok := seen[opt.Label]; ok {
			continue
		}
		seen[opt.Label] = struct{}{}
		out = append(out, opt)
	}
	return OptionSet{Key: key, Options: out}
}

// Lookup 按标签查找取值
func (s OptionSet) Lookup(label string) (string, bool) {
	for _, opt := range s.Options {
		if opt.Label == label {
			return opt.Value, true
		}
	}
	return "", false
}

// Labels 返回全部标签
func (s OptionSet) Labels() []string {
	labels := make([]string, 0, len(s.Options))
	for _, opt := range s.Options {
		labels = append(labels, opt.Label)
	}
	return labels
}

// Len 选项数量
func (s OptionSet) Len() int {
	return len(s.Options)
}
