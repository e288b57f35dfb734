package model

// CategorySpec 选择维度定义（一个下拉选单对应一个工作表）
type CategorySpec struct {
	Key         string `json:"key"`                   // 稳定键，如 category / color
	Title       string `json:"title"`                 // 界面显示名称
	Sheet       string `json:"sheet"`                 // 来源工作表名称
	ValueColumn *int   `json:"valueColumn,omitempty"` // 取值列（从 0 开始）；为空时标签即取值
	Width       int    `json:"width"`                 // 截断宽度，0 表示不截断
}

// DisplayTitle 返回界面显示名称，未配置时回退到 Key
func (c CategorySpec) DisplayTitle() string {
	if c.Title != "" {
		return c.Title
	}
	return c.Key
}

// HasValueColumn 是否使用独立的取值列
func (c CategorySpec) HasValueColumn() bool {
	return c.ValueColumn != nil && *c.ValueColumn != 0
}

// CategoryKeys 按配置顺序返回所有 Key
func CategoryKeys(specs []CategorySpec) []string {
	keys := make([]string, 0, len(specs))
	for _, spec := range specs {
		keys = append(keys, spec.Key)
	}
	return keys
}
