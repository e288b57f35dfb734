package model

import "time"

// Diagnostic 单个维度加载失败的诊断信息（非致命）
type Diagnostic struct {
	Category string `json:"category"`
	Sheet    string `json:"sheet"`
	Message  string `json:"message"`
	Cause    string `json:"cause"`
}

// Snapshot 一次加载的完整结果
// Sets 始终包含全部已配置的维度，失败的维度为空集
type Snapshot struct {
	ID          string               `json:"id"`
	LoadedAt    time.Time            `json:"loadedAt"`
	Order       []string             `json:"order"`
	Sets        map[string]OptionSet `json:"sets"`
	Diagnostics []Diagnostic         `json:"diagnostics"`
}

// Set 获取某一维度的选项集
func (s *Snapshot) Set(key string) OptionSet {
	if s == nil {
		return OptionSet{Key: key}
	}
	set, ok := s.Sets[key]
	if !ok {
		return OptionSet{Key: key}
	}
	return set
}

// DiagnosticFor 返回某一维度的诊断信息
func (s *Snapshot) DiagnosticFor(key string) (Diagnostic, bool) {
	if s == nil {
		return Diagnostic{}, false
	}
	for _, d := range s.Diagnostics {
		if d.Category == key {
			return d, true
		}
	}
	return Diagnostic{}, false
}
