package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatusResponse 系统状态响应
type StatusResponse struct {
	Cached      bool   `json:"cached"`      // 缓存中是否有快照
	SnapshotID  string `json:"snapshotId"`  // 当前快照 ID
	LoadedAt    string `json:"loadedAt"`    // 快照加载时间
	Categories  int    `json:"categories"`  // 维度数量
	Diagnostics int    `json:"diagnostics"` // 加载失败的维度数量
	Source      string `json:"source"`      // 数据源类型
}

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	resp := StatusResponse{
		Categories: len(h.app.Specs),
		Source:     h.app.Config.Source.Kind,
	}

	// 状态查询不触发远端加载
	if snap, ok := h.app.Cache.Peek(); ok {
		resp.Cached = true
		resp.SnapshotID = snap.ID
		resp.LoadedAt = snap.LoadedAt.Format("2006-01-02 15:04:05")
		resp.Diagnostics = len(snap.Diagnostics)
	}

	c.JSON(http.StatusOK, resp)
}

type categoryConfig struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Sheet string `json:"sheet"`
	Width int    `json:"width"`
}

type configResponse struct {
	Categories []categoryConfig `json:"categories"`
	Delimiter  string           `json:"delimiter"`
	Uppercase  bool             `json:"uppercase"`
	CacheTTL   string           `json:"cacheTtl"`
}

// GetConfig 获取维度与编号格式配置
// GET /api/config
func (h *Handler) GetConfig(c *gin.Context) {
	resp := configResponse{
		Categories: make([]categoryConfig, 0, len(h.app.Specs)),
		Delimiter:  h.app.Policy.Delimiter,
		Uppercase:  h.app.Policy.Uppercase,
		CacheTTL:   h.app.Config.Cache.TTL,
	}
	for _, spec := range h.app.Specs {
		resp.Categories = append(resp.Categories, categoryConfig{
			Key:   spec.Key,
			Title: spec.DisplayTitle(),
			Sheet: spec.Sheet,
			Width: spec.Width,
		})
	}
	c.JSON(http.StatusOK, resp)
}
