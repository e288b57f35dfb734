package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Numbertalktw/sku-gen-sheet/internal/model"
)

type categoryOptions struct {
	Key     string         `json:"key"`
	Title   string         `json:"title"`
	Sheet   string         `json:"sheet"`
	Options []model.Option `json:"options"`
}

type optionsResponse struct {
	SnapshotID  string             `json:"snapshotId"`
	LoadedAt    time.Time          `json:"loadedAt"`
	Categories  []categoryOptions  `json:"categories"`
	Diagnostics []model.Diagnostic `json:"diagnostics"`
}

func (h *Handler) buildOptionsResponse(snap *model.Snapshot) optionsResponse {
	resp := optionsResponse{
		SnapshotID:  snap.ID,
		LoadedAt:    snap.LoadedAt,
		Categories:  make([]categoryOptions, 0, len(h.app.Specs)),
		Diagnostics: snap.Diagnostics,
	}
	if resp.Diagnostics == nil {
		resp.Diagnostics = []model.Diagnostic{}
	}
	for _, spec := range h.app.Specs {
		opts := snap.Set(spec.Key).Options
		if opts == nil {
			opts = []model.Option{}
		}
		resp.Categories = append(resp.Categories, categoryOptions{
			Key:     spec.Key,
			Title:   spec.DisplayTitle(),
			Sheet:   spec.Sheet,
			Options: opts,
		})
	}
	return resp
}

// GetOptions 获取下拉选项（优先使用缓存）
// GET /api/options
func (h *Handler) GetOptions(c *gin.Context) {
	snap, err := h.app.Cache.Get(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.buildOptionsResponse(snap))
}

// ReloadOptions 清除缓存并重新载入选单资料
// POST /api/options/reload
func (h *Handler) ReloadOptions(c *gin.Context) {
	snap, err := h.app.Cache.Refresh(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	h.logger.Info("options reloaded",
		zap.String("snapshot", snap.ID),
		zap.Int("diagnostics", len(snap.Diagnostics)),
	)
	c.JSON(http.StatusOK, h.buildOptionsResponse(snap))
}
