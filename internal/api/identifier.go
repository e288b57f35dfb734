package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Numbertalktw/sku-gen-sheet/internal/identifier"
)

type assembleRequest struct {
	Selection map[string]string `json:"selection"`
}

type assembleResponse struct {
	Identifier string   `json:"identifier"`
	Values     []string `json:"values"`
	SnapshotID string   `json:"snapshotId"`
}

// AssembleIdentifier 根据各维度所选标签生成编号
// POST /api/identifier
func (h *Handler) AssembleIdentifier(c *gin.Context) {
	var req assembleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误"})
		return
	}

	snap, err := h.app.Cache.Get(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	id, values, err := h.app.Assemble(snap, req.Selection)
	if err != nil {
		var (
			incomplete *identifier.IncompleteError
			unknown    *identifier.UnknownOptionError
		)
		switch {
		case errors.As(err, &incomplete):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "请完整选取所有栏位后再产生编号",
				"missing": incomplete.Missing,
			})
		case errors.As(err, &unknown):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":    "所选选项不存在，请重新载入选单资料",
				"category": unknown.Category,
				"label":    unknown.Label,
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, assembleResponse{
		Identifier: id,
		Values:     values,
		SnapshotID: snap.ID,
	})
}
