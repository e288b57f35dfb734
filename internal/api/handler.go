package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Numbertalktw/sku-gen-sheet/internal/app"
)

// Handler API 处理器
type Handler struct {
	app    *app.App
	logger *zap.Logger
}

// NewHandler 创建 API 处理器
func NewHandler(a *app.App) *Handler {
	logger := a.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		app:    a,
		logger: logger.Named("api"),
	}
}

// RegisterRoutes 注册 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)
	// 维度与编号格式
	router.GET("/config", h.GetConfig)

	// 下拉选项
	router.GET("/options", h.GetOptions)
	router.POST("/options/reload", h.ReloadOptions)

	// 生成编号
	router.POST("/identifier", h.AssembleIdentifier)
}
