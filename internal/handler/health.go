package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler 健康检查处理器
type HealthHandler struct {
	service string
	ready   func() bool
}

// NewHealthHandler 创建健康检查处理器，ready 为就绪探针（nil 表示始终就绪）
func NewHealthHandler(ready func() bool) *HealthHandler {
	return &HealthHandler{
		service: "fable",
		ready:   ready,
	}
}

// Health 健康检查
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": h.service,
	})
}

// Ready 就绪检查，依赖未就绪时返回 503
func (h *HealthHandler) Ready(c *gin.Context) {
	if h.ready != nil && !h.ready() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}
