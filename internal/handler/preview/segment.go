package preview

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fable/internal/service"
)

// SegmentRequest 场景切分预览请求
type SegmentRequest struct {
	Text     string `json:"text" binding:"required"` // 正文（必填）
	MaxChars int    `json:"max_chars"`               // 单场景字符预算，0 取服务默认
}

// Segment 预览场景切分
// @Summary      预览场景切分
// @Description  对提交的正文试跑规整与场景切分，返回场景列表，不落库
// @Tags         预览
// @Accept       json
// @Produce      json
// @Param        request  body      SegmentRequest  true  "场景切分预览请求"
// @Success      200      {object}  map[string]interface{}  "成功响应"
// @Failure      400      {object}  ErrorResponse  "请求参数错误"
// @Router       /api/v1/preview/segment [post]
func (h *Handler) Segment(c *gin.Context) {
	var req SegmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "Invalid request body",
			Detail:  err.Error(),
		})
		return
	}

	result := h.decomposeService.PreviewSegment(c.Request.Context(), &service.PreviewSegmentRequest{
		Text:     req.Text,
		MaxChars: req.MaxChars,
	})

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    result,
	})
}
