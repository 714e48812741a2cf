package preview

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fable/internal/service"
)

// MomentsRequest 关键时刻提取预览请求
type MomentsRequest struct {
	Text      string  `json:"text" binding:"required"` // 正文（必填）
	Threshold float64 `json:"threshold"`               // 重要度阈值，0 取内置默认
}

// Moments 预览关键时刻提取
// @Summary      预览关键时刻提取
// @Description  对提交的正文逐段匹配时刻模式，返回重要度达标的段落与建议提示词，不落库
// @Tags         预览
// @Accept       json
// @Produce      json
// @Param        request  body      MomentsRequest  true  "关键时刻提取预览请求"
// @Success      200      {object}  map[string]interface{}  "成功响应"
// @Failure      400      {object}  ErrorResponse  "请求参数错误"
// @Router       /api/v1/preview/moments [post]
func (h *Handler) Moments(c *gin.Context) {
	var req MomentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "Invalid request body",
			Detail:  err.Error(),
		})
		return
	}

	result := h.decomposeService.PreviewMoments(c.Request.Context(), &service.PreviewMomentsRequest{
		Text:      req.Text,
		Threshold: req.Threshold,
	})

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    result,
	})
}
