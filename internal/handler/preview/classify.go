package preview

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fable/internal/service"
)

// ClassifyRequest 场景分类预览请求
type ClassifyRequest struct {
	Text        string `json:"text" binding:"required"` // 场景文本（必填）
	BaseDensity int    `json:"base_density"`            // 基准镜头密度，0 取服务默认
}

// Classify 预览场景分类
// @Summary      预览场景分类
// @Description  对提交的场景文本试跑内容分类，返回类型、密度系数与建议镜头数，不落库
// @Tags         预览
// @Accept       json
// @Produce      json
// @Param        request  body      ClassifyRequest  true  "场景分类预览请求"
// @Success      200      {object}  map[string]interface{}  "成功响应"
// @Failure      400      {object}  ErrorResponse  "请求参数错误"
// @Router       /api/v1/preview/classify [post]
func (h *Handler) Classify(c *gin.Context) {
	var req ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "Invalid request body",
			Detail:  err.Error(),
		})
		return
	}

	result := h.decomposeService.PreviewClassify(c.Request.Context(), &service.PreviewClassifyRequest{
		Text:        req.Text,
		BaseDensity: req.BaseDensity,
	})

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    result,
	})
}
