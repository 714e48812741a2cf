package source

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// DeleteSource 删除源文本
// @Summary      删除源文本
// @Description  根据源文本ID删除记录与存储对象，已引用该源文本的运行不受影响
// @Tags         源文本
// @Accept       json
// @Produce      json
// @Param        id  path      string  true  "源文本ID"
// @Success      200 {object}  map[string]interface{}  "成功响应"
// @Failure      404 {object}  ErrorResponse  "源文本不存在"
// @Failure      500 {object}  ErrorResponse  "服务器内部错误"
// @Router       /api/v1/sources/{id} [delete]
func (h *Handler) DeleteSource(c *gin.Context) {
	sourceID := c.Param("id")
	if sourceID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "source id is required",
		})
		return
	}

	ctx := c.Request.Context()
	if err := h.sourceService.DeleteSource(ctx, sourceID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "源文本已删除",
	})
}
