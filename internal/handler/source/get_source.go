package source

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetSource 获取源文本详情
// @Summary      获取源文本详情
// @Description  根据源文本ID查询元数据，不下载内容
// @Tags         源文本
// @Accept       json
// @Produce      json
// @Param        id  path      string  true  "源文本ID"
// @Success      200 {object}  map[string]interface{}  "成功响应"
// @Failure      404 {object}  ErrorResponse  "源文本不存在"
// @Failure      500 {object}  ErrorResponse  "服务器内部错误"
// @Router       /api/v1/sources/{id} [get]
func (h *Handler) GetSource(c *gin.Context) {
	sourceID := c.Param("id")
	if sourceID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "source id is required",
		})
		return
	}

	ctx := c.Request.Context()
	src, err := h.sourceService.GetSource(ctx, sourceID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    toSourceInfo(src),
	})
}
