package source

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fable/internal/service"
)

// ListSources 获取源文本列表
// @Summary      获取源文本列表
// @Description  分页查询已上传的源文本，按上传时间倒序
// @Tags         源文本
// @Accept       json
// @Produce      json
// @Param        page       query     int  false  "页码，默认1"
// @Param        page_size  query     int  false  "每页条数，默认20，上限100"
// @Success      200        {object}  map[string]interface{}  "成功响应"
// @Failure      500        {object}  ErrorResponse  "服务器内部错误"
// @Router       /api/v1/sources [get]
func (h *Handler) ListSources(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	ctx := c.Request.Context()
	result, err := h.sourceService.ListSources(ctx, &service.ListSourcesRequest{
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	infos := make([]SourceInfo, 0, len(result.Sources))
	for _, src := range result.Sources {
		infos = append(infos, toSourceInfo(src))
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data": gin.H{
			"sources":   infos,
			"total":     result.Total,
			"page":      result.Page,
			"page_size": result.PageSize,
		},
	})
}
