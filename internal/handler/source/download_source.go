package source

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// DownloadSource 下载源文本
// @Summary      下载源文本
// @Description  根据源文本ID下载原始内容，返回文件流
// @Tags         源文本
// @Accept       json
// @Produce      application/octet-stream
// @Param        id   path      string  true  "源文本ID"
// @Success      200  {file}    binary  "文件流"
// @Failure      404  {object}  ErrorResponse  "源文本不存在"
// @Failure      500  {object}  ErrorResponse  "服务器内部错误"
// @Router       /api/v1/sources/{id}/download [get]
func (h *Handler) DownloadSource(c *gin.Context) {
	sourceID := c.Param("id")
	if sourceID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "source id is required",
		})
		return
	}

	ctx := c.Request.Context()
	result, err := h.sourceService.DownloadSource(ctx, sourceID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	defer result.Data.Close()

	c.Header("Content-Type", result.ContentType)
	c.Header("Content-Disposition", `attachment; filename="`+result.FileName+`"`)
	c.Header("Content-Length", fmt.Sprintf("%d", result.FileSize))

	if _, err := io.Copy(c.Writer, result.Data); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    50002,
			Message: "Failed to stream file",
			Detail:  err.Error(),
		})
	}
}
