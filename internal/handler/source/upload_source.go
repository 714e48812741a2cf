package source

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fable/internal/service"
)

// UploadSource 上传源文本
// @Summary      上传源文本
// @Description  通过 multipart/form-data 上传小说原文，服务端解码校验后存入存储并登记元数据，返回的 source_key 可用于创建分解运行。相同内容（MD5一致）的文本不重复落盘。
// @Tags         源文本
// @Accept       multipart/form-data
// @Produce      json
// @Param        file   formData  file    true   "源文本文件（纯文本，支持 utf-8/utf-16/latin-1 等编码）"
// @Param        title  formData  string  false  "展示标题（可选）"
// @Success      201    {object}  map[string]interface{}  "成功响应，data 为上传结果"
// @Failure      400    {object}  ErrorResponse  "文件缺失、为空或非文本格式"
// @Failure      503    {object}  ErrorResponse  "未配置存储"
// @Router       /api/v1/sources [post]
func (h *Handler) UploadSource(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "Invalid file",
			Detail:  err.Error(),
		})
		return
	}

	data, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "Failed to open file",
			Detail:  err.Error(),
		})
		return
	}
	defer data.Close()

	ctx := c.Request.Context()
	result, err := h.sourceService.UploadSource(ctx, &service.UploadSourceRequest{
		Name:        file.Filename,
		Title:       c.PostForm("title"),
		ContentType: file.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"code":    0,
		"message": "源文本上传成功",
		"data":    result,
	})
}
