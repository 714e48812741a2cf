package run

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetTTSChunks 获取运行的语音分片列表
// @Summary      获取语音分片列表
// @Description  根据运行ID查询语音合成分片（按全局序号排序），含时长估算与场景边界标记
// @Tags         运行管理
// @Accept       json
// @Produce      json
// @Param        id  path      string  true  "运行ID"
// @Success      200 {object}  map[string]interface{}  "成功响应"
// @Failure      404 {object}  ErrorResponse  "运行不存在"
// @Failure      500 {object}  ErrorResponse  "服务器内部错误"
// @Router       /api/v1/runs/{id}/tts-chunks [get]
func (h *Handler) GetTTSChunks(c *gin.Context) {
	runID := c.Param("id")
	if runID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "run id is required",
		})
		return
	}

	ctx := c.Request.Context()
	chunks, err := h.decomposeService.GetTTSChunks(ctx, runID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	infos := make([]TTSChunkInfo, 0, len(chunks))
	for _, chunk := range chunks {
		infos = append(infos, toTTSChunkInfo(chunk))
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data": gin.H{
			"run_id":     runID,
			"tts_chunks": infos,
			"count":      len(infos),
		},
	})
}
