package run

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetSFX 获取运行的音效线索列表
// @Summary      获取音效线索列表
// @Description  根据运行ID查询逐场景的音效线索（按场景序号排序），含组合音景描述
// @Tags         运行管理
// @Accept       json
// @Produce      json
// @Param        id  path      string  true  "运行ID"
// @Success      200 {object}  map[string]interface{}  "成功响应"
// @Failure      404 {object}  ErrorResponse  "运行不存在"
// @Failure      500 {object}  ErrorResponse  "服务器内部错误"
// @Router       /api/v1/runs/{id}/sfx [get]
func (h *Handler) GetSFX(c *gin.Context) {
	runID := c.Param("id")
	if runID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "run id is required",
		})
		return
	}

	ctx := c.Request.Context()
	docs, err := h.decomposeService.GetSFX(ctx, runID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	infos := make([]SFXInfo, 0, len(docs))
	for _, doc := range docs {
		infos = append(infos, toSFXInfo(doc))
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data": gin.H{
			"run_id": runID,
			"sfx":    infos,
			"count":  len(infos),
		},
	})
}
