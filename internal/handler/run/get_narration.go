package run

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetNarration 获取运行的旁白单元列表
// @Summary      获取旁白列表
// @Description  根据运行ID查询逐场景的旁白单元（按场景序号排序），含时长与对白占比
// @Tags         运行管理
// @Accept       json
// @Produce      json
// @Param        id  path      string  true  "运行ID"
// @Success      200 {object}  map[string]interface{}  "成功响应"
// @Failure      404 {object}  ErrorResponse  "运行不存在"
// @Failure      500 {object}  ErrorResponse  "服务器内部错误"
// @Router       /api/v1/runs/{id}/narration [get]
func (h *Handler) GetNarration(c *gin.Context) {
	runID := c.Param("id")
	if runID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "run id is required",
		})
		return
	}

	ctx := c.Request.Context()
	units, err := h.decomposeService.GetNarration(ctx, runID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	infos := make([]NarrationInfo, 0, len(units))
	for _, u := range units {
		infos = append(infos, toNarrationInfo(u))
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data": gin.H{
			"run_id":    runID,
			"narration": infos,
			"count":     len(infos),
		},
	})
}
