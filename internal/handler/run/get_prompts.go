package run

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetPrompts 获取运行的分镜提示词列表
// @Summary      获取分镜提示词列表
// @Description  根据运行ID查询全部分镜提示词（按场景、镜头序号排序），含渲染提交状态
// @Tags         运行管理
// @Accept       json
// @Produce      json
// @Param        id  path      string  true  "运行ID"
// @Success      200 {object}  map[string]interface{}  "成功响应"
// @Failure      404 {object}  ErrorResponse  "运行不存在"
// @Failure      500 {object}  ErrorResponse  "服务器内部错误"
// @Router       /api/v1/runs/{id}/prompts [get]
func (h *Handler) GetPrompts(c *gin.Context) {
	runID := c.Param("id")
	if runID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "run id is required",
		})
		return
	}

	ctx := c.Request.Context()
	prompts, err := h.decomposeService.GetShotPrompts(ctx, runID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	infos := make([]ShotPromptInfo, 0, len(prompts))
	for _, p := range prompts {
		infos = append(infos, toShotPromptInfo(p))
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data": gin.H{
			"run_id":  runID,
			"prompts": infos,
			"count":   len(infos),
		},
	})
}
