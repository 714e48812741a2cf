package run

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetScenes 获取运行的场景列表
// @Summary      获取场景列表
// @Description  根据运行ID查询切分出的场景（按场景序号排序），含分类标注与时长估算
// @Tags         运行管理
// @Accept       json
// @Produce      json
// @Param        id  path      string  true  "运行ID"
// @Success      200 {object}  map[string]interface{}  "成功响应"
// @Failure      404 {object}  ErrorResponse  "运行不存在"
// @Failure      500 {object}  ErrorResponse  "服务器内部错误"
// @Router       /api/v1/runs/{id}/scenes [get]
func (h *Handler) GetScenes(c *gin.Context) {
	runID := c.Param("id")
	if runID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "run id is required",
		})
		return
	}

	ctx := c.Request.Context()
	scenes, err := h.decomposeService.GetScenes(ctx, runID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	infos := make([]SceneInfo, 0, len(scenes))
	for _, s := range scenes {
		infos = append(infos, toSceneInfo(s))
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data": gin.H{
			"run_id": runID,
			"scenes": infos,
			"count":  len(infos),
		},
	})
}
