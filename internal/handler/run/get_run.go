package run

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetRun 获取运行详情
// @Summary      获取运行详情
// @Description  根据运行ID查询运行记录，含状态、流水线设定与产物统计
// @Tags         运行管理
// @Accept       json
// @Produce      json
// @Param        id  path      string  true  "运行ID"
// @Success      200 {object}  map[string]interface{}  "成功响应"
// @Failure      404 {object}  ErrorResponse  "运行不存在"
// @Failure      500 {object}  ErrorResponse  "服务器内部错误"
// @Router       /api/v1/runs/{id} [get]
func (h *Handler) GetRun(c *gin.Context) {
	runID := c.Param("id")
	if runID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "run id is required",
		})
		return
	}

	ctx := c.Request.Context()
	run, err := h.decomposeService.GetRun(ctx, runID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    toRunInfo(run),
	})
}
