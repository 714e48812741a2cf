package run

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fable/internal/service"
)

// MarkCheckpointRequest 检查点标记请求
type MarkCheckpointRequest struct {
	Completed []int `json:"completed" binding:"required"` // 本次新完成的场景序号（必填，可为空数组）
}

// MarkCheckpoint 标记检查点并返回续跑规划
// @Summary      标记检查点
// @Description  记录已完成的场景序号（幂等，负数忽略），返回按批次切分的续跑规划与完成百分比
// @Tags         运行管理
// @Accept       json
// @Produce      json
// @Param        id       path      string                 true  "运行ID"
// @Param        request  body      MarkCheckpointRequest  true  "检查点标记请求"
// @Success      200      {object}  map[string]interface{}  "成功响应"
// @Failure      400      {object}  ErrorResponse  "请求参数错误"
// @Failure      404      {object}  ErrorResponse  "运行不存在"
// @Failure      500      {object}  ErrorResponse  "服务器内部错误"
// @Router       /api/v1/runs/{id}/checkpoint [post]
func (h *Handler) MarkCheckpoint(c *gin.Context) {
	runID := c.Param("id")
	if runID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "run id is required",
		})
		return
	}

	var req MarkCheckpointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "Invalid request body",
			Detail:  err.Error(),
		})
		return
	}

	ctx := c.Request.Context()
	result, err := h.decomposeService.MarkCheckpoint(ctx, &service.CheckpointRequest{
		RunID:     runID,
		Completed: req.Completed,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "检查点已更新",
		"data":    result,
	})
}
