package run

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fable/internal/service"
)

// RenderRequest 渲染提交请求
type RenderRequest struct {
	WorkflowPath string `json:"workflow_path"` // 工作流模板路径，空取服务配置
}

// Render 提交运行的分镜到渲染主机
// @Summary      提交渲染
// @Description  将运行中尚未提交的分镜提示词逐镜提交到 ComfyUI 渲染主机，返回逐镜提交明细
// @Tags         运行管理
// @Accept       json
// @Produce      json
// @Param        id       path      string         true   "运行ID"
// @Param        request  body      RenderRequest  false  "渲染提交请求"
// @Success      200      {object}  map[string]interface{}  "成功响应"
// @Failure      400      {object}  ErrorResponse  "没有待提交的分镜"
// @Failure      404      {object}  ErrorResponse  "运行不存在"
// @Failure      503      {object}  ErrorResponse  "渲染主机未配置"
// @Router       /api/v1/runs/{id}/render [post]
func (h *Handler) Render(c *gin.Context) {
	runID := c.Param("id")
	if runID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "run id is required",
		})
		return
	}

	// 请求体可选
	var req RenderRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Code:    40001,
				Message: "Invalid request body",
				Detail:  err.Error(),
			})
			return
		}
	}

	ctx := c.Request.Context()
	result, err := h.decomposeService.RenderRun(ctx, &service.RenderRequest{
		RunID:        runID,
		WorkflowPath: req.WorkflowPath,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "渲染任务已提交",
		"data":    result,
	})
}
