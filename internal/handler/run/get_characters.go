package run

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetCharacters 获取运行识别出的角色列表
// @Summary      获取角色列表
// @Description  根据运行ID查询识别出的角色（按提及次数倒序），含层级与建议参考图数量
// @Tags         运行管理
// @Accept       json
// @Produce      json
// @Param        id  path      string  true  "运行ID"
// @Success      200 {object}  map[string]interface{}  "成功响应"
// @Failure      404 {object}  ErrorResponse  "运行不存在"
// @Failure      500 {object}  ErrorResponse  "服务器内部错误"
// @Router       /api/v1/runs/{id}/characters [get]
func (h *Handler) GetCharacters(c *gin.Context) {
	runID := c.Param("id")
	if runID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "run id is required",
		})
		return
	}

	ctx := c.Request.Context()
	characters, err := h.decomposeService.GetCharacters(ctx, runID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	infos := make([]CharacterInfo, 0, len(characters))
	for _, ch := range characters {
		infos = append(infos, toCharacterInfo(ch))
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data": gin.H{
			"run_id":     runID,
			"characters": infos,
			"count":      len(infos),
		},
	})
}
