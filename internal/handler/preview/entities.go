package preview

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fable/internal/service"
)

// EntitiesRequest 角色识别预览请求
type EntitiesRequest struct {
	Text        string   `json:"text" binding:"required"` // 正文（必填）
	MaxEntities int      `json:"max_entities"`            // 最多保留的角色数，0 取内置默认
	ExtraNames  []string `json:"extra_names"`             // 附加角色名，形如 "Name" 或 "Name: description"
}

// Entities 预览角色识别
// @Summary      预览角色识别
// @Description  对提交的正文试跑角色识别，合并附加角色名单，返回按提及次数排序的角色列表，不落库
// @Tags         预览
// @Accept       json
// @Produce      json
// @Param        request  body      EntitiesRequest  true  "角色识别预览请求"
// @Success      200      {object}  map[string]interface{}  "成功响应"
// @Failure      400      {object}  ErrorResponse  "请求参数错误"
// @Router       /api/v1/preview/entities [post]
func (h *Handler) Entities(c *gin.Context) {
	var req EntitiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "Invalid request body",
			Detail:  err.Error(),
		})
		return
	}

	result := h.decomposeService.PreviewEntities(c.Request.Context(), &service.PreviewEntitiesRequest{
		Text:        req.Text,
		MaxEntities: req.MaxEntities,
		ExtraNames:  req.ExtraNames,
	})

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    result,
	})
}
