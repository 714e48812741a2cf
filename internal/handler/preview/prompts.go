package preview

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fable/internal/service"
)

// PromptsRequest 镜头提示词预览请求
type PromptsRequest struct {
	Text        string   `json:"text" binding:"required"` // 场景文本（必填）
	Style       string   `json:"style"`                   // 视觉风格，空则取服务默认
	Engine      string   `json:"engine"`                  // 出图引擎，空则取服务默认
	CustomStyle string   `json:"custom_style"`            // 自定义风格描述（style=custom 时生效）
	Density     int      `json:"density"`                 // 指定镜头数，0 则按分类结果推算
	ExtraNames  []string `json:"extra_names"`             // 追加角色名（"名字: 描述" 格式）
}

// Prompts 预览镜头提示词
// @Summary      预览镜头提示词
// @Description  对提交的场景文本试跑角色提取、分类与提示词生成，返回完整的镜头提示词列表，不落库
// @Tags         预览
// @Accept       json
// @Produce      json
// @Param        request  body      PromptsRequest  true  "镜头提示词预览请求"
// @Success      200      {object}  map[string]interface{}  "成功响应"
// @Failure      400      {object}  ErrorResponse  "请求参数错误"
// @Router       /api/v1/preview/prompts [post]
func (h *Handler) Prompts(c *gin.Context) {
	var req PromptsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "Invalid request body",
			Detail:  err.Error(),
		})
		return
	}

	result := h.decomposeService.PreviewPrompts(c.Request.Context(), &service.PreviewPromptsRequest{
		Text:        req.Text,
		Style:       req.Style,
		Engine:      req.Engine,
		CustomStyle: req.CustomStyle,
		Density:     req.Density,
		ExtraNames:  req.ExtraNames,
	})

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    result,
	})
}
