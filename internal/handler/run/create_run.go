package run

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fable/internal/pkg/storytools"
	"fable/internal/service"
)

// CreateRunRequest 创建运行请求
// text 与 source_key 二选一：text 为内联正文，source_key 指向已上传的源文件
type CreateRunRequest struct {
	Title         string                      `json:"title"`           // 运行标题（可选）
	Text          string                      `json:"text"`            // 内联正文
	SourceKey     string                      `json:"source_key"`      // 存储中的源文件 key
	SourceName    string                      `json:"source_name"`     // 源文件名（展示用）
	Encoding      string                      `json:"encoding"`        // 源文本编码，空为自动探测
	ExtraNames    []string                    `json:"extra_names"`     // 附加角色名，形如 "Name" 或 "Name: description"
	MaxSceneChars int                         `json:"max_scene_chars"` // 单场景字符预算，0 取服务默认
	Settings      storytools.PipelineSettings `json:"settings"`        // 流水线设定，零值字段按默认补齐
}

// CreateRun 创建分解运行
// @Summary      创建分解运行
// @Description  提交小说正文（内联或指向存储中的源文件），同步执行完整分解流水线：场景切分、角色识别、分镜提示词、旁白、音效线索、语音分片与批次规划，返回全部文档。
// @Tags         运行管理
// @Accept       json
// @Produce      json
// @Param        request  body      CreateRunRequest  true  "创建运行请求"
// @Success      200      {object}  map[string]interface{}  "成功响应，data 为完整分解结果"
// @Failure      400      {object}  ErrorResponse  "请求参数错误或源文本不可用"
// @Failure      500      {object}  ErrorResponse  "服务器内部错误"
// @Router       /api/v1/runs [post]
func (h *Handler) CreateRun(c *gin.Context) {
	var req CreateRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "Invalid request body",
			Detail:  err.Error(),
		})
		return
	}

	ctx := c.Request.Context()
	result, err := h.decomposeService.Decompose(ctx, &service.DecomposeRequest{
		Title:         req.Title,
		Text:          req.Text,
		SourceKey:     req.SourceKey,
		SourceName:    req.SourceName,
		Encoding:      req.Encoding,
		ExtraNames:    req.ExtraNames,
		MaxSceneChars: req.MaxSceneChars,
		Settings:      req.Settings,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "分解完成",
		"data":    result,
	})
}
