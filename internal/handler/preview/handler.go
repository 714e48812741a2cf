package preview

import (
	httputil "fable/internal/pkg/http"
	"fable/internal/service"
)

// ErrorResponse 错误响应类型别名（使用共用的 http.ErrorResponse）
type ErrorResponse = httputil.ErrorResponse

// Handler 预览处理器
// 预览接口无状态试跑流水线的单个组件，不落库、不写缓存
type Handler struct {
	decomposeService service.DecomposeService
}

// NewHandler 创建预览处理器
func NewHandler(decomposeService service.DecomposeService) *Handler {
	return &Handler{
		decomposeService: decomposeService,
	}
}
