package run

import (
	"fable/internal/service"
)

// Handler 运行处理器
// 所有运行相关的 Handler 方法都通过这个结构体访问 Service
type Handler struct {
	decomposeService service.DecomposeService
}

// NewHandler 创建运行处理器
func NewHandler(decomposeService service.DecomposeService) *Handler {
	return &Handler{
		decomposeService: decomposeService,
	}
}
