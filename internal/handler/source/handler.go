package source

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fable/internal/model/story"
	httputil "fable/internal/pkg/http"
	"fable/internal/service"
)

// ErrorResponse 错误响应类型别名（使用共用的 http.ErrorResponse）
type ErrorResponse = httputil.ErrorResponse

// Handler 源文本处理器
// 管理上传的小说原文，上传后通过返回的 source_key 创建分解运行
type Handler struct {
	sourceService service.SourceService
}

// NewHandler 创建源文本处理器
func NewHandler(sourceService service.SourceService) *Handler {
	return &Handler{
		sourceService: sourceService,
	}
}

// respondServiceError 统一把 service 层错误映射为 HTTP 状态码与业务码
func respondServiceError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := 50001

	switch {
	case errors.Is(err, service.ErrSourceNotFound):
		status = http.StatusNotFound
		code = 40402
	case errors.Is(err, service.ErrEmptySource):
		status = http.StatusBadRequest
		code = 40002
	case errors.Is(err, service.ErrUnsupportedFormat):
		status = http.StatusBadRequest
		code = 40003
	case errors.Is(err, service.ErrPersistenceDisabled):
		status = http.StatusServiceUnavailable
		code = 50301
	case errors.Is(err, service.ErrStorageDisabled):
		status = http.StatusServiceUnavailable
		code = 50303
	}

	c.JSON(status, ErrorResponse{
		Code:    code,
		Message: err.Error(),
	})
}

// SourceInfo 源文本信息 DTO
type SourceInfo struct {
	ID          string `json:"id"`              // 源文本ID
	Name        string `json:"name"`            // 原始文件名
	Title       string `json:"title,omitempty"` // 展示标题
	SourceKey   string `json:"source_key"`      // 存储 key，创建运行时填入
	StorageType string `json:"storage_type"`    // 存储类型
	Ext         string `json:"ext"`             // 文件扩展名
	FileSize    int64  `json:"file_size"`       // 文件大小（字节）
	ContentType string `json:"content_type"`    // MIME类型
	MD5         string `json:"md5,omitempty"`   // 文件MD5值
	Encoding    string `json:"encoding"`        // 探测到的编码
	WordCount   int    `json:"word_count"`      // 词数
	CharCount   int    `json:"char_count"`      // 字符数
	CreatedAt   string `json:"created_at"`      // 上传时间
}

// toSourceInfo 将 Source 实体转换为 SourceInfo DTO
func toSourceInfo(src *story.Source) SourceInfo {
	return SourceInfo{
		ID:          src.ID,
		Name:        src.Name,
		Title:       src.Title,
		SourceKey:   src.StorageKey,
		StorageType: src.StorageType,
		Ext:         src.Ext,
		FileSize:    src.FileSize,
		ContentType: src.ContentType,
		MD5:         src.MD5,
		Encoding:    src.Encoding,
		WordCount:   src.WordCount,
		CharCount:   src.CharCount,
		CreatedAt:   src.CreatedAt.Format(time.RFC3339),
	}
}
