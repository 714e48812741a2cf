package middleware

import (
	"github.com/gin-gonic/gin"

	"fable/internal/pkg/ctxutil"
	"fable/internal/pkg/id"
)

const requestIDHeader = "X-Request-ID"

// RequestID 请求ID中间件
// 优先沿用调用方传入的 X-Request-ID，否则生成新的 UUID，
// 注入 context 供下游日志关联，并回写到响应头
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = id.New()
		}

		c.Set("request_id", requestID)
		c.Header(requestIDHeader, requestID)

		ctx := ctxutil.WithRequestID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
