package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"fable/internal/pkg/ctxutil"
)

// Logger 日志中间件
// 按状态码分级记录访问日志，并带上 RequestID 中间件注入的请求ID
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		event := log.Info()
		if status >= 400 {
			event = log.Warn()
		}
		if status >= 500 {
			event = log.Error()
		}

		requestID, _ := ctxutil.GetRequestID(c.Request.Context())

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Str("query", query).
			Int("status", status).
			Dur("latency", latency).
			Str("client_ip", c.ClientIP()).
			Str("request_id", requestID).
			Int("body_size", c.Writer.Size()).
			Msg("HTTP request")
	}
}
