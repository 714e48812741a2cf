package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"fable/internal/pkg/ctxutil"
	"fable/internal/pkg/jwtauth"
)

// Auth JWT 认证中间件
// 从 Authorization header 中提取 Bearer token，验证后注入主体标识到 context
func Auth(jwtUtil *jwtauth.JWT) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    40101,
				"message": "未授权",
			})
			c.Abort()
			return
		}

		// 提取 Token（Bearer {token}）
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    40101,
				"message": "Invalid authorization header",
			})
			c.Abort()
			return
		}

		claims, err := jwtUtil.ValidateToken(parts[1])
		if err != nil {
			errorCode := 40103
			if errors.Is(err, jwtauth.ErrExpiredToken) {
				errorCode = 40102
			}
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    errorCode,
				"message": "Token无效或已过期",
			})
			c.Abort()
			return
		}

		// 将认证主体注入到 context
		ctx := ctxutil.WithSubject(c.Request.Context(), claims.Subject)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
