package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fyerfyer/study-planner/internal/models"
)

// Authenticator 根据令牌解析用户名
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (string, error)
}

// RequireAuth 校验 Authorization: Bearer <token>
// 通过后在上下文中设置用户名和令牌
func RequireAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			HandleError(c, models.ErrUnauthorized)
			c.Abort()
			return
		}

		username, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			HandleError(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUsername, username)
		c.Set(ContextToken, token)
		c.Next()
	}
}

// bearerToken 从请求头中取出令牌
func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// Username 返回当前登录的用户名
func Username(c *gin.Context) string {
	return c.GetString(ContextUsername)
}
