package middleware

import (
	"net/http"
	"strings"

	"github.com/sxinguo/Review-tool/utils"

	"github.com/gin-gonic/gin"
)

func bearerToken(c *gin.Context) string {
	token := c.GetHeader("Authorization")
	return strings.TrimPrefix(token, "Bearer ")
}

// AuthMiddleware 认证中间件，校验通过后把uid写入上下文
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "未提供认证信息"})
			return
		}

		claims, err := utils.ParseToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "无效的认证信息"})
			return
		}

		c.Set("uid", claims.UserID)
		c.Next()
	}
}

// OptionalAuthMiddleware 有令牌则解析uid，没有也放行，
// 报告接口的游客请求走这里
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString != "" {
			if claims, err := utils.ParseToken(tokenString); err == nil {
				c.Set("uid", claims.UserID)
			}
		}
		c.Next()
	}
}
