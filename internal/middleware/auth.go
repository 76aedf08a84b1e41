package middleware

import (
	"strings"

	"balance_scale_backend/internal/util"
	"balance_scale_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthMiddleware 将调用方的身份信息写入上下文。
// 关闭认证时所有请求都以拥有管理员角色的匿名用户身份执行
func AuthMiddleware(enabled bool, secret string) gin.HandlerFunc {
	anonymous := &util.Claims{UserID: util.AnonymousUserID, Role: util.RoleAdmin}

	return func(c *gin.Context) {
		if !enabled {
			c.Set("user", anonymous)
			c.Next()
			return
		}

		tokenString := ""
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, secret)
		if err != nil {
			logger.Log.Debug("Rejected token", zap.Error(err))
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set("user", claims)
		c.Next()
	}
}

// RoleMiddleware 仅放行拥有指定角色的用户，管理员始终放行
func RoleMiddleware(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := util.GetUserFromContext(c)
		if user == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		hasRole := user.IsAdmin()
		for _, role := range roles {
			if user.Role == role {
				hasRole = true
				break
			}
		}

		if !hasRole {
			util.Forbidden(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
