package middleware

import (
	"strings"

	"github.com/Anouar-Rezrazi/Konecta-Project/internal/domain/models"
	"github.com/Anouar-Rezrazi/Konecta-Project/internal/domain/services"
	"github.com/Anouar-Rezrazi/Konecta-Project/internal/error/code"
	"github.com/Anouar-Rezrazi/Konecta-Project/internal/error/response"
	Logger "github.com/Anouar-Rezrazi/Konecta-Project/pkg/logger"

	"github.com/gin-gonic/gin"
)

// callerKey 上下文中保存调用者身份的键
const callerKey = "caller"

// extractToken 从授权头中提取token，格式必须为 Bearer {token}
func extractToken(authHeader string) string {
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// Authentication 通用的认证中间件
//
// 令牌有效后重新加载用户，角色变更和删除立即生效。
func Authentication(jwtService services.InterfaceJWTService, userService services.InterfaceUserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c.GetHeader("Authorization"))
		if tokenString == "" {
			response.FailWithMessage(c, code.ErrTokenInvalid, "Access token required")
			return
		}

		// 验证token
		claims, err := jwtService.ExtractClaims(tokenString)
		if err != nil {
			Logger.Debug("令牌校验失败: %v", err)
			response.FailWithMessage(c, code.ErrTokenInvalid, "Invalid or expired token")
			return
		}

		user, err := userService.FindByID(claims.UserID)
		if err != nil {
			if code.Is(err, code.ErrUserNotFound) {
				response.FailWithMessage(c, code.ErrTokenInvalid, "Invalid or expired token")
				return
			}
			response.FailWithError(c, err)
			return
		}

		c.Set(callerKey, models.Caller{ID: user.ID, Role: user.Role})
		c.Next()
	}
}

// GetCaller 获取认证中间件写入的调用者身份
func GetCaller(c *gin.Context) (models.Caller, bool) {
	value, exists := c.Get(callerKey)
	if !exists {
		return models.Caller{}, false
	}
	caller, ok := value.(models.Caller)
	return caller, ok
}

// MustCaller 获取调用者身份，只在认证路由组内使用
func MustCaller(c *gin.Context) models.Caller {
	caller, ok := GetCaller(c)
	if !ok {
		panic("caller missing from context, route is not behind Authentication")
	}
	return caller
}
