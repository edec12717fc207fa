package controllers

import (
	"github.com/Anouar-Rezrazi/Konecta-Project/internal/domain/services"
	"github.com/Anouar-Rezrazi/Konecta-Project/internal/domain/services/container"
	"github.com/Anouar-Rezrazi/Konecta-Project/internal/error/code"
	"github.com/Anouar-Rezrazi/Konecta-Project/internal/error/response"
	Logger "github.com/Anouar-Rezrazi/Konecta-Project/pkg/logger"

	"github.com/gin-gonic/gin"
)

// InterfaceJWTController 定义认证控制器接口
type InterfaceJWTController interface {
	Login()
}

// JWTController 处理身份验证请求
type JWTController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewJWTController 创建一个新的认证控制器
func NewJWTController(ctx *gin.Context, container *container.ServiceContainer) *JWTController {
	return &JWTController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleJWTFunc 返回一个处理JWT认证请求的Gin处理函数
func HandleJWTFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewJWTController(ctx, container)

		switch method {
		case "login":
			controller.Login()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "Invalid method")
		}
	}
}

// Login 处理用户登录
// @Summary      User Login
// @Description  Exchange email and password for a JWT carrying the user id and role
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      services.LoginRequest  true  "Credentials"
// @Success      200      {object}  services.LoginResult
// @Failure      400      {object}  response.ErrorResponse
// @Failure      401      {object}  response.ErrorResponse
// @Router       /auth/login [post]
func (c *JWTController) Login() {
	var req services.LoginRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithError(c.Ctx, services.DecodeError(err))
		return
	}

	result, err := c.Container.JWTService().Login(&req)
	if err != nil {
		if code.Is(err, code.ErrUserPasswordIncorrect) {
			Logger.Warning("登录失败: email=%s ip=%s", req.Email, c.Ctx.ClientIP())
		}
		response.FailWithError(c.Ctx, err)
		return
	}

	Logger.Info("用户登录成功: id=%s role=%s", result.User.ID, result.User.Role)
	response.Success(c.Ctx, result)
}
