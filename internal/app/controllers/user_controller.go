package controllers

import (
	"strconv"

	"github.com/Anouar-Rezrazi/Konecta-Project/internal/app/middleware"
	"github.com/Anouar-Rezrazi/Konecta-Project/internal/domain/models"
	"github.com/Anouar-Rezrazi/Konecta-Project/internal/domain/services"
	"github.com/Anouar-Rezrazi/Konecta-Project/internal/domain/services/container"
	"github.com/Anouar-Rezrazi/Konecta-Project/internal/error/code"
	"github.com/Anouar-Rezrazi/Konecta-Project/internal/error/response"

	"github.com/gin-gonic/gin"
)

// InterfaceUserController 定义用户控制器接口
type InterfaceUserController interface {
	GetUsers()
	GetUser()
	CreateUser()
	UpdateUser()
	DeleteUser()
	UpdateProfile()
}

// UserController 处理用户管理和个人资料请求
type UserController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// ProfileResponse 更新个人资料的响应
type ProfileResponse struct {
	Message string      `json:"message" example:"Profile updated successfully"`
	User    ProfileUser `json:"user"`
}

// ProfileUser 个人资料中返回的用户字段
type ProfileUser struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

// NewUserController 创建一个新的用户控制器
func NewUserController(ctx *gin.Context, container *container.ServiceContainer) *UserController {
	return &UserController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleUserFunc 返回一个处理用户请求的Gin处理函数
func HandleUserFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewUserController(ctx, container)

		switch method {
		case "getUsers":
			controller.GetUsers()
		case "getUser":
			controller.GetUser()
		case "createUser":
			controller.CreateUser()
		case "updateUser":
			controller.UpdateUser()
		case "deleteUser":
			controller.DeleteUser()
		case "updateProfile":
			controller.UpdateProfile()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "Invalid method")
		}
	}
}

// 1. GetUsers 获取用户列表
// @Summary      List users
// @Tags         Users
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int     false  "Page number, default 1"
// @Param        limit  query     int     false  "Page size, default 10"
// @Param        role   query     string  false  "agent or supervisor"
// @Success      200    {object}  services.UserListResult
// @Failure      403    {object}  response.ErrorResponse
// @Router       /users [get]
func (c *UserController) GetUsers() {
	caller := middleware.MustCaller(c.Ctx)

	page := models.PaginationQuery{
		Page:  queryInt(c.Ctx, "page"),
		Limit: queryInt(c.Ctx, "limit"),
	}
	result, err := c.Container.UserService().ListUsers(caller, c.Ctx.Query("role"), page)
	if err != nil {
		response.FailWithError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, result)
}

// 2. GetUser 获取单个用户
// @Summary      Get a user
// @Tags         Users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  models.User
// @Failure      403  {object}  response.ErrorResponse
// @Failure      404  {object}  response.ErrorResponse
// @Router       /users/{id} [get]
func (c *UserController) GetUser() {
	caller := middleware.MustCaller(c.Ctx)

	user, err := c.Container.UserService().GetUser(caller, c.Ctx.Param("id"))
	if err != nil {
		response.FailWithError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, user)
}

// 3. CreateUser 创建用户
// @Summary      Create a user
// @Tags         Users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      services.CreateUserRequest  true  "User"
// @Success      201      {object}  models.User
// @Failure      400      {object}  response.ErrorResponse
// @Failure      403      {object}  response.ErrorResponse
// @Failure      409      {object}  response.ErrorResponse
// @Router       /users [post]
func (c *UserController) CreateUser() {
	caller := middleware.MustCaller(c.Ctx)

	var req services.CreateUserRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithError(c.Ctx, services.DecodeError(err))
		return
	}

	user, err := c.Container.UserService().CreateUser(caller, &req)
	if err != nil {
		response.FailWithError(c.Ctx, err)
		return
	}
	response.Created(c.Ctx, user)
}

// 4. UpdateUser 更新用户
// @Summary      Update a user
// @Description  Partial update; an empty password keeps the current one.
// @Tags         Users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                      true  "User id"
// @Param        request  body      services.UpdateUserRequest  true  "Fields to change"
// @Success      200      {object}  models.User
// @Failure      400      {object}  response.ErrorResponse
// @Failure      404      {object}  response.ErrorResponse
// @Failure      409      {object}  response.ErrorResponse
// @Router       /users/{id} [put]
func (c *UserController) UpdateUser() {
	caller := middleware.MustCaller(c.Ctx)

	var req services.UpdateUserRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithError(c.Ctx, services.DecodeError(err))
		return
	}

	user, err := c.Container.UserService().UpdateUser(caller, c.Ctx.Param("id"), &req)
	if err != nil {
		response.FailWithError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, user)
}

// 5. DeleteUser 删除用户
// @Summary      Delete a user
// @Tags         Users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  response.MessageResponse
// @Failure      403  {object}  response.ErrorResponse
// @Failure      404  {object}  response.ErrorResponse
// @Router       /users/{id} [delete]
func (c *UserController) DeleteUser() {
	caller := middleware.MustCaller(c.Ctx)

	if err := c.Container.UserService().DeleteUser(caller, c.Ctx.Param("id")); err != nil {
		response.FailWithError(c.Ctx, err)
		return
	}
	response.Message(c.Ctx, "User deleted successfully")
}

// 6. UpdateProfile 更新当前用户的个人资料
// @Summary      Update own profile
// @Description  Changing the password requires currentPassword. The role cannot be changed here.
// @Tags         Users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      services.ProfileUpdateRequest  true  "Profile"
// @Success      200      {object}  ProfileResponse
// @Failure      400      {object}  response.ErrorResponse
// @Failure      409      {object}  response.ErrorResponse
// @Router       /users/profile [put]
func (c *UserController) UpdateProfile() {
	caller := middleware.MustCaller(c.Ctx)

	var req services.ProfileUpdateRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithError(c.Ctx, services.DecodeError(err))
		return
	}

	user, err := c.Container.UserService().UpdateProfile(caller, &req)
	if err != nil {
		response.FailWithError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, ProfileResponse{
		Message: "Profile updated successfully",
		User: ProfileUser{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
			Role:  user.Role,
		},
	})
}

// queryInt 解析整数查询参数，非法时返回0交给分页默认值处理
func queryInt(ctx *gin.Context, key string) int {
	n, err := strconv.Atoi(ctx.Query(key))
	if err != nil {
		return 0
	}
	return n
}
