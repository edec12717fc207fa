package services

import (
	"errors"
	"strings"

	"github.com/Anouar-Rezrazi/Konecta-Project/internal/domain/models"
	"github.com/Anouar-Rezrazi/Konecta-Project/internal/error/code"
	"github.com/Anouar-Rezrazi/Konecta-Project/internal/infrastructure/database"
	Logger "github.com/Anouar-Rezrazi/Konecta-Project/pkg/logger"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// InterfaceUserService 定义用户服务接口
type InterfaceUserService interface {
	ListUsers(caller models.Caller, role string, page models.PaginationQuery) (*UserListResult, error)
	GetUser(caller models.Caller, id string) (*models.User, error)
	CreateUser(caller models.Caller, req *CreateUserRequest) (*models.User, error)
	UpdateUser(caller models.Caller, id string, req *UpdateUserRequest) (*models.User, error)
	DeleteUser(caller models.Caller, id string) error
	UpdateProfile(caller models.Caller, req *ProfileUpdateRequest) (*models.User, error)
	FindByID(id string) (*models.User, error)
}

// UserListResult 用户列表响应
type UserListResult struct {
	Users      []models.User           `json:"users"`
	Pagination models.PaginationResult `json:"pagination"`
}

// CreateUserRequest 创建用户请求
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email" example:"agent3@demo.com"`
	Password string `json:"password" validate:"required,min=6" example:"password123"`
	Name     string `json:"name" validate:"required,min=2" example:"Salma Idrissi"`
	Role     string `json:"role" validate:"required,oneof=agent supervisor" example:"agent"`
}

// UpdateUserRequest 主管更新用户请求，密码为空时保持不变
type UpdateUserRequest struct {
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=6"`
	Name     *string `json:"name" validate:"omitempty,min=2"`
	Role     *string `json:"role" validate:"omitempty,oneof=agent supervisor"`
}

// ProfileUpdateRequest 用户更新自己的资料
type ProfileUpdateRequest struct {
	Name            string `json:"name" validate:"notblank" example:"Fatima El Alaoui"`
	Email           string `json:"email" validate:"required,email" example:"agent@demo.com"`
	CurrentPassword string `json:"currentPassword,omitempty"`
	NewPassword     string `json:"newPassword,omitempty" validate:"omitempty,min=6"`
}

// UserService 用户服务
type UserService struct {
	DB    *gorm.DB
	Cache InterfaceRedisService
}

// NewUserService 创建用户服务，cache 可以为 nil
func NewUserService(db *gorm.DB, cache InterfaceRedisService) InterfaceUserService {
	return &UserService{DB: db, Cache: cache}
}

// 1 ListUsers 分页获取用户列表，新创建的在前
func (s *UserService) ListUsers(caller models.Caller, role string, page models.PaginationQuery) (*UserListResult, error) {
	if !caller.IsSupervisor() {
		return nil, code.New(code.ErrForbidden)
	}
	page = page.Normalize()

	query := s.DB.Model(&models.User{})
	if role = strings.TrimSpace(role); role != "" {
		query = query.Where("role = ?", role)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, code.Wrap(code.ErrDatabase, err)
	}

	pagination := models.NewPaginationResult(total, page.Page, page.Limit)
	if page.PastEnd(total) {
		return &UserListResult{Users: []models.User{}, Pagination: pagination}, nil
	}

	var users []models.User
	err := query.Order("created_at DESC, id DESC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&users).Error
	if err != nil {
		return nil, code.Wrap(code.ErrDatabase, err)
	}
	if users == nil {
		users = []models.User{}
	}

	return &UserListResult{Users: users, Pagination: pagination}, nil
}

// 2 GetUser 获取单个用户
func (s *UserService) GetUser(caller models.Caller, id string) (*models.User, error) {
	if !caller.IsSupervisor() {
		return nil, code.New(code.ErrForbidden)
	}
	return s.FindByID(id)
}

// 3 CreateUser 创建用户，邮箱重复时返回冲突
func (s *UserService) CreateUser(caller models.Caller, req *CreateUserRequest) (*models.User, error) {
	if !caller.IsSupervisor() {
		return nil, code.New(code.ErrForbidden)
	}

	req.Email = models.NormalizeEmail(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	req.Role = strings.TrimSpace(req.Role)
	if err := ValidateStruct(req); err != nil {
		return nil, err
	}

	taken, err := s.emailTaken(req.Email, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, code.New(code.ErrUserAlreadyExist)
	}

	hashed, err := database.HashPassword(req.Password)
	if err != nil {
		return nil, code.Wrap(code.ErrUnknown, err)
	}

	user := models.User{
		Email:    req.Email,
		Password: hashed,
		Name:     req.Name,
		Role:     models.Role(req.Role),
	}
	if err := s.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, code.New(code.ErrUserAlreadyExist)
		}
		return nil, code.Wrap(code.ErrDatabase, err)
	}
	return &user, nil
}

// 4 UpdateUser 部分更新用户信息
func (s *UserService) UpdateUser(caller models.Caller, id string, req *UpdateUserRequest) (*models.User, error) {
	if !caller.IsSupervisor() {
		return nil, code.New(code.ErrForbidden)
	}

	if req.Email != nil {
		email := models.NormalizeEmail(*req.Email)
		req.Email = &email
	}
	req.Name = trimPtr(req.Name)
	req.Role = trimPtr(req.Role)
	// 空密码表示不修改
	if req.Password != nil && *req.Password == "" {
		req.Password = nil
	}
	if err := ValidateStruct(req); err != nil {
		return nil, err
	}

	user, err := s.FindByID(id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != user.Email {
		taken, err := s.emailTaken(*req.Email, user.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, code.NewWithMessage(code.ErrUserAlreadyExist, "Email is already taken by another user")
		}
		user.Email = *req.Email
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Role != nil {
		user.Role = models.Role(*req.Role)
	}
	if req.Password != nil {
		hashed, err := database.HashPassword(*req.Password)
		if err != nil {
			return nil, code.Wrap(code.ErrUnknown, err)
		}
		user.Password = hashed
	}

	if err := s.save(user); err != nil {
		return nil, err
	}
	s.invalidateStats()
	return user, nil
}

// 5 DeleteUser 删除用户，主管不能删除自己
func (s *UserService) DeleteUser(caller models.Caller, id string) error {
	if !caller.IsSupervisor() {
		return code.New(code.ErrForbidden)
	}
	if id == caller.ID {
		return code.New(code.ErrUserSelfDelete)
	}
	if !models.IsValidID(id) {
		return code.New(code.ErrUserNotFound)
	}

	result := s.DB.Delete(&models.User{}, "id = ?", id)
	if result.Error != nil {
		return code.Wrap(code.ErrDatabase, result.Error)
	}
	if result.RowsAffected == 0 {
		return code.New(code.ErrUserNotFound)
	}
	s.invalidateStats()
	return nil
}

// 6 UpdateProfile 更新自己的姓名、邮箱和密码，角色不可修改
func (s *UserService) UpdateProfile(caller models.Caller, req *ProfileUpdateRequest) (*models.User, error) {
	req.Email = models.NormalizeEmail(req.Email)
	req.Name = strings.TrimSpace(req.Name)

	issues, err := validationIssues(ValidateStruct(req))
	if err != nil {
		return nil, err
	}
	if req.NewPassword != "" && req.CurrentPassword == "" {
		issues = append(issues, code.FieldIssue{Field: "currentPassword", Message: "Current password is required"})
	}
	if len(issues) > 0 {
		return nil, code.Validation(issues...)
	}

	user, err := s.FindByID(caller.ID)
	if err != nil {
		return nil, err
	}

	if req.Email != user.Email {
		taken, err := s.emailTaken(req.Email, user.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, code.NewWithMessage(code.ErrUserAlreadyExist, "Email already in use")
		}
	}

	if req.NewPassword != "" {
		if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)) != nil {
			return nil, code.Validation(code.FieldIssue{Field: "currentPassword", Message: "Current password is incorrect"})
		}
		hashed, err := database.HashPassword(req.NewPassword)
		if err != nil {
			return nil, code.Wrap(code.ErrUnknown, err)
		}
		user.Password = hashed
	}

	user.Name = req.Name
	user.Email = req.Email
	if err := s.save(user); err != nil {
		return nil, err
	}
	s.invalidateStats()
	return user, nil
}

// 7 FindByID 按ID查找用户，非法ID视为不存在
func (s *UserService) FindByID(id string) (*models.User, error) {
	if !models.IsValidID(id) {
		return nil, code.New(code.ErrUserNotFound)
	}

	var user models.User
	err := s.DB.Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, code.New(code.ErrUserNotFound)
	}
	if err != nil {
		return nil, code.Wrap(code.ErrDatabase, err)
	}
	return &user, nil
}

// emailTaken 判断邮箱是否已被其他用户使用
func (s *UserService) emailTaken(email, excludeID string) (bool, error) {
	query := s.DB.Model(&models.User{}).Where("email = ?", email)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, code.Wrap(code.ErrDatabase, err)
	}
	return count > 0, nil
}

// save 保存用户，唯一索引冲突转换为409
func (s *UserService) save(user *models.User) error {
	if err := s.DB.Save(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return code.New(code.ErrUserAlreadyExist)
		}
		return code.Wrap(code.ErrDatabase, err)
	}
	return nil
}

// invalidateStats 坐席排行里带有用户姓名，用户变更后同样要刷新
func (s *UserService) invalidateStats() {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.InvalidateDashboardStats(); err != nil {
		Logger.Warning("仪表盘缓存失效失败: %v", err)
	}
}
