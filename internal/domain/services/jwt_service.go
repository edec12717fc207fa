package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/Anouar-Rezrazi/Konecta-Project/internal/domain/models"
	"github.com/Anouar-Rezrazi/Konecta-Project/internal/error/code"
	"github.com/Anouar-Rezrazi/Konecta-Project/internal/infrastructure/config"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// InterfaceJWTService 定义JWT服务接口
type InterfaceJWTService interface {
	GenerateToken(userID string, role models.Role) (string, error)
	ExtractClaims(tokenString string) (*JWTClaims, error)
	Login(req *LoginRequest) (*LoginResult, error)
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email" example:"supervisor@demo.com"`
	Password string `json:"password" validate:"required" example:"password123"`
}

// LoginResult 表示登录结果
type LoginResult struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// JWTService 提供JWT相关服务
type JWTService struct {
	secretKey  string
	issuer     string
	expiration time.Duration
	DB         *gorm.DB
}

// JWTClaims 定义JWT令牌的声明结构
type JWTClaims struct {
	UserID string      `json:"user_id"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// NewJWTService 创建一个新的JWT服务
func NewJWTService(cfg *config.Config, db *gorm.DB) InterfaceJWTService {
	return &JWTService{
		secretKey:  cfg.JWTSecretKey,
		issuer:     "konecta-call-center",
		expiration: cfg.GetJWTExpiration(),
		DB:         db,
	}
}

// 1 GenerateToken 生成JWT令牌
func (s *JWTService) GenerateToken(userID string, role models.Role) (string, error) {
	now := time.Now()
	claims := &JWTClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secretKey))
}

// 2 ExtractClaims 验证令牌并提取声明
func (s *JWTService) ExtractClaims(tokenString string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// 验证签名算法
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.UserID == "" {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// 3 Login 校验邮箱和密码并签发令牌
func (s *JWTService) Login(req *LoginRequest) (*LoginResult, error) {
	req.Email = models.NormalizeEmail(req.Email)
	if err := ValidateStruct(req); err != nil {
		return nil, err
	}

	var user models.User
	err := s.DB.Where("email = ?", req.Email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, code.New(code.ErrUserPasswordIncorrect)
	}
	if err != nil {
		return nil, code.Wrap(code.ErrDatabase, err)
	}

	// 比较密码
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, code.New(code.ErrUserPasswordIncorrect)
	}

	token, err := s.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, code.Wrap(code.ErrUnknown, err)
	}

	return &LoginResult{Token: token, User: user}, nil
}
