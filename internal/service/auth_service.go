package service

import (
	"context"
	stderrors "errors"
	"regexp"
	"strings"

	"github.com/wfunc/nation-game/internal/errors"
	"github.com/wfunc/nation-game/internal/models"
	"github.com/wfunc/nation-game/internal/repository"
	"github.com/wfunc/nation-game/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// authService 认证服务实现
type authService struct {
	db         *gorm.DB
	userRepo   repository.UserRepository
	authRepo   repository.UserAuthRepository
	jwtManager *utils.JWTManager
	log        *zap.Logger
}

// NewAuthService 创建认证服务
func NewAuthService(
	db *gorm.DB,
	userRepo repository.UserRepository,
	authRepo repository.UserAuthRepository,
	jwtManager *utils.JWTManager,
	log *zap.Logger,
) AuthService {
	return &authService{
		db:         db,
		userRepo:   userRepo,
		authRepo:   authRepo,
		jwtManager: jwtManager,
		log:        log,
	}
}

// Register 用户注册
func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	// 验证输入
	if err := s.validateRegisterRequest(req); err != nil {
		return nil, err
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Nickname: req.Nickname,
		Role:     models.RolePlayer,
		Status:   "active",
	}
	user.UpdateLoginInfo(req.IP)

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrUnknown, "密码加密失败")
	}

	// 用户与认证信息在一个事务里创建
	// 用户名/邮箱唯一性由数据库约束裁决，避免先查后插的竞态
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.WithTx(tx).(repository.UserRepository).Create(ctx, user); err != nil {
			return err
		}

		auth := &models.UserAuth{
			UserID:   user.ID,
			Password: hashedPassword,
		}
		return s.authRepo.WithTx(tx).(repository.UserAuthRepository).Create(ctx, auth)
	})
	if err != nil {
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errors.New(errors.ErrAlreadyExists, "用户名或邮箱已被使用")
		}
		s.log.Error("注册失败", zap.Error(err))
		return nil, errors.Wrap(err, errors.ErrDatabaseInsert)
	}

	s.log.Info("用户注册成功", zap.Uint("user_id", user.ID), zap.String("username", user.Username))

	return s.buildAuthResponse(user)
}

// Login 用户登录
func (s *authService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	// 查找用户（支持用户名或邮箱登录）
	var user *models.User
	var err error

	if strings.Contains(req.Account, "@") {
		user, err = s.userRepo.FindByEmail(ctx, req.Account)
	} else {
		user, err = s.userRepo.FindByUsername(ctx, req.Account)
	}

	if err != nil || user == nil {
		s.log.Warn("登录失败：用户不存在", zap.String("account", req.Account))
		return nil, errors.New(errors.ErrAuthentication, "用户名或密码错误")
	}

	if !user.IsActive() {
		return nil, errors.New(errors.ErrAuthorization, "账户已被冻结")
	}

	// 获取认证信息
	auth, err := s.authRepo.FindByUserID(ctx, user.ID)
	if err != nil {
		s.log.Error("获取认证信息失败", zap.Error(err), zap.Uint("user_id", user.ID))
		return nil, errors.New(errors.ErrAuthentication, "用户名或密码错误")
	}

	// 验证密码
	valid, err := utils.VerifyPassword(req.Password, auth.Password)
	if err != nil || !valid {
		s.log.Warn("登录失败：密码错误", zap.Uint("user_id", user.ID))
		_ = s.authRepo.UpdateLoginAttempts(ctx, user.ID, auth.LoginAttempts+1)
		return nil, errors.New(errors.ErrAuthentication, "用户名或密码错误")
	}

	// 更新登录信息
	user.UpdateLoginInfo(req.IP)
	_ = s.userRepo.Update(ctx, user)
	_ = s.authRepo.ResetLoginAttempts(ctx, user.ID)

	s.log.Info("用户登录成功", zap.Uint("user_id", user.ID), zap.String("username", user.Username))

	return s.buildAuthResponse(user)
}

// RefreshToken 刷新令牌
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := s.jwtManager.ValidateToken(refreshToken)
	if err != nil {
		return nil, errors.New(errors.ErrTokenInvalid)
	}

	if claims.TokenType != "refresh" {
		return nil, errors.New(errors.ErrTokenInvalid, "不是刷新令牌")
	}

	// 获取用户信息
	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, errors.New(errors.ErrNotFound, "用户不存在")
	}

	if !user.IsActive() {
		return nil, errors.New(errors.ErrAuthorization, "账户已被冻结")
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Username, user.Email, user.Role)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrUnknown, "生成访问令牌失败")
	}

	s.log.Info("令牌刷新成功", zap.Uint("user_id", user.ID))

	return &AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwtManager.GetTokenExpiry("access").Seconds()),
		TokenType:    "Bearer",
	}, nil
}

// ValidateToken 验证令牌
// 每个请求独立校验，身份完全由令牌携带，服务端不保存会话状态
func (s *authService) ValidateToken(ctx context.Context, token string) (*TokenClaims, error) {
	claims, err := s.jwtManager.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	if claims.TokenType != "access" {
		return nil, errors.New(errors.ErrTokenInvalid)
	}

	return &TokenClaims{
		UserID:    claims.UserID,
		Username:  claims.Username,
		Email:     claims.Email,
		Role:      claims.Role,
		IssuedAt:  claims.IssuedAt.Unix(),
		ExpiresAt: claims.ExpiresAt.Unix(),
	}, nil
}

// buildAuthResponse 生成令牌对
func (s *authService) buildAuthResponse(user *models.User) (*AuthResponse, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Username, user.Email, user.Role)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrUnknown, "生成访问令牌失败")
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrUnknown, "生成刷新令牌失败")
	}

	return &AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwtManager.GetTokenExpiry("access").Seconds()),
		TokenType:    "Bearer",
	}, nil
}

// validateRegisterRequest 验证注册请求
func (s *authService) validateRegisterRequest(req *RegisterRequest) error {
	if len(req.Username) < 3 || len(req.Username) > 20 {
		return errors.New(errors.ErrInvalidParam, "用户名长度必须在3-20个字符之间")
	}
	if !usernamePattern.MatchString(req.Username) {
		return errors.New(errors.ErrInvalidParam, "用户名只能包含字母、数字和下划线")
	}
	if !utils.IsValidEmail(req.Email) {
		return errors.New(errors.ErrInvalidEmail)
	}
	if len(req.Password) < 6 {
		return errors.New(errors.ErrInvalidParam, "密码长度至少6个字符")
	}
	if req.Password != req.ConfirmPassword {
		return errors.New(errors.ErrInvalidParam, "两次输入的密码不一致")
	}
	return nil
}
