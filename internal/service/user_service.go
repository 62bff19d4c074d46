package service

import (
	"context"
	stderrors "errors"

	"github.com/wfunc/nation-game/internal/errors"
	"github.com/wfunc/nation-game/internal/mailer"
	"github.com/wfunc/nation-game/internal/models"
	"github.com/wfunc/nation-game/internal/repository"
	"github.com/wfunc/nation-game/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// userService 用户服务实现
type userService struct {
	db       *gorm.DB
	userRepo repository.UserRepository
	authRepo repository.UserAuthRepository
	mail     mailer.Mailer
	log      *zap.Logger
}

// NewUserService 创建用户服务
func NewUserService(
	db *gorm.DB,
	userRepo repository.UserRepository,
	authRepo repository.UserAuthRepository,
	mail mailer.Mailer,
	log *zap.Logger,
) UserService {
	return &userService{
		db:       db,
		userRepo: userRepo,
		authRepo: authRepo,
		mail:     mail,
		log:      log,
	}
}

// GetProfile 获取用户资料
func (s *userService) GetProfile(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, errors.New(errors.ErrNotFound, "用户不存在")
	}
	return user, nil
}

// RequestEmailChange 请求换绑邮箱
// 新邮箱先暂存，发送验证邮件，确认前正式邮箱保持不变
func (s *userService) RequestEmailChange(ctx context.Context, userID uint, newEmail string) error {
	if !utils.IsValidEmail(newEmail) {
		return errors.New(errors.ErrInvalidEmail)
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return errors.New(errors.ErrNotFound, "用户不存在")
	}

	if user.Email == newEmail {
		return errors.New(errors.ErrInvalidParam, "新邮箱与当前邮箱相同")
	}

	// 新邮箱不能被其他账户占用
	if existing, _ := s.userRepo.FindByEmail(ctx, newEmail); existing != nil && existing.ID != userID {
		return errors.New(errors.ErrEmailInUse)
	}

	token := utils.GenerateVerifyToken()
	if err := s.userRepo.SetPendingEmail(ctx, userID, newEmail, token); err != nil {
		s.log.Error("暂存新邮箱失败", zap.Error(err), zap.Uint("user_id", userID))
		return errors.Wrap(err, errors.ErrDatabaseUpdate)
	}

	// 验证邮件发往新邮箱
	if err := s.mail.SendEmailVerification(newEmail, token); err != nil {
		s.log.Warn("验证邮件发送失败", zap.Error(err), zap.Uint("user_id", userID))
	}

	s.log.Info("邮箱换绑已发起", zap.Uint("user_id", userID))
	return nil
}

// VerifyEmailChange 确认换绑邮箱
func (s *userService) VerifyEmailChange(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, errors.New(errors.ErrTokenInvalid)
	}

	user, err := s.userRepo.FindByVerifyToken(ctx, token)
	if err != nil {
		return nil, errors.New(errors.ErrTokenInvalid, "验证令牌无效或已使用")
	}

	if user.PendingEmail == "" {
		return nil, errors.New(errors.ErrTokenInvalid, "没有待确认的邮箱")
	}

	if err := s.userRepo.ConfirmPendingEmail(ctx, user.ID); err != nil {
		// 等待确认期间该邮箱可能已被他人占用
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errors.New(errors.ErrEmailInUse)
		}
		s.log.Error("邮箱转正失败", zap.Error(err), zap.Uint("user_id", user.ID))
		return nil, errors.Wrap(err, errors.ErrDatabaseUpdate)
	}

	updated, err := s.userRepo.FindByID(ctx, user.ID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrDatabaseQuery)
	}

	s.log.Info("邮箱换绑完成", zap.Uint("user_id", user.ID))
	return updated, nil
}

// ChangePassword 修改密码
func (s *userService) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	if len(newPassword) < 6 {
		return errors.New(errors.ErrInvalidParam, "密码长度至少6个字符")
	}

	auth, err := s.authRepo.FindByUserID(ctx, userID)
	if err != nil {
		return errors.New(errors.ErrNotFound, "用户不存在")
	}

	// 校验旧密码
	valid, err := utils.VerifyPassword(oldPassword, auth.Password)
	if err != nil || !valid {
		return errors.New(errors.ErrPasswordMismatch)
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return errors.Wrap(err, errors.ErrUnknown, "密码加密失败")
	}

	if err := s.authRepo.UpdatePassword(ctx, userID, hashed); err != nil {
		s.log.Error("更新密码失败", zap.Error(err), zap.Uint("user_id", userID))
		return errors.Wrap(err, errors.ErrDatabaseUpdate)
	}

	s.log.Info("密码修改成功", zap.Uint("user_id", userID))
	return nil
}
