package service

import (
	"time"

	"github.com/wfunc/nation-game/internal/mailer"
	"github.com/wfunc/nation-game/internal/repository"
	"github.com/wfunc/nation-game/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Config 服务配置
type Config struct {
	JWTSecret          string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	return &Config{
		JWTSecret:          "your-secret-key-change-in-production",
		AccessTokenExpiry:  24 * time.Hour,
		RefreshTokenExpiry: 7 * 24 * time.Hour,
	}
}

// Services 服务集合
type Services struct {
	Auth   AuthService
	User   UserService
	Nation NationService
	World  WorldService
	Story  StoryService
}

// NewServices 创建服务集合
func NewServices(db *gorm.DB, config *Config, mail mailer.Mailer, notify MapNotifier, log *zap.Logger) *Services {
	// 初始化仓储
	userRepo := repository.NewUserRepository(db)
	authRepo := repository.NewUserAuthRepository(db)
	armyRepo := repository.NewArmyRepository(db)
	gdpRepo := repository.NewGDPRepository(db)
	sentimentRepo := repository.NewSentimentRepository(db)
	diplomacyRepo := repository.NewDiplomacyRepository(db)
	selectionRepo := repository.NewSelectionRepository(db)
	captureRepo := repository.NewCaptureRepository(db)
	eventRepo := repository.NewEventRepository(db)
	storyRepo := repository.NewStoryRepository(db)

	// 初始化JWT管理器
	jwtManager := utils.NewJWTManager(
		config.JWTSecret,
		config.AccessTokenExpiry,
		config.RefreshTokenExpiry,
	)

	if mail == nil {
		mail = mailer.NewNopMailer()
	}

	// 初始化服务
	authService := NewAuthService(db, userRepo, authRepo, jwtManager, log)
	userService := NewUserService(db, userRepo, authRepo, mail, log)
	nationService := NewNationService(db, userRepo, armyRepo, gdpRepo, sentimentRepo, diplomacyRepo, log)
	worldService := NewWorldService(
		db,
		userRepo,
		selectionRepo,
		captureRepo,
		eventRepo,
		armyRepo,
		gdpRepo,
		sentimentRepo,
		diplomacyRepo,
		mail,
		notify,
		log,
	)
	storyService := NewStoryService(db, storyRepo, log)

	return &Services{
		Auth:   authService,
		User:   userService,
		Nation: nationService,
		World:  worldService,
		Story:  storyService,
	}
}
