package service

import (
	"context"

	"github.com/wfunc/nation-game/internal/models"
	"github.com/wfunc/nation-game/internal/repository"
)

// AuthService 认证服务接口
type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error)
	ValidateToken(ctx context.Context, token string) (*TokenClaims, error)
}

// UserService 用户服务接口
type UserService interface {
	GetProfile(ctx context.Context, userID uint) (*models.User, error)
	RequestEmailChange(ctx context.Context, userID uint, newEmail string) error
	VerifyEmailChange(ctx context.Context, token string) (*models.User, error)
	ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error
}

// NationService 国家经营服务接口
type NationService interface {
	UpdateArmy(ctx context.Context, userID uint, req *ArmyRequest) (*models.Army, error)
	GetArmy(ctx context.Context, userID uint) (*models.Army, error)
	UpdateGDP(ctx context.Context, userID uint, req *GDPRequest) (*models.GDPManagement, error)
	GetSentiment(ctx context.Context, userID uint) (*models.PublicSentiment, error)
	SetDiplomacy(ctx context.Context, userID uint, req *DiplomacyRequest) (*models.DiplomaticRelationship, error)
	ListDiplomacy(ctx context.Context, userID uint) ([]*models.DiplomaticRelationship, error)
}

// WorldService 世界地图服务接口
type WorldService interface {
	SelectCountry(ctx context.Context, userID uint, req *SelectionRequest) (*models.CountrySelection, error)
	CaptureCountry(ctx context.Context, userID uint, req *CaptureRequest) (*models.Capture, error)
	TriggerRandomEvent(ctx context.Context, userID uint) (*models.RandomEvent, error)
	GetCountryFeatures(ctx context.Context, country string) (*CountryFeatures, error)
	GetWorldMap(ctx context.Context) (*WorldMap, error)
}

// StoryService 故事服务接口
type StoryService interface {
	CreateStory(ctx context.Context, userID uint, req *StoryRequest) (*models.Story, error)
	UpdateStory(ctx context.Context, userID uint, storyID uint, req *StoryRequest) (*models.Story, error)
	DeleteStory(ctx context.Context, userID uint, storyID uint) error
	GetStory(ctx context.Context, storyID uint) (*models.Story, error)
	ListStories(ctx context.Context, page, pageSize int) ([]*models.Story, int64, error)
	SearchStories(ctx context.Context, keyword string) ([]*models.Story, error)
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username        string `json:"username" binding:"required,min=3,max=20"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=Password"`
	Nickname        string `json:"nickname"`
	IP              string `json:"-"` // 客户端IP，由handler设置
}

// LoginRequest 登录请求
type LoginRequest struct {
	Account  string `json:"account" binding:"required"` // 用户名或邮箱
	Password string `json:"password" binding:"required"`
	IP       string `json:"-"`
}

// AuthResponse 认证响应
type AuthResponse struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int64        `json:"expires_in"`
	TokenType    string       `json:"token_type"`
}

// TokenClaims JWT Claims
type TokenClaims struct {
	UserID    uint   `json:"user_id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// ArmyRequest 军队预算请求
type ArmyRequest struct {
	AirForce int64 `json:"airForce"`
	Navy     int64 `json:"navy"`
	Ground   int64 `json:"ground"`
	Nuclear  int64 `json:"nuclear"`
}

// GDPRequest 国民经济请求
// GDP数值不接受外部写入，由后台演算维护
type GDPRequest struct {
	Industries models.JSONMap `json:"industries"`
	TaxRates   models.JSONMap `json:"taxRates"`
}

// DiplomacyRequest 外交关系请求
type DiplomacyRequest struct {
	Country string `json:"country" binding:"required"`
	Status  string `json:"status" binding:"required"` // friendly, neutral, rival
}

// SelectionRequest 国家选择请求
type SelectionRequest struct {
	Country string `json:"country" binding:"required"`
	Color   string `json:"color" binding:"required"`
}

// CaptureRequest 占领国家请求
type CaptureRequest struct {
	Country string `json:"country" binding:"required"`
}

// CountryFeatures 国家全景数据
type CountryFeatures struct {
	Army        *models.Army                     `json:"army"`
	GDP         *models.GDPManagement            `json:"gdp"`
	Sentiment   *models.PublicSentiment          `json:"publicSentiment"`
	Diplomacy   []*models.DiplomaticRelationship `json:"diplomaticRelationships"`
	Selection   *models.CountrySelection         `json:"countrySelection"`
	Captures    []*models.Capture                `json:"captures"`
	RecentEvent *models.RandomEvent              `json:"recentEvent,omitempty"`
}

// WorldMap 世界地图数据，国家条目带控制者用户名
type WorldMap struct {
	Countries []*repository.CountryOwnership `json:"countries"`
	Captures  []*models.Capture              `json:"captures"`
}

// StoryRequest 故事请求
type StoryRequest struct {
	Title    string `json:"title" binding:"required,max=200"`
	Content  string `json:"content" binding:"required"`
	ImageURL string `json:"image_url"`
}
