package models

import (
	"time"

	"gorm.io/gorm"
)

// 用户角色
const (
	RolePlayer = "player"
	RoleUser   = "user"
	RoleAdmin  = "admin"
)

// User 用户基础信息表
type User struct {
	BaseModel
	Username    string     `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Nickname    string     `gorm:"size:100" json:"nickname"`
	Email       string     `gorm:"uniqueIndex;size:100" json:"email"`
	Role        string     `gorm:"size:20;default:'player'" json:"role"` // player, user, admin
	Bio         string     `gorm:"size:500" json:"bio"`
	Status      string     `gorm:"size:20;default:'active'" json:"status"` // active, frozen, banned
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	LastLoginIP string     `gorm:"size:50" json:"last_login_ip"`

	// 待验证的新邮箱：确认前正式邮箱不变
	PendingEmail     string `gorm:"size:100" json:"pending_email,omitempty"`
	EmailVerifyToken string `gorm:"size:64;index" json:"-"`

	// 关联（注意：不直接嵌入子表，避免循环依赖）
	Auth UserAuth `gorm:"foreignKey:UserID" json:"-"`
}

// UserAuth 用户认证信息表
type UserAuth struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	UserID        uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	Password      string     `gorm:"size:255;not null" json:"-"`
	LoginAttempts int        `gorm:"default:0" json:"login_attempts"`
	LastAttemptAt *time.Time `json:"last_attempt_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TableName 指定User表名
func (User) TableName() string {
	return "users"
}

// BeforeCreate 创建前的钩子
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.Nickname == "" {
		u.Nickname = u.Username
	}
	if u.Role == "" {
		u.Role = RolePlayer
	}
	if u.Status == "" {
		u.Status = "active"
	}
	return nil
}

// IsPlayer 检查用户是否为玩家角色
func (u *User) IsPlayer() bool {
	return u.Role == RolePlayer
}

// IsActive 检查用户是否激活
func (u *User) IsActive() bool {
	return u.Status == "active"
}

// UpdateLoginInfo 更新登录信息
func (u *User) UpdateLoginInfo(ip string) {
	now := time.Now()
	u.LastLoginAt = &now
	u.LastLoginIP = ip
}
