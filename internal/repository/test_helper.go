package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wfunc/nation-game/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB 为测试套件设置测试数据库
func SetupTestDB() *gorm.DB {
	// 使用内存数据库进行测试（更快，不需要文件系统，在所有环境中都能工作）
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		panic(err)
	}

	// 内存库限制为单连接，避免连接池各自拿到独立的空库
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}

	// 自动迁移所有模型
	err = db.AutoMigrate(
		// 用户系统
		&models.User{},
		&models.UserAuth{},

		// 国家经营
		&models.Army{},
		&models.GDPManagement{},
		&models.PublicSentiment{},
		&models.DiplomaticRelationship{},

		// 世界地图
		&models.CountrySelection{},
		&models.Capture{},
		&models.RandomEvent{},

		// 故事
		&models.Story{},
	)
	if err != nil {
		panic(err)
	}

	return db
}

// CleanupTestDB 清理测试数据库
func CleanupTestDB(db *gorm.DB) {
	// 关闭数据库连接
	sqlDB, _ := db.DB()
	if sqlDB != nil {
		sqlDB.Close()
	}
}

// SeedTestPlayer 创建测试玩家及认证信息
func SeedTestPlayer(t *testing.T, db *gorm.DB, username, email string) *models.User {
	user := &models.User{
		Username: username,
		Email:    email,
		Role:     models.RolePlayer,
		Status:   "active",
	}
	err := db.Create(user).Error
	require.NoError(t, err)

	auth := &models.UserAuth{
		UserID:   user.ID,
		Password: "$argon2id$v=19$m=65536,t=1,p=4$dGVzdA$dGVzdGhhc2g",
	}
	err = db.Create(auth).Error
	require.NoError(t, err)

	return user
}
