package repository

import (
	"context"
	"errors"

	"github.com/wfunc/nation-game/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ArmyRepository 军队预算仓储接口
type ArmyRepository interface {
	BaseRepository
	Create(ctx context.Context, army *models.Army) error
	Update(ctx context.Context, army *models.Army) error
	FindByUserID(ctx context.Context, userID uint) (*models.Army, error)
}

// armyRepo 军队预算仓储实现
type armyRepo struct {
	*BaseRepo
}

// NewArmyRepository 创建军队预算仓储
func NewArmyRepository(db *gorm.DB) ArmyRepository {
	return &armyRepo{
		BaseRepo: &BaseRepo{db: db},
	}
}

// Create 创建军队预算记录
func (r *armyRepo) Create(ctx context.Context, army *models.Army) error {
	return r.db.WithContext(ctx).Create(army).Error
}

// Update 按主键覆盖写入四项预算，零值也写入
func (r *armyRepo) Update(ctx context.Context, army *models.Army) error {
	return r.db.WithContext(ctx).
		Model(&models.Army{}).
		Where("id = ?", army.ID).
		Updates(map[string]interface{}{
			"air_force": army.AirForce,
			"navy":      army.Navy,
			"ground":    army.Ground,
			"nuclear":   army.Nuclear,
		}).Error
}

// FindByUserID 查找用户的军队预算
func (r *armyRepo) FindByUserID(ctx context.Context, userID uint) (*models.Army, error) {
	var army models.Army
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&army).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("军队预算不存在")
		}
		return nil, err
	}
	return &army, nil
}

// WithTx 使用事务
func (r *armyRepo) WithTx(tx *gorm.DB) BaseRepository {
	return &armyRepo{
		BaseRepo: &BaseRepo{db: tx},
	}
}

// GDPRepository 国民经济仓储接口
type GDPRepository interface {
	BaseRepository
	Create(ctx context.Context, gdp *models.GDPManagement) error
	UpdateAllByUser(ctx context.Context, userID uint, industries, taxRates models.JSONMap) (int64, error)
	FindFirstByUser(ctx context.Context, userID uint) (*models.GDPManagement, error)
}

// gdpRepo 国民经济仓储实现
type gdpRepo struct {
	*BaseRepo
}

// NewGDPRepository 创建国民经济仓储
func NewGDPRepository(db *gorm.DB) GDPRepository {
	return &gdpRepo{
		BaseRepo: &BaseRepo{db: db},
	}
}

// Create 创建国民经济记录
func (r *gdpRepo) Create(ctx context.Context, gdp *models.GDPManagement) error {
	return r.db.WithContext(ctx).Create(gdp).Error
}

// UpdateAllByUser 批量更新用户全部经济记录的产业与税率，返回更新行数
// GDP数值由后台演算维护，这里不改写
func (r *gdpRepo) UpdateAllByUser(ctx context.Context, userID uint, industries, taxRates models.JSONMap) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.GDPManagement{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"industries": industries,
			"tax_rates":  taxRates,
		})
	return result.RowsAffected, result.Error
}

// FindFirstByUser 查找用户的第一条经济记录
func (r *gdpRepo) FindFirstByUser(ctx context.Context, userID uint) (*models.GDPManagement, error) {
	var gdp models.GDPManagement
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		First(&gdp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("经济记录不存在")
		}
		return nil, err
	}
	return &gdp, nil
}

// WithTx 使用事务
func (r *gdpRepo) WithTx(tx *gorm.DB) BaseRepository {
	return &gdpRepo{
		BaseRepo: &BaseRepo{db: tx},
	}
}

// SentimentRepository 民意仓储接口
type SentimentRepository interface {
	BaseRepository
	Create(ctx context.Context, sentiment *models.PublicSentiment) error
	FindByUserID(ctx context.Context, userID uint) (*models.PublicSentiment, error)
}

// sentimentRepo 民意仓储实现
type sentimentRepo struct {
	*BaseRepo
}

// NewSentimentRepository 创建民意仓储
func NewSentimentRepository(db *gorm.DB) SentimentRepository {
	return &sentimentRepo{
		BaseRepo: &BaseRepo{db: db},
	}
}

// Create 创建民意记录
func (r *sentimentRepo) Create(ctx context.Context, sentiment *models.PublicSentiment) error {
	return r.db.WithContext(ctx).Create(sentiment).Error
}

// FindByUserID 查找用户的民意记录
func (r *sentimentRepo) FindByUserID(ctx context.Context, userID uint) (*models.PublicSentiment, error) {
	var sentiment models.PublicSentiment
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		First(&sentiment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("民意记录不存在")
		}
		return nil, err
	}
	return &sentiment, nil
}

// WithTx 使用事务
func (r *sentimentRepo) WithTx(tx *gorm.DB) BaseRepository {
	return &sentimentRepo{
		BaseRepo: &BaseRepo{db: tx},
	}
}

// DiplomacyRepository 外交关系仓储接口
type DiplomacyRepository interface {
	BaseRepository
	UpsertStatus(ctx context.Context, rel *models.DiplomaticRelationship) error
	FindByUserAndCountry(ctx context.Context, userID uint, country string) (*models.DiplomaticRelationship, error)
	ListByUser(ctx context.Context, userID uint) ([]*models.DiplomaticRelationship, error)
}

// diplomacyRepo 外交关系仓储实现
type diplomacyRepo struct {
	*BaseRepo
}

// NewDiplomacyRepository 创建外交关系仓储
func NewDiplomacyRepository(db *gorm.DB) DiplomacyRepository {
	return &diplomacyRepo{
		BaseRepo: &BaseRepo{db: db},
	}
}

// UpsertStatus 按(user_id, country)插入或更新外交状态
// 并发插入同一组合时由唯一约束裁决，冲突方转为更新
func (r *diplomacyRepo) UpsertStatus(ctx context.Context, rel *models.DiplomaticRelationship) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "country"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "updated_at"}),
		}).
		Create(rel).Error
}

// FindByUserAndCountry 查找指定用户与国家的外交关系
func (r *diplomacyRepo) FindByUserAndCountry(ctx context.Context, userID uint, country string) (*models.DiplomaticRelationship, error) {
	var rel models.DiplomaticRelationship
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND country = ?", userID, country).
		First(&rel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("外交关系不存在")
		}
		return nil, err
	}
	return &rel, nil
}

// ListByUser 列出用户的全部外交关系
func (r *diplomacyRepo) ListByUser(ctx context.Context, userID uint) ([]*models.DiplomaticRelationship, error) {
	var rels []*models.DiplomaticRelationship
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("country ASC").
		Find(&rels).Error
	return rels, err
}

// WithTx 使用事务
func (r *diplomacyRepo) WithTx(tx *gorm.DB) BaseRepository {
	return &diplomacyRepo{
		BaseRepo: &BaseRepo{db: tx},
	}
}
