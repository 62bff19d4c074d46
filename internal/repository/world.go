package repository

import (
	"context"
	"errors"

	"github.com/wfunc/nation-game/internal/models"
	"gorm.io/gorm"
)

// CountryOwnership 世界地图投影行，国家选择与控制者用户名的联查结果
type CountryOwnership struct {
	Name         string `json:"name"`
	ControlledBy string `json:"controlledBy"`
	Color        string `json:"color"`
}

// SelectionRepository 国家选择仓储接口
type SelectionRepository interface {
	BaseRepository
	Create(ctx context.Context, selection *models.CountrySelection) error
	FindByUserID(ctx context.Context, userID uint) (*models.CountrySelection, error)
	FindByCountry(ctx context.Context, country string) (*models.CountrySelection, error)
	CountryExists(ctx context.Context, country string) (bool, error)
	ColorExists(ctx context.Context, color string) (bool, error)
	ListOwnership(ctx context.Context) ([]*CountryOwnership, error)
}

// selectionRepo 国家选择仓储实现
type selectionRepo struct {
	*BaseRepo
}

// NewSelectionRepository 创建国家选择仓储
func NewSelectionRepository(db *gorm.DB) SelectionRepository {
	return &selectionRepo{
		BaseRepo: &BaseRepo{db: db},
	}
}

// Create 创建国家选择记录
// country和color各有唯一索引，冲突由数据库返回gorm.ErrDuplicatedKey
func (r *selectionRepo) Create(ctx context.Context, selection *models.CountrySelection) error {
	return r.db.WithContext(ctx).Create(selection).Error
}

// FindByUserID 查找用户的国家选择
func (r *selectionRepo) FindByUserID(ctx context.Context, userID uint) (*models.CountrySelection, error) {
	var selection models.CountrySelection
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		First(&selection).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("国家选择不存在")
		}
		return nil, err
	}
	return &selection, nil
}

// FindByCountry 按国家名查找选择记录
func (r *selectionRepo) FindByCountry(ctx context.Context, country string) (*models.CountrySelection, error) {
	var selection models.CountrySelection
	err := r.db.WithContext(ctx).
		Where("country = ?", country).
		First(&selection).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("国家选择不存在")
		}
		return nil, err
	}
	return &selection, nil
}

// CountryExists 检查国家是否已被选择
func (r *selectionRepo) CountryExists(ctx context.Context, country string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CountrySelection{}).
		Where("country = ?", country).
		Count(&count).Error
	return count > 0, err
}

// ColorExists 检查颜色是否已被占用
func (r *selectionRepo) ColorExists(ctx context.Context, color string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CountrySelection{}).
		Where("color = ?", color).
		Count(&count).Error
	return count > 0, err
}

// ListOwnership 列出全部国家及控制者用户名（世界地图用）
func (r *selectionRepo) ListOwnership(ctx context.Context) ([]*CountryOwnership, error) {
	var rows []*CountryOwnership
	err := r.db.WithContext(ctx).
		Model(&models.CountrySelection{}).
		Select("country_selections.country AS name, users.username AS controlled_by, country_selections.color").
		Joins("JOIN users ON users.id = country_selections.user_id").
		Order("country_selections.id ASC").
		Scan(&rows).Error
	return rows, err
}

// WithTx 使用事务
func (r *selectionRepo) WithTx(tx *gorm.DB) BaseRepository {
	return &selectionRepo{
		BaseRepo: &BaseRepo{db: tx},
	}
}

// CaptureRepository 占领记录仓储接口
type CaptureRepository interface {
	BaseRepository
	Create(ctx context.Context, capture *models.Capture) error
	ListByUser(ctx context.Context, userID uint) ([]*models.Capture, error)
	ListAll(ctx context.Context) ([]*models.Capture, error)
}

// captureRepo 占领记录仓储实现
type captureRepo struct {
	*BaseRepo
}

// NewCaptureRepository 创建占领记录仓储
func NewCaptureRepository(db *gorm.DB) CaptureRepository {
	return &captureRepo{
		BaseRepo: &BaseRepo{db: db},
	}
}

// Create 创建占领记录
// (user_id, country)复合唯一，重复占领由数据库返回gorm.ErrDuplicatedKey
func (r *captureRepo) Create(ctx context.Context, capture *models.Capture) error {
	return r.db.WithContext(ctx).Create(capture).Error
}

// ListByUser 列出用户的占领记录
func (r *captureRepo) ListByUser(ctx context.Context, userID uint) ([]*models.Capture, error) {
	var captures []*models.Capture
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&captures).Error
	return captures, err
}

// ListAll 列出全部占领记录（世界地图用）
func (r *captureRepo) ListAll(ctx context.Context) ([]*models.Capture, error) {
	var captures []*models.Capture
	err := r.db.WithContext(ctx).
		Order("id ASC").
		Find(&captures).Error
	return captures, err
}

// WithTx 使用事务
func (r *captureRepo) WithTx(tx *gorm.DB) BaseRepository {
	return &captureRepo{
		BaseRepo: &BaseRepo{db: tx},
	}
}

// EventRepository 随机事件仓储接口
type EventRepository interface {
	BaseRepository
	Create(ctx context.Context, event *models.RandomEvent) error
	ListByUser(ctx context.Context, userID uint, pagination *Pagination) ([]*models.RandomEvent, error)
}

// eventRepo 随机事件仓储实现
type eventRepo struct {
	*BaseRepo
}

// NewEventRepository 创建随机事件仓储
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepo{
		BaseRepo: &BaseRepo{db: db},
	}
}

// Create 创建随机事件（事件只追加，不修改）
func (r *eventRepo) Create(ctx context.Context, event *models.RandomEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// ListByUser 列出用户的随机事件（按时间倒序）
func (r *eventRepo) ListByUser(ctx context.Context, userID uint, pagination *Pagination) ([]*models.RandomEvent, error) {
	var events []*models.RandomEvent
	query := r.db.WithContext(ctx).
		Model(&models.RandomEvent{}).
		Where("user_id = ?", userID)

	var total int64
	query.Count(&total)
	pagination.Total = total

	err := query.
		Scopes(Paginate(pagination)).
		Order("created_at DESC").
		Find(&events).Error
	return events, err
}

// WithTx 使用事务
func (r *eventRepo) WithTx(tx *gorm.DB) BaseRepository {
	return &eventRepo{
		BaseRepo: &BaseRepo{db: tx},
	}
}
