package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/wfunc/nation-game/internal/models"
	"gorm.io/gorm"
)

// StoryRepository 故事仓储接口
type StoryRepository interface {
	BaseRepository
	Create(ctx context.Context, story *models.Story) error
	Update(ctx context.Context, story *models.Story) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*models.Story, error)
	List(ctx context.Context, pagination *Pagination) ([]*models.Story, error)
	Search(ctx context.Context, keyword string) ([]*models.Story, error)
}

// storyRepo 故事仓储实现
type storyRepo struct {
	*BaseRepo
}

// NewStoryRepository 创建故事仓储
func NewStoryRepository(db *gorm.DB) StoryRepository {
	return &storyRepo{
		BaseRepo: &BaseRepo{db: db},
	}
}

// Create 创建故事
func (r *storyRepo) Create(ctx context.Context, story *models.Story) error {
	return r.db.WithContext(ctx).Create(story).Error
}

// Update 更新故事
func (r *storyRepo) Update(ctx context.Context, story *models.Story) error {
	return r.db.WithContext(ctx).Save(story).Error
}

// Delete 删除故事（硬删除）
func (r *storyRepo) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Story{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindByID 根据ID查找故事
func (r *storyRepo) FindByID(ctx context.Context, id uint) (*models.Story, error) {
	var story models.Story
	err := r.db.WithContext(ctx).First(&story, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("故事不存在")
		}
		return nil, err
	}
	return &story, nil
}

// List 列出故事（分页，按创建时间倒序）
func (r *storyRepo) List(ctx context.Context, pagination *Pagination) ([]*models.Story, error) {
	var stories []*models.Story
	query := r.db.WithContext(ctx).Model(&models.Story{})

	var total int64
	query.Count(&total)
	pagination.Total = total

	err := query.
		Scopes(Paginate(pagination)).
		Order("created_at DESC").
		Find(&stories).Error
	return stories, err
}

// Search 按关键词搜索标题与正文（不区分大小写）
func (r *storyRepo) Search(ctx context.Context, keyword string) ([]*models.Story, error) {
	var stories []*models.Story
	pattern := "%" + strings.ToLower(keyword) + "%"
	err := r.db.WithContext(ctx).
		Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ?", pattern, pattern).
		Order("created_at DESC").
		Find(&stories).Error
	return stories, err
}

// WithTx 使用事务
func (r *storyRepo) WithTx(tx *gorm.DB) BaseRepository {
	return &storyRepo{
		BaseRepo: &BaseRepo{db: tx},
	}
}
