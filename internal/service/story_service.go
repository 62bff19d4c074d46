package service

import (
	"context"
	"strings"

	"github.com/wfunc/nation-game/internal/errors"
	"github.com/wfunc/nation-game/internal/models"
	"github.com/wfunc/nation-game/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// storyService 故事服务实现
type storyService struct {
	db        *gorm.DB
	storyRepo repository.StoryRepository
	log       *zap.Logger
}

// NewStoryService 创建故事服务
func NewStoryService(db *gorm.DB, storyRepo repository.StoryRepository, log *zap.Logger) StoryService {
	return &storyService{
		db:        db,
		storyRepo: storyRepo,
		log:       log,
	}
}

// CreateStory 创建故事
func (s *storyService) CreateStory(ctx context.Context, userID uint, req *StoryRequest) (*models.Story, error) {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		return nil, errors.New(errors.ErrInvalidParam, "标题和正文不能为空")
	}

	story := &models.Story{
		UserID:   userID,
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.ImageURL,
	}

	if err := s.storyRepo.Create(ctx, story); err != nil {
		s.log.Error("创建故事失败", zap.Error(err), zap.Uint("user_id", userID))
		return nil, errors.Wrap(err, errors.ErrDatabaseInsert)
	}

	s.log.Info("故事创建成功", zap.Uint("story_id", story.ID), zap.Uint("user_id", userID))
	return story, nil
}

// UpdateStory 更新故事（只允许作者修改）
func (s *storyService) UpdateStory(ctx context.Context, userID uint, storyID uint, req *StoryRequest) (*models.Story, error) {
	story, err := s.storyRepo.FindByID(ctx, storyID)
	if err != nil {
		return nil, errors.New(errors.ErrStoryNotFound)
	}

	if story.UserID != userID {
		return nil, errors.New(errors.ErrNotStoryOwner)
	}

	story.Title = req.Title
	story.Content = req.Content
	story.ImageURL = req.ImageURL

	if err := s.storyRepo.Update(ctx, story); err != nil {
		s.log.Error("更新故事失败", zap.Error(err), zap.Uint("story_id", storyID))
		return nil, errors.Wrap(err, errors.ErrDatabaseUpdate)
	}

	return story, nil
}

// DeleteStory 删除故事（只允许作者删除）
func (s *storyService) DeleteStory(ctx context.Context, userID uint, storyID uint) error {
	story, err := s.storyRepo.FindByID(ctx, storyID)
	if err != nil {
		return errors.New(errors.ErrStoryNotFound)
	}

	if story.UserID != userID {
		return errors.New(errors.ErrNotStoryOwner)
	}

	if err := s.storyRepo.Delete(ctx, storyID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.New(errors.ErrStoryNotFound)
		}
		s.log.Error("删除故事失败", zap.Error(err), zap.Uint("story_id", storyID))
		return errors.Wrap(err, errors.ErrDatabaseDelete)
	}

	s.log.Info("故事已删除", zap.Uint("story_id", storyID), zap.Uint("user_id", userID))
	return nil
}

// GetStory 查询单个故事
func (s *storyService) GetStory(ctx context.Context, storyID uint) (*models.Story, error) {
	story, err := s.storyRepo.FindByID(ctx, storyID)
	if err != nil {
		return nil, errors.New(errors.ErrStoryNotFound)
	}
	return story, nil
}

// ListStories 分页列出故事
func (s *storyService) ListStories(ctx context.Context, page, pageSize int) ([]*models.Story, int64, error) {
	pagination := repository.NewPagination(page, pageSize)
	stories, err := s.storyRepo.List(ctx, pagination)
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrDatabaseQuery)
	}
	return stories, pagination.Total, nil
}

// SearchStories 按关键词搜索故事
// 空关键词匹配全部故事
func (s *storyService) SearchStories(ctx context.Context, keyword string) ([]*models.Story, error) {
	stories, err := s.storyRepo.Search(ctx, keyword)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrDatabaseQuery)
	}
	return stories, nil
}
