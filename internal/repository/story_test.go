package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/wfunc/nation-game/internal/models"
	"gorm.io/gorm"
)

// StoryRepositoryTestSuite 故事仓储测试套件
type StoryRepositoryTestSuite struct {
	suite.Suite
	db   *gorm.DB
	repo StoryRepository
}

func (suite *StoryRepositoryTestSuite) SetupTest() {
	suite.db = SetupTestDB()
	suite.repo = NewStoryRepository(suite.db)
}

func (suite *StoryRepositoryTestSuite) TearDownTest() {
	CleanupTestDB(suite.db)
}

// TestStoryRepository_Create 测试创建故事
func (suite *StoryRepositoryTestSuite) TestStoryRepository_Create() {
	ctx := context.Background()
	user := SeedTestPlayer(suite.T(), suite.db, "writer", "writer@example.com")

	story := &models.Story{
		UserID:   user.ID,
		Title:    "The Rise of Atlantis",
		Content:  "Once a small island nation...",
		ImageURL: "https://example.com/atlantis.png",
	}
	err := suite.repo.Create(ctx, story)
	assert.NoError(suite.T(), err)
	assert.NotZero(suite.T(), story.ID)

	found, err := suite.repo.FindByID(ctx, story.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), story.Title, found.Title)
	assert.Equal(suite.T(), story.Content, found.Content)
}

// TestStoryRepository_Update 测试更新故事
func (suite *StoryRepositoryTestSuite) TestStoryRepository_Update() {
	ctx := context.Background()
	user := SeedTestPlayer(suite.T(), suite.db, "editor", "editor@example.com")

	story := &models.Story{UserID: user.ID, Title: "Draft", Content: "wip"}
	err := suite.repo.Create(ctx, story)
	assert.NoError(suite.T(), err)

	story.Title = "Final"
	story.Content = "done"
	err = suite.repo.Update(ctx, story)
	assert.NoError(suite.T(), err)

	found, err := suite.repo.FindByID(ctx, story.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Final", found.Title)
	assert.Equal(suite.T(), "done", found.Content)
}

// TestStoryRepository_Delete 测试删除故事
func (suite *StoryRepositoryTestSuite) TestStoryRepository_Delete() {
	ctx := context.Background()
	user := SeedTestPlayer(suite.T(), suite.db, "deleter", "deleter@example.com")

	story := &models.Story{UserID: user.ID, Title: "Doomed", Content: "gone soon"}
	err := suite.repo.Create(ctx, story)
	assert.NoError(suite.T(), err)

	err = suite.repo.Delete(ctx, story.ID)
	assert.NoError(suite.T(), err)

	_, err = suite.repo.FindByID(ctx, story.ID)
	assert.Error(suite.T(), err)

	// 删除不存在的故事
	err = suite.repo.Delete(ctx, 9999)
	assert.ErrorIs(suite.T(), err, gorm.ErrRecordNotFound)
}

// TestStoryRepository_List 测试分页列出故事
func (suite *StoryRepositoryTestSuite) TestStoryRepository_List() {
	ctx := context.Background()
	user := SeedTestPlayer(suite.T(), suite.db, "lister", "lister@example.com")

	for i := 0; i < 15; i++ {
		err := suite.repo.Create(ctx, &models.Story{
			UserID:  user.ID,
			Title:   fmt.Sprintf("Story %d", i),
			Content: "content",
		})
		assert.NoError(suite.T(), err)
	}

	pagination := NewPagination(1, 10)
	stories, err := suite.repo.List(ctx, pagination)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), stories, 10)
	assert.Equal(suite.T(), int64(15), pagination.Total)

	pagination = NewPagination(2, 10)
	stories, err = suite.repo.List(ctx, pagination)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), stories, 5)
}

// TestStoryRepository_Search 测试不区分大小写的关键词搜索
func (suite *StoryRepositoryTestSuite) TestStoryRepository_Search() {
	ctx := context.Background()
	user := SeedTestPlayer(suite.T(), suite.db, "searcher", "searcher@example.com")

	stories := []*models.Story{
		{UserID: user.ID, Title: "The Great War", Content: "armies clashed"},
		{UserID: user.ID, Title: "Peace Treaty", Content: "the WAR finally ended"},
		{UserID: user.ID, Title: "Harvest Season", Content: "grain and gold"},
	}
	for _, s := range stories {
		assert.NoError(suite.T(), suite.repo.Create(ctx, s))
	}

	// 标题与正文都参与匹配，大小写不敏感
	results, err := suite.repo.Search(ctx, "war")
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), results, 2)

	results, err = suite.repo.Search(ctx, "GOLD")
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), results, 1)
	assert.Equal(suite.T(), "Harvest Season", results[0].Title)

	// 无匹配
	results, err = suite.repo.Search(ctx, "dragon")
	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), results)

	// 空关键词匹配全部
	results, err = suite.repo.Search(ctx, "")
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), results, 3)
}

func TestStoryRepositorySuite(t *testing.T) {
	suite.Run(t, new(StoryRepositoryTestSuite))
}
