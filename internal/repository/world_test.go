package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/wfunc/nation-game/internal/models"
	"gorm.io/gorm"
)

// WorldRepositoryTestSuite 世界地图仓储测试套件
type WorldRepositoryTestSuite struct {
	suite.Suite
	db            *gorm.DB
	selectionRepo SelectionRepository
	captureRepo   CaptureRepository
	eventRepo     EventRepository
}

func (suite *WorldRepositoryTestSuite) SetupTest() {
	suite.db = SetupTestDB()
	suite.selectionRepo = NewSelectionRepository(suite.db)
	suite.captureRepo = NewCaptureRepository(suite.db)
	suite.eventRepo = NewEventRepository(suite.db)
}

func (suite *WorldRepositoryTestSuite) TearDownTest() {
	CleanupTestDB(suite.db)
}

// TestSelectionRepository_Create 测试创建国家选择
func (suite *WorldRepositoryTestSuite) TestSelectionRepository_Create() {
	ctx := context.Background()
	user := SeedTestPlayer(suite.T(), suite.db, "seluser", "sel@example.com")

	err := suite.selectionRepo.Create(ctx, &models.CountrySelection{
		UserID:  user.ID,
		Country: "Atlantis",
		Color:   "red",
	})
	assert.NoError(suite.T(), err)

	found, err := suite.selectionRepo.FindByUserID(ctx, user.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Atlantis", found.Country)
	assert.Equal(suite.T(), "red", found.Color)
}

// TestSelectionRepository_DuplicateColor 测试颜色唯一约束
func (suite *WorldRepositoryTestSuite) TestSelectionRepository_DuplicateColor() {
	ctx := context.Background()
	alice := SeedTestPlayer(suite.T(), suite.db, "alice", "alice@example.com")
	bob := SeedTestPlayer(suite.T(), suite.db, "bob", "bob@example.com")

	err := suite.selectionRepo.Create(ctx, &models.CountrySelection{
		UserID: alice.ID, Country: "Atlantis", Color: "red",
	})
	assert.NoError(suite.T(), err)

	// 另一个用户选相同颜色
	err = suite.selectionRepo.Create(ctx, &models.CountrySelection{
		UserID: bob.ID, Country: "Sparta", Color: "red",
	})
	assert.ErrorIs(suite.T(), err, gorm.ErrDuplicatedKey)

	taken, err := suite.selectionRepo.ColorExists(ctx, "red")
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), taken)
}

// TestSelectionRepository_DuplicateCountry 测试国家唯一约束
func (suite *WorldRepositoryTestSuite) TestSelectionRepository_DuplicateCountry() {
	ctx := context.Background()
	alice := SeedTestPlayer(suite.T(), suite.db, "alice2", "alice2@example.com")
	bob := SeedTestPlayer(suite.T(), suite.db, "bob2", "bob2@example.com")

	err := suite.selectionRepo.Create(ctx, &models.CountrySelection{
		UserID: alice.ID, Country: "Atlantis", Color: "red",
	})
	assert.NoError(suite.T(), err)

	// 另一个用户选相同国家
	err = suite.selectionRepo.Create(ctx, &models.CountrySelection{
		UserID: bob.ID, Country: "Atlantis", Color: "blue",
	})
	assert.ErrorIs(suite.T(), err, gorm.ErrDuplicatedKey)

	taken, err := suite.selectionRepo.CountryExists(ctx, "Atlantis")
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), taken)
}

// TestSelectionRepository_ConcurrentCreate 测试并发创建只有一个成功
func (suite *WorldRepositoryTestSuite) TestSelectionRepository_ConcurrentCreate() {
	ctx := context.Background()

	users := make([]*models.User, 5)
	for i := range users {
		users[i] = SeedTestPlayer(suite.T(), suite.db,
			fmt.Sprintf("concurrent%d", i), fmt.Sprintf("concurrent%d@example.com", i))
	}

	// 5个用户同时抢同一个颜色
	var wg sync.WaitGroup
	errs := make([]error, len(users))
	for i, u := range users {
		wg.Add(1)
		go func(idx int, userID uint) {
			defer wg.Done()
			errs[idx] = suite.selectionRepo.Create(ctx, &models.CountrySelection{
				UserID:  userID,
				Country: fmt.Sprintf("Country-%d", idx),
				Color:   "gold",
			})
		}(i, u.ID)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		}
	}
	assert.Equal(suite.T(), 1, succeeded, "唯一约束下只应有一个用户抢到颜色")

	var count int64
	suite.db.Model(&models.CountrySelection{}).Where("color = ?", "gold").Count(&count)
	assert.Equal(suite.T(), int64(1), count)
}

// TestCaptureRepository_Create 测试创建占领记录
func (suite *WorldRepositoryTestSuite) TestCaptureRepository_Create() {
	ctx := context.Background()
	user := SeedTestPlayer(suite.T(), suite.db, "capuser", "cap@example.com")

	err := suite.captureRepo.Create(ctx, &models.Capture{
		UserID:    user.ID,
		Country:   "Sparta",
		Resources: models.JSONMap{"gold": 100.0, "oil": 50.0},
	})
	assert.NoError(suite.T(), err)

	captures, err := suite.captureRepo.ListByUser(ctx, user.ID)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), captures, 1)
	assert.Equal(suite.T(), "Sparta", captures[0].Country)
	assert.Equal(suite.T(), 100.0, captures[0].Resources["gold"])
	assert.Equal(suite.T(), 50.0, captures[0].Resources["oil"])
}

// TestCaptureRepository_DuplicateCapture 测试重复占领同一国家
func (suite *WorldRepositoryTestSuite) TestCaptureRepository_DuplicateCapture() {
	ctx := context.Background()
	user := SeedTestPlayer(suite.T(), suite.db, "dupcap", "dupcap@example.com")

	err := suite.captureRepo.Create(ctx, &models.Capture{
		UserID: user.ID, Country: "Sparta",
	})
	assert.NoError(suite.T(), err)

	// 同一用户重复占领
	err = suite.captureRepo.Create(ctx, &models.Capture{
		UserID: user.ID, Country: "Sparta",
	})
	assert.ErrorIs(suite.T(), err, gorm.ErrDuplicatedKey)

	// 不同用户占领同一国家不受限制
	other := SeedTestPlayer(suite.T(), suite.db, "othercap", "othercap@example.com")
	err = suite.captureRepo.Create(ctx, &models.Capture{
		UserID: other.ID, Country: "Sparta",
	})
	assert.NoError(suite.T(), err)
}

// TestEventRepository_CreateAndList 测试随机事件的追加与查询
func (suite *WorldRepositoryTestSuite) TestEventRepository_CreateAndList() {
	ctx := context.Background()
	user := SeedTestPlayer(suite.T(), suite.db, "eventuser", "event@example.com")

	events := []*models.RandomEvent{
		{UserID: user.ID, EventType: models.EventAttack, Impact: models.JSONMap{"damage": 42.0}},
		{UserID: user.ID, EventType: models.EventDisaster, Impact: models.JSONMap{"severity": 13.0}},
		{UserID: user.ID, EventType: models.EventEconomicShift, Impact: models.JSONMap{"change": 77.0}},
	}
	for _, e := range events {
		err := suite.eventRepo.Create(ctx, e)
		assert.NoError(suite.T(), err)
	}

	pagination := NewPagination(1, 10)
	list, err := suite.eventRepo.ListByUser(ctx, user.ID, pagination)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), list, 3)
	assert.Equal(suite.T(), int64(3), pagination.Total)
}

// TestWorldMap_Ownership 测试世界地图联查投影
func (suite *WorldRepositoryTestSuite) TestWorldMap_Ownership() {
	ctx := context.Background()
	alice := SeedTestPlayer(suite.T(), suite.db, "mapalice", "mapalice@example.com")
	bob := SeedTestPlayer(suite.T(), suite.db, "mapbob", "mapbob@example.com")

	assert.NoError(suite.T(), suite.selectionRepo.Create(ctx, &models.CountrySelection{
		UserID: alice.ID, Country: "Avalon", Color: "red",
	}))
	assert.NoError(suite.T(), suite.selectionRepo.Create(ctx, &models.CountrySelection{
		UserID: bob.ID, Country: "Byzantium", Color: "blue",
	}))
	assert.NoError(suite.T(), suite.captureRepo.Create(ctx, &models.Capture{
		UserID: alice.ID, Country: "Carthage",
	}))

	rows, err := suite.selectionRepo.ListOwnership(ctx)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), rows, 2)
	assert.Equal(suite.T(), "Avalon", rows[0].Name)
	assert.Equal(suite.T(), "mapalice", rows[0].ControlledBy)
	assert.Equal(suite.T(), "red", rows[0].Color)
	assert.Equal(suite.T(), "mapbob", rows[1].ControlledBy)

	selection, err := suite.selectionRepo.FindByCountry(ctx, "Byzantium")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), bob.ID, selection.UserID)

	_, err = suite.selectionRepo.FindByCountry(ctx, "Nowhere")
	assert.Error(suite.T(), err)

	captures, err := suite.captureRepo.ListAll(ctx)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), captures, 1)
}

func TestWorldRepositorySuite(t *testing.T) {
	suite.Run(t, new(WorldRepositoryTestSuite))
}
