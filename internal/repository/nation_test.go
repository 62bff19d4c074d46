package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/wfunc/nation-game/internal/models"
	"gorm.io/gorm"
)

// NationRepositoryTestSuite 国家经营仓储测试套件
type NationRepositoryTestSuite struct {
	suite.Suite
	db            *gorm.DB
	armyRepo      ArmyRepository
	gdpRepo       GDPRepository
	sentimentRepo SentimentRepository
	diplomacyRepo DiplomacyRepository
}

func (suite *NationRepositoryTestSuite) SetupTest() {
	suite.db = SetupTestDB()
	suite.armyRepo = NewArmyRepository(suite.db)
	suite.gdpRepo = NewGDPRepository(suite.db)
	suite.sentimentRepo = NewSentimentRepository(suite.db)
	suite.diplomacyRepo = NewDiplomacyRepository(suite.db)
}

func (suite *NationRepositoryTestSuite) TearDownTest() {
	CleanupTestDB(suite.db)
}

// TestArmyRepository_Update 测试军队预算覆盖写入
func (suite *NationRepositoryTestSuite) TestArmyRepository_Update() {
	ctx := context.Background()
	user := SeedTestPlayer(suite.T(), suite.db, "armyuser", "army@example.com")

	err := suite.armyRepo.Create(ctx, &models.Army{
		UserID:   user.ID,
		AirForce: 100,
		Navy:     200,
		Ground:   300,
		Nuclear:  10,
	})
	assert.NoError(suite.T(), err)

	found, err := suite.armyRepo.FindByUserID(ctx, user.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(100), found.AirForce)

	// 覆盖写入，零值同样生效
	found.AirForce = 500
	found.Navy = 0
	found.Ground = 0
	found.Nuclear = 0
	err = suite.armyRepo.Update(ctx, found)
	assert.NoError(suite.T(), err)

	found, err = suite.armyRepo.FindByUserID(ctx, user.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(500), found.AirForce)
	assert.Equal(suite.T(), int64(0), found.Navy)

	var count int64
	suite.db.Model(&models.Army{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(suite.T(), int64(1), count)
}

// TestArmyRepository_NotFound 测试查找不存在的预算
func (suite *NationRepositoryTestSuite) TestArmyRepository_NotFound() {
	ctx := context.Background()

	_, err := suite.armyRepo.FindByUserID(ctx, 9999)
	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "军队预算不存在")
}

// TestGDPRepository_UpdateThenRead 测试批量更新后重读
func (suite *NationRepositoryTestSuite) TestGDPRepository_UpdateThenRead() {
	ctx := context.Background()
	user := SeedTestPlayer(suite.T(), suite.db, "gdpuser", "gdp@example.com")

	// 无记录时批量更新影响0行
	affected, err := suite.gdpRepo.UpdateAllByUser(ctx, user.ID, nil, nil)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(0), affected)

	// 创建两条记录
	err = suite.gdpRepo.Create(ctx, &models.GDPManagement{UserID: user.ID, GDP: 100})
	assert.NoError(suite.T(), err)
	err = suite.gdpRepo.Create(ctx, &models.GDPManagement{UserID: user.ID, GDP: 200})
	assert.NoError(suite.T(), err)

	// 批量更新覆盖该用户全部记录，GDP数值保持不变
	industries := models.JSONMap{"steel": 40.0, "tech": 60.0}
	taxRates := models.JSONMap{"income": 0.2}
	affected, err = suite.gdpRepo.UpdateAllByUser(ctx, user.ID, industries, taxRates)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(2), affected)

	// 重读第一条
	first, err := suite.gdpRepo.FindFirstByUser(ctx, user.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(100), first.GDP)
	assert.Equal(suite.T(), 0.2, first.TaxRates["income"])
}

// TestSentimentRepository_Read 测试读取民意
func (suite *NationRepositoryTestSuite) TestSentimentRepository_Read() {
	ctx := context.Background()
	user := SeedTestPlayer(suite.T(), suite.db, "sentuser", "sent@example.com")

	err := suite.sentimentRepo.Create(ctx, &models.PublicSentiment{
		UserID:    user.ID,
		Sentiment: 42.5,
		Rebellion: true,
	})
	assert.NoError(suite.T(), err)

	found, err := suite.sentimentRepo.FindByUserID(ctx, user.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 42.5, found.Sentiment)
	assert.True(suite.T(), found.Rebellion)

	// 没有记录的用户
	_, err = suite.sentimentRepo.FindByUserID(ctx, 9999)
	assert.Error(suite.T(), err)
}

// TestDiplomacyRepository_Upsert 测试外交关系的插入与更新
func (suite *NationRepositoryTestSuite) TestDiplomacyRepository_Upsert() {
	ctx := context.Background()
	user := SeedTestPlayer(suite.T(), suite.db, "diplouser", "diplo@example.com")

	// 首次建立关系
	err := suite.diplomacyRepo.UpsertStatus(ctx, &models.DiplomaticRelationship{
		UserID:  user.ID,
		Country: "Atlantis",
		Status:  models.DiplomacyFriendly,
	})
	assert.NoError(suite.T(), err)

	rel, err := suite.diplomacyRepo.FindByUserAndCountry(ctx, user.ID, "Atlantis")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.DiplomacyFriendly, rel.Status)

	// 同一国家再次写入转为更新
	err = suite.diplomacyRepo.UpsertStatus(ctx, &models.DiplomaticRelationship{
		UserID:  user.ID,
		Country: "Atlantis",
		Status:  models.DiplomacyRival,
	})
	assert.NoError(suite.T(), err)

	rel, err = suite.diplomacyRepo.FindByUserAndCountry(ctx, user.ID, "Atlantis")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.DiplomacyRival, rel.Status)

	// 只存在一条记录
	var count int64
	suite.db.Model(&models.DiplomaticRelationship{}).
		Where("user_id = ? AND country = ?", user.ID, "Atlantis").
		Count(&count)
	assert.Equal(suite.T(), int64(1), count)
}

// TestDiplomacyRepository_PerUserIsolation 测试不同用户对同一国家互不影响
func (suite *NationRepositoryTestSuite) TestDiplomacyRepository_PerUserIsolation() {
	ctx := context.Background()
	alice := SeedTestPlayer(suite.T(), suite.db, "alice", "alice@example.com")
	bob := SeedTestPlayer(suite.T(), suite.db, "bob", "bob@example.com")

	err := suite.diplomacyRepo.UpsertStatus(ctx, &models.DiplomaticRelationship{
		UserID: alice.ID, Country: "Sparta", Status: models.DiplomacyFriendly,
	})
	assert.NoError(suite.T(), err)

	err = suite.diplomacyRepo.UpsertStatus(ctx, &models.DiplomaticRelationship{
		UserID: bob.ID, Country: "Sparta", Status: models.DiplomacyRival,
	})
	assert.NoError(suite.T(), err)

	aliceRel, err := suite.diplomacyRepo.FindByUserAndCountry(ctx, alice.ID, "Sparta")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.DiplomacyFriendly, aliceRel.Status)

	bobRel, err := suite.diplomacyRepo.FindByUserAndCountry(ctx, bob.ID, "Sparta")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.DiplomacyRival, bobRel.Status)
}

// TestDiplomacyRepository_ListByUser 测试列出用户的外交关系
func (suite *NationRepositoryTestSuite) TestDiplomacyRepository_ListByUser() {
	ctx := context.Background()
	user := SeedTestPlayer(suite.T(), suite.db, "listuser", "list@example.com")

	countries := []string{"Avalon", "Byzantium", "Carthage"}
	for _, c := range countries {
		err := suite.diplomacyRepo.UpsertStatus(ctx, &models.DiplomaticRelationship{
			UserID: user.ID, Country: c, Status: models.DiplomacyNeutral,
		})
		assert.NoError(suite.T(), err)
	}

	rels, err := suite.diplomacyRepo.ListByUser(ctx, user.ID)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), rels, 3)
	assert.Equal(suite.T(), "Avalon", rels[0].Country)
}

func TestNationRepositorySuite(t *testing.T) {
	suite.Run(t, new(NationRepositoryTestSuite))
}
