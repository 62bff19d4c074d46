package service

import (
	"context"

	"github.com/wfunc/nation-game/internal/errors"
	"github.com/wfunc/nation-game/internal/logger"
	"github.com/wfunc/nation-game/internal/models"
	"github.com/wfunc/nation-game/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// nationService 国家经营服务实现
type nationService struct {
	db            *gorm.DB
	userRepo      repository.UserRepository
	armyRepo      repository.ArmyRepository
	gdpRepo       repository.GDPRepository
	sentimentRepo repository.SentimentRepository
	diplomacyRepo repository.DiplomacyRepository
	log           *zap.Logger
}

// NewNationService 创建国家经营服务
func NewNationService(
	db *gorm.DB,
	userRepo repository.UserRepository,
	armyRepo repository.ArmyRepository,
	gdpRepo repository.GDPRepository,
	sentimentRepo repository.SentimentRepository,
	diplomacyRepo repository.DiplomacyRepository,
	log *zap.Logger,
) NationService {
	return &nationService{
		db:            db,
		userRepo:      userRepo,
		armyRepo:      armyRepo,
		gdpRepo:       gdpRepo,
		sentimentRepo: sentimentRepo,
		diplomacyRepo: diplomacyRepo,
		log:           log,
	}
}

// UpdateArmy 覆盖写入军队预算
// 四项数值原样落库，预算上限由前端引导；没有军队记录的用户直接报404
func (s *nationService) UpdateArmy(ctx context.Context, userID uint, req *ArmyRequest) (*models.Army, error) {
	army, err := s.armyRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, errors.New(errors.ErrArmyNotFound)
	}

	army.AirForce = req.AirForce
	army.Navy = req.Navy
	army.Ground = req.Ground
	army.Nuclear = req.Nuclear

	if err := s.armyRepo.Update(ctx, army); err != nil {
		s.log.Error("更新军队预算失败", zap.Error(err), zap.Uint("user_id", userID))
		return nil, errors.Wrap(err, errors.ErrDatabaseUpdate)
	}

	updated, err := s.armyRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrDatabaseQuery)
	}

	logger.LogGameEvent("army_updated", userID, map[string]interface{}{
		"air_force": updated.AirForce,
		"navy":      updated.Navy,
		"ground":    updated.Ground,
		"nuclear":   updated.Nuclear,
	})

	return updated, nil
}

// GetArmy 查询军队预算
func (s *nationService) GetArmy(ctx context.Context, userID uint) (*models.Army, error) {
	army, err := s.armyRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, errors.New(errors.ErrArmyNotFound)
	}
	return army, nil
}

// UpdateGDP 更新国民经济
// 覆盖用户全部经济记录的产业与税率后重读第一条返回；尚未建国的用户没有经济记录，直接报404
func (s *nationService) UpdateGDP(ctx context.Context, userID uint, req *GDPRequest) (*models.GDPManagement, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return nil, errors.New(errors.ErrNotFound, "用户不存在")
	}

	if _, err := s.gdpRepo.UpdateAllByUser(ctx, userID, req.Industries, req.TaxRates); err != nil {
		s.log.Error("更新经济记录失败", zap.Error(err), zap.Uint("user_id", userID))
		return nil, errors.Wrap(err, errors.ErrDatabaseUpdate)
	}

	updated, err := s.gdpRepo.FindFirstByUser(ctx, userID)
	if err != nil {
		return nil, errors.New(errors.ErrGDPNotFound)
	}

	logger.LogGameEvent("gdp_updated", userID, map[string]interface{}{
		"gdp": updated.GDP,
	})

	return updated, nil
}

// GetSentiment 查询民意
// 民意由后台演算更新，这一层只读
func (s *nationService) GetSentiment(ctx context.Context, userID uint) (*models.PublicSentiment, error) {
	sentiment, err := s.sentimentRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, errors.New(errors.ErrSentimentNotFound)
	}
	return sentiment, nil
}

// SetDiplomacy 建立或更新外交关系
// 状态取值不做校验，前端下拉框约束为 friendly/neutral/rival
func (s *nationService) SetDiplomacy(ctx context.Context, userID uint, req *DiplomacyRequest) (*models.DiplomaticRelationship, error) {
	rel := &models.DiplomaticRelationship{
		UserID:  userID,
		Country: req.Country,
		Status:  req.Status,
	}

	if err := s.diplomacyRepo.UpsertStatus(ctx, rel); err != nil {
		s.log.Error("更新外交关系失败", zap.Error(err), zap.Uint("user_id", userID))
		return nil, errors.Wrap(err, errors.ErrDatabaseUpdate)
	}

	updated, err := s.diplomacyRepo.FindByUserAndCountry(ctx, userID, req.Country)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrDatabaseQuery)
	}

	logger.LogGameEvent("diplomacy_updated", userID, map[string]interface{}{
		"country": updated.Country,
		"status":  updated.Status,
	})

	return updated, nil
}

// ListDiplomacy 列出用户的全部外交关系
func (s *nationService) ListDiplomacy(ctx context.Context, userID uint) ([]*models.DiplomaticRelationship, error) {
	rels, err := s.diplomacyRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrDatabaseQuery)
	}
	return rels, nil
}
