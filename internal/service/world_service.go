package service

import (
	"context"
	stderrors "errors"
	"math/rand"

	"github.com/wfunc/nation-game/internal/errors"
	"github.com/wfunc/nation-game/internal/logger"
	"github.com/wfunc/nation-game/internal/mailer"
	"github.com/wfunc/nation-game/internal/models"
	"github.com/wfunc/nation-game/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 占领奖励资源与建国初始民意
const (
	captureGoldReward = 100
	captureOilReward  = 50
	initialSentiment  = 50.0
)

// worldService 世界地图服务实现
type worldService struct {
	db            *gorm.DB
	userRepo      repository.UserRepository
	selectionRepo repository.SelectionRepository
	captureRepo   repository.CaptureRepository
	eventRepo     repository.EventRepository
	armyRepo      repository.ArmyRepository
	gdpRepo       repository.GDPRepository
	sentimentRepo repository.SentimentRepository
	diplomacyRepo repository.DiplomacyRepository
	mail          mailer.Mailer
	notify        MapNotifier
	log           *zap.Logger
}

// MapNotifier 世界地图变更通知接口
// WebSocket集线器实现该接口，向在线客户端推送地图更新
type MapNotifier interface {
	NotifyMapChanged(event string, payload interface{})
}

// nopNotifier 空通知实现
type nopNotifier struct{}

func (nopNotifier) NotifyMapChanged(event string, payload interface{}) {}

// NewWorldService 创建世界地图服务
func NewWorldService(
	db *gorm.DB,
	userRepo repository.UserRepository,
	selectionRepo repository.SelectionRepository,
	captureRepo repository.CaptureRepository,
	eventRepo repository.EventRepository,
	armyRepo repository.ArmyRepository,
	gdpRepo repository.GDPRepository,
	sentimentRepo repository.SentimentRepository,
	diplomacyRepo repository.DiplomacyRepository,
	mail mailer.Mailer,
	notify MapNotifier,
	log *zap.Logger,
) WorldService {
	if notify == nil {
		notify = nopNotifier{}
	}
	return &worldService{
		db:            db,
		userRepo:      userRepo,
		selectionRepo: selectionRepo,
		captureRepo:   captureRepo,
		eventRepo:     eventRepo,
		armyRepo:      armyRepo,
		gdpRepo:       gdpRepo,
		sentimentRepo: sentimentRepo,
		diplomacyRepo: diplomacyRepo,
		mail:          mail,
		notify:        notify,
		log:           log,
	}
}

// SelectCountry 选择国家与颜色
// 国家与颜色的唯一性由数据库约束裁决；冲突后再查询区分是哪一项被占用
// 选择成功后初始化玩家的军队、经济与民意基础数据
func (s *worldService) SelectCountry(ctx context.Context, userID uint, req *SelectionRequest) (*models.CountrySelection, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return nil, errors.New(errors.ErrNotFound, "用户不存在")
	}

	selection := &models.CountrySelection{
		UserID:  userID,
		Country: req.Country,
		Color:   req.Color,
	}

	err := s.selectionRepo.Create(ctx, selection)
	if err != nil {
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			if taken, _ := s.selectionRepo.CountryExists(ctx, req.Country); taken {
				return nil, errors.New(errors.ErrCountryTaken)
			}
			return nil, errors.New(errors.ErrColorTaken)
		}
		s.log.Error("创建国家选择失败", zap.Error(err), zap.Uint("user_id", userID))
		return nil, errors.Wrap(err, errors.ErrDatabaseInsert)
	}

	s.seedNationState(ctx, userID)

	logger.LogGameEvent("country_selected", userID, map[string]interface{}{
		"country": selection.Country,
		"color":   selection.Color,
	})

	s.notify.NotifyMapChanged("country_selected", selection)

	return selection, nil
}

// seedNationState 建国时初始化军队、经济与民意记录
// 已有记录的用户保持原值不动
func (s *worldService) seedNationState(ctx context.Context, userID uint) {
	if _, err := s.armyRepo.FindByUserID(ctx, userID); err != nil {
		if err := s.armyRepo.Create(ctx, &models.Army{UserID: userID}); err != nil {
			s.log.Warn("初始化军队记录失败", zap.Error(err), zap.Uint("user_id", userID))
		}
	}
	if _, err := s.gdpRepo.FindFirstByUser(ctx, userID); err != nil {
		gdp := &models.GDPManagement{
			UserID:     userID,
			Industries: models.JSONMap{},
			TaxRates:   models.JSONMap{},
		}
		if err := s.gdpRepo.Create(ctx, gdp); err != nil {
			s.log.Warn("初始化经济记录失败", zap.Error(err), zap.Uint("user_id", userID))
		}
	}
	if _, err := s.sentimentRepo.FindByUserID(ctx, userID); err != nil {
		sentiment := &models.PublicSentiment{UserID: userID, Sentiment: initialSentiment}
		if err := s.sentimentRepo.Create(ctx, sentiment); err != nil {
			s.log.Warn("初始化民意记录失败", zap.Error(err), zap.Uint("user_id", userID))
		}
	}
}

// CaptureCountry 占领国家
// 只有player角色可以占领；成功后发放固定资源奖励并向玩家邮箱发送通知
func (s *worldService) CaptureCountry(ctx context.Context, userID uint, req *CaptureRequest) (*models.Capture, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, errors.New(errors.ErrNotFound, "用户不存在")
	}
	if !user.IsPlayer() {
		return nil, errors.New(errors.ErrNotPlayer)
	}

	capture := &models.Capture{
		UserID:  userID,
		Country: req.Country,
		Resources: models.JSONMap{
			"gold": captureGoldReward,
			"oil":  captureOilReward,
		},
	}

	if err := s.captureRepo.Create(ctx, capture); err != nil {
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errors.New(errors.ErrAlreadyCaptured)
		}
		s.log.Error("创建占领记录失败", zap.Error(err), zap.Uint("user_id", userID))
		return nil, errors.Wrap(err, errors.ErrDatabaseInsert)
	}

	logger.LogGameEvent("country_captured", userID, map[string]interface{}{
		"country": capture.Country,
	})

	// 邮件失败不影响已完成的占领
	if user.Email != "" {
		if err := s.mail.SendCaptureNotification(user.Email, req.Country); err != nil {
			s.log.Warn("占领通知邮件发送失败", zap.Error(err), zap.Uint("user_id", userID))
		}
	}

	s.notify.NotifyMapChanged("country_captured", capture)

	return capture, nil
}

// TriggerRandomEvent 触发随机事件
// 事件类型等概率抽取，影响值按类型落到各自的字段，范围[0,100)
func (s *worldService) TriggerRandomEvent(ctx context.Context, userID uint) (*models.RandomEvent, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return nil, errors.New(errors.ErrNotFound, "用户不存在")
	}

	eventTypes := []string{models.EventAttack, models.EventDisaster, models.EventEconomicShift}
	eventType := eventTypes[rand.Intn(len(eventTypes))]

	impact := models.JSONMap{}
	value := rand.Float64() * 100
	switch eventType {
	case models.EventAttack:
		impact["damage"] = value
	case models.EventDisaster:
		impact["severity"] = value
	case models.EventEconomicShift:
		impact["change"] = value
	}

	event := &models.RandomEvent{
		UserID:    userID,
		EventType: eventType,
		Impact:    impact,
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		s.log.Error("创建随机事件失败", zap.Error(err), zap.Uint("user_id", userID))
		return nil, errors.Wrap(err, errors.ErrDatabaseInsert)
	}

	logger.LogGameEvent("random_event", userID, map[string]interface{}{
		"event_type": eventType,
		"impact":     impact,
	})

	return event, nil
}

// GetCountryFeatures 聚合国家全景数据
// 按国家名定位选择记录，未被选择的国家视为不存在
// 其余子项缺失时返回空值而非报错，保持整体可用
func (s *worldService) GetCountryFeatures(ctx context.Context, country string) (*CountryFeatures, error) {
	selection, err := s.selectionRepo.FindByCountry(ctx, country)
	if err != nil {
		return nil, errors.New(errors.ErrCountryNotFound)
	}
	userID := selection.UserID

	features := &CountryFeatures{Selection: selection}

	if army, err := s.armyRepo.FindByUserID(ctx, userID); err == nil {
		features.Army = army
	}
	if gdp, err := s.gdpRepo.FindFirstByUser(ctx, userID); err == nil {
		features.GDP = gdp
	}
	if sentiment, err := s.sentimentRepo.FindByUserID(ctx, userID); err == nil {
		features.Sentiment = sentiment
	}
	if rels, err := s.diplomacyRepo.ListByUser(ctx, userID); err == nil {
		features.Diplomacy = rels
	}
	if captures, err := s.captureRepo.ListByUser(ctx, userID); err == nil {
		features.Captures = captures
	}
	if events, err := s.eventRepo.ListByUser(ctx, userID, repository.NewPagination(1, 1)); err == nil && len(events) > 0 {
		features.RecentEvent = events[0]
	}

	return features, nil
}

// GetWorldMap 获取世界地图快照
func (s *worldService) GetWorldMap(ctx context.Context) (*WorldMap, error) {
	countries, err := s.selectionRepo.ListOwnership(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrDatabaseQuery)
	}

	captures, err := s.captureRepo.ListAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrDatabaseQuery)
	}

	return &WorldMap{
		Countries: countries,
		Captures:  captures,
	}, nil
}
