package models

// 外交关系状态
const (
	DiplomacyFriendly = "friendly"
	DiplomacyNeutral  = "neutral"
	DiplomacyRival    = "rival"
)

// Army 军队预算表（每个用户一行）
type Army struct {
	BaseModel
	UserID   uint  `gorm:"uniqueIndex;not null" json:"user_id"`
	AirForce int64 `gorm:"default:0" json:"air_force"`
	Navy     int64 `gorm:"default:0" json:"navy"`
	Ground   int64 `gorm:"default:0" json:"ground"`
	Nuclear  int64 `gorm:"default:0" json:"nuclear"`
}

// GDPManagement 国民经济表
type GDPManagement struct {
	BaseModel
	UserID     uint    `gorm:"index;not null" json:"user_id"`
	GDP        int64   `gorm:"default:0" json:"gdp"`
	Industries JSONMap `gorm:"type:json" json:"industries"` // 自由结构，不做模式校验
	TaxRates   JSONMap `gorm:"type:json" json:"tax_rates"`
}

// PublicSentiment 民意表（本层只读rebellion标志）
type PublicSentiment struct {
	BaseModel
	UserID    uint    `gorm:"index;not null" json:"user_id"`
	Sentiment float64 `gorm:"default:0" json:"sentiment"`
	Rebellion bool    `gorm:"default:false" json:"rebellion"`
}

// DiplomaticRelationship 外交关系表
// (user_id, country) 复合唯一，upsert语义
type DiplomaticRelationship struct {
	BaseModel
	UserID  uint   `gorm:"uniqueIndex:idx_diplomacy_user_country;not null" json:"user_id"`
	Country string `gorm:"uniqueIndex:idx_diplomacy_user_country;size:100;not null" json:"country"`
	Status  string `gorm:"size:20;not null" json:"status"` // friendly, neutral, rival
}
