package models

// 随机事件类型
const (
	EventAttack        = "attack"
	EventDisaster      = "disaster"
	EventEconomicShift = "economic shift"
)

// CountrySelection 国家/颜色选择表
// country与color都由数据库唯一约束保证，并发插入由约束裁决
type CountrySelection struct {
	BaseModel
	UserID  uint   `gorm:"index;not null" json:"user_id"`
	Country string `gorm:"uniqueIndex;size:100;not null" json:"country"`
	Color   string `gorm:"uniqueIndex;size:20;not null" json:"color"`
}

// Capture 占领记录表
// 每个(user_id, country)至多一条
type Capture struct {
	BaseModel
	UserID    uint    `gorm:"uniqueIndex:idx_capture_user_country;not null" json:"user_id"`
	Country   string  `gorm:"uniqueIndex:idx_capture_user_country;size:100;not null" json:"country"`
	Resources JSONMap `gorm:"type:json" json:"resources"`
}

// RandomEvent 随机事件表（只创建，不修改）
type RandomEvent struct {
	BaseModel
	UserID    uint    `gorm:"index;not null" json:"user_id"`
	EventType string  `gorm:"size:50;not null" json:"event_type"` // attack, disaster, economic shift
	Impact    JSONMap `gorm:"type:json" json:"impact"`
}
