package db

import (
	"gorm.io/gorm"
)

// Checkin 记录一次心情打卡
// SentimentScore 固定在 [0,1] 区间，1 表示心情最好；Tags 来自固定词表
// 客户端的自由文本备注只保存在设备本地，永远不会进入该模型（隐私边界）
// CreatedAt 即打卡时间，写入后不可变更
type Checkin struct {
	gorm.Model
	UserID         uint `gorm:"index"`
	User           User `gorm:"constraint:OnDelete:CASCADE"`
	Emoji          string
	SentimentScore float64
	Tags           []string `gorm:"serializer:json"`
}
