package db

import (
	"time"

	"gorm.io/gorm"
)

// Streak 维护每个用户的连续打卡状态，一个用户一条记录
// LongestStreak 单调不减；LastCheckinDate 只保留日期部分
type Streak struct {
	gorm.Model
	UserID          uint `gorm:"uniqueIndex"`
	User            User `gorm:"constraint:OnDelete:CASCADE"`
	CurrentStreak   int
	LongestStreak   int
	LastCheckinDate time.Time
}
