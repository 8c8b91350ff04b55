package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/moodlog/internal/db"
	"gorm.io/gorm"
)

// StreakService 维护连续打卡状态：写入时推进，读取时惰性修复。
// 约定同一用户同一时刻最多只有一个在途更新（移动端单客户端写入模式）。
type StreakService struct {
	db *gorm.DB
}

// NewStreakService 构造 StreakService
func NewStreakService(gdb *gorm.DB) *StreakService {
	return &StreakService{db: gdb}
}

// RecordCheckin 在一次打卡落库之后推进连续计数：
//   - 无状态记录：创建 current = longest = 1
//   - 同一天重复：幂等，不做任何修改
//   - 恰好顺延一天：current + 1，longest 取最大值
//   - 其余情况（中断）：current 重置为 1，longest 保持不变
func (s *StreakService) RecordCheckin(userID uint, checkinDate time.Time) (*db.Streak, error) {
	if userID == 0 {
		return nil, errors.New("user id is required")
	}

	date := dateOnly(checkinDate)
	var streak db.Streak

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ?", userID).First(&streak).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			streak = db.Streak{
				UserID:          userID,
				CurrentStreak:   1,
				LongestStreak:   1,
				LastCheckinDate: date,
			}
			return tx.Create(&streak).Error
		}
		if err != nil {
			return err
		}

		switch daysBetween(streak.LastCheckinDate, date) {
		case 0:
			// 当天已经打过卡，保持幂等
			return nil
		case 1:
			streak.CurrentStreak++
			if streak.CurrentStreak > streak.LongestStreak {
				streak.LongestStreak = streak.CurrentStreak
			}
		default:
			streak.CurrentStreak = 1
		}

		streak.LastCheckinDate = date
		return tx.Save(&streak).Error
	}); err != nil {
		return nil, fmt.Errorf("record checkin streak: %w", err)
	}

	return &streak, nil
}

// ReconcileOnRead 读取连续打卡状态，并在发现断档时惰性归零：
// 最近一次打卡既不是今天也不是昨天，current 归零持久化，
// longest 与 lastCheckinDate 保持原样。该用户还没有任何状态时
// 返回零值结果，不落库。
func (s *StreakService) ReconcileOnRead(userID uint, today time.Time) (*db.Streak, error) {
	var streak db.Streak
	err := s.db.Where("user_id = ?", userID).First(&streak).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &db.Streak{UserID: userID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load streak: %w", err)
	}

	gap := daysBetween(streak.LastCheckinDate, today)
	if gap != 0 && gap != 1 {
		if streak.CurrentStreak != 0 {
			streak.CurrentStreak = 0
			if err := s.db.Model(&db.Streak{}).
				Where("user_id = ?", userID).
				Update("current_streak", 0).Error; err != nil {
				return nil, fmt.Errorf("reset lapsed streak: %w", err)
			}
		}
	}

	return &streak, nil
}
